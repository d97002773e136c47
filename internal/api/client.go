package api

import (
	"context"

	"google.golang.org/grpc"
)

// Client: клиент сервиса броней поверх любого grpc-соединения.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReservation(ctx context.Context, in *CreateReservationRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "CreateReservation", in, opts)
}

func (c *Client) GetReservation(ctx context.Context, in *ReservationIDRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "GetReservation", in, opts)
}

func (c *Client) CancelReservation(ctx context.Context, in *ReservationIDRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "CancelReservation", in, opts)
}

func (c *Client) CompleteReservation(ctx context.Context, in *ReservationIDRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "CompleteReservation", in, opts)
}

func (c *Client) UndoComplete(ctx context.Context, in *ReservationIDRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "UndoComplete", in, opts)
}

func (c *Client) RevertCancelled(ctx context.Context, in *ReservationIDRequest, opts ...grpc.CallOption) (*ReservationResponse, error) {
	return invoke[ReservationResponse](ctx, c.cc, "RevertCancelled", in, opts)
}

func (c *Client) ListUserReservations(ctx context.Context, in *ListUserReservationsRequest, opts ...grpc.CallOption) (*ListUserReservationsResponse, error) {
	return invoke[ListUserReservationsResponse](ctx, c.cc, "ListUserReservations", in, opts)
}

func (c *Client) IsRoomAvailable(ctx context.Context, in *IsRoomAvailableRequest, opts ...grpc.CallOption) (*IsRoomAvailableResponse, error) {
	return invoke[IsRoomAvailableResponse](ctx, c.cc, "IsRoomAvailable", in, opts)
}

func (c *Client) CreateRoom(ctx context.Context, in *CreateRoomRequest, opts ...grpc.CallOption) (*RoomResponse, error) {
	return invoke[RoomResponse](ctx, c.cc, "CreateRoom", in, opts)
}

func (c *Client) ListRooms(ctx context.Context, in *ListRoomsRequest, opts ...grpc.CallOption) (*ListRoomsResponse, error) {
	return invoke[ListRoomsResponse](ctx, c.cc, "ListRooms", in, opts)
}

func (c *Client) SetRoomInService(ctx context.Context, in *SetRoomInServiceRequest, opts ...grpc.CallOption) (*RoomResponse, error) {
	return invoke[RoomResponse](ctx, c.cc, "SetRoomInService", in, opts)
}

func (c *Client) CreateExtra(ctx context.Context, in *CreateExtraRequest, opts ...grpc.CallOption) (*ExtraResponse, error) {
	return invoke[ExtraResponse](ctx, c.cc, "CreateExtra", in, opts)
}

func (c *Client) ListExtras(ctx context.Context, in *ListExtrasRequest, opts ...grpc.CallOption) (*ListExtrasResponse, error) {
	return invoke[ListExtrasResponse](ctx, c.cc, "ListExtras", in, opts)
}

func (c *Client) DeleteExtra(ctx context.Context, in *DeleteExtraRequest, opts ...grpc.CallOption) (*DeleteExtraResponse, error) {
	return invoke[DeleteExtraResponse](ctx, c.cc, "DeleteExtra", in, opts)
}
