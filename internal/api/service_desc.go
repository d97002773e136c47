package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "karaoke.v1.ReservationService"

// ReservationServiceServer: RPC сервиса броней. Сообщения ходят через json-кодек.
type ReservationServiceServer interface {
	CreateReservation(context.Context, *CreateReservationRequest) (*ReservationResponse, error)
	GetReservation(context.Context, *ReservationIDRequest) (*ReservationResponse, error)
	CancelReservation(context.Context, *ReservationIDRequest) (*ReservationResponse, error)
	CompleteReservation(context.Context, *ReservationIDRequest) (*ReservationResponse, error)
	UndoComplete(context.Context, *ReservationIDRequest) (*ReservationResponse, error)
	RevertCancelled(context.Context, *ReservationIDRequest) (*ReservationResponse, error)
	ListUserReservations(context.Context, *ListUserReservationsRequest) (*ListUserReservationsResponse, error)
	IsRoomAvailable(context.Context, *IsRoomAvailableRequest) (*IsRoomAvailableResponse, error)
	CreateRoom(context.Context, *CreateRoomRequest) (*RoomResponse, error)
	ListRooms(context.Context, *ListRoomsRequest) (*ListRoomsResponse, error)
	SetRoomInService(context.Context, *SetRoomInServiceRequest) (*RoomResponse, error)
	CreateExtra(context.Context, *CreateExtraRequest) (*ExtraResponse, error)
	ListExtras(context.Context, *ListExtrasRequest) (*ListExtrasResponse, error)
	DeleteExtra(context.Context, *DeleteExtraRequest) (*DeleteExtraResponse, error)
}

func RegisterReservationServiceServer(s grpc.ServiceRegistrar, srv ReservationServiceServer) {
	s.RegisterService(&ReservationServiceDesc, srv)
}

var ReservationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateReservation", ReservationServiceServer.CreateReservation),
		unary("GetReservation", ReservationServiceServer.GetReservation),
		unary("CancelReservation", ReservationServiceServer.CancelReservation),
		unary("CompleteReservation", ReservationServiceServer.CompleteReservation),
		unary("UndoComplete", ReservationServiceServer.UndoComplete),
		unary("RevertCancelled", ReservationServiceServer.RevertCancelled),
		unary("ListUserReservations", ReservationServiceServer.ListUserReservations),
		unary("IsRoomAvailable", ReservationServiceServer.IsRoomAvailable),
		unary("CreateRoom", ReservationServiceServer.CreateRoom),
		unary("ListRooms", ReservationServiceServer.ListRooms),
		unary("SetRoomInService", ReservationServiceServer.SetRoomInService),
		unary("CreateExtra", ReservationServiceServer.CreateExtra),
		unary("ListExtras", ReservationServiceServer.ListExtras),
		unary("DeleteExtra", ReservationServiceServer.DeleteExtra),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "karaoke/v1/reservation.json",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary собирает обработчик метода так же, как это делает сгенерированный код.
func unary[Req, Resp any](
	name string,
	call func(ReservationServiceServer, context.Context, *Req) (*Resp, error),
) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ReservationServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ReservationServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
