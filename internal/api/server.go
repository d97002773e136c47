package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/service"
)

// Server: grpc-обёртка над сервисами броней, залов и доп. услуг.
type Server struct {
	reservations *service.ReservationService
	rooms        *service.RoomService
	extras       *service.ExtraService
}

func NewServer(
	reservations *service.ReservationService,
	rooms *service.RoomService,
	extras *service.ExtraService,
) *Server {
	return &Server{
		reservations: reservations,
		rooms:        rooms,
		extras:       extras,
	}
}

// ServerOptions: что ещё повесить на grpc-сервер.
type ServerOptions struct {
	Reflection bool
	Logger     logrus.FieldLogger
}

// NewGRPCServer регистрирует сервис броней, health и (опционально) reflection.
func NewGRPCServer(srv *Server, opts ServerOptions) *grpc.Server {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	gs := grpc.NewServer(grpc.ChainUnaryInterceptor(
		recoveryInterceptor(log),
		loggingInterceptor(log),
	))
	RegisterReservationServiceServer(gs, srv)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)

	if opts.Reflection {
		reflection.Register(gs)
	}
	return gs
}

//
// Брони
//

func (s *Server) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*ReservationResponse, error) {
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	r, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	extraIDs, err := parseIDs("extra_ids", req.ExtraIDs)
	if err != nil {
		return nil, err
	}

	res, err := s.reservations.Create(ctx, service.Candidate{
		RoomID:         roomID,
		UserID:         userID,
		Date:           date,
		Range:          r,
		NumberOfPeople: req.NumberOfPeople,
		ExtraIDs:       extraIDs,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReservationResponse{Reservation: toReservation(res)}, nil
}

func (s *Server) GetReservation(ctx context.Context, req *ReservationIDRequest) (*ReservationResponse, error) {
	return s.byID(ctx, req, s.reservations.Get)
}

func (s *Server) CancelReservation(ctx context.Context, req *ReservationIDRequest) (*ReservationResponse, error) {
	return s.byID(ctx, req, s.reservations.Cancel)
}

func (s *Server) CompleteReservation(ctx context.Context, req *ReservationIDRequest) (*ReservationResponse, error) {
	return s.byID(ctx, req, s.reservations.Complete)
}

func (s *Server) UndoComplete(ctx context.Context, req *ReservationIDRequest) (*ReservationResponse, error) {
	return s.byID(ctx, req, s.reservations.UndoComplete)
}

func (s *Server) RevertCancelled(ctx context.Context, req *ReservationIDRequest) (*ReservationResponse, error) {
	return s.byID(ctx, req, s.reservations.RevertCancelled)
}

func (s *Server) byID(
	ctx context.Context,
	req *ReservationIDRequest,
	op func(context.Context, uuid.UUID) (*model.Reservation, error),
) (*ReservationResponse, error) {
	id, err := parseID("reservation_id", req.ReservationID)
	if err != nil {
		return nil, err
	}
	res, err := op(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ReservationResponse{Reservation: toReservation(res)}, nil
}

func (s *Server) ListUserReservations(ctx context.Context, req *ListUserReservationsRequest) (*ListUserReservationsResponse, error) {
	userID, err := parseID("user_id", req.UserID)
	if err != nil {
		return nil, err
	}

	h, err := s.reservations.History(ctx, service.HistoryQuery{
		UserID:   userID,
		Filter:   service.HistoryFilter(req.Filter),
		Sort:     service.HistorySort(req.Sort),
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &ListUserReservationsResponse{
		Reservations: toReservations(h.Page.Items),
		Filter:       string(h.Filter),
		Sort:         string(h.Sort),
		Page:         h.Page.Page,
		PageSize:     h.Page.PageSize,
		Total:        h.Page.Total,
		TotalPages:   h.Page.TotalPages,
		HasNext:      h.Page.HasNext,
		HasPrev:      h.Page.HasPrev,
		Counts:       h.Counts,
	}, nil
}

func (s *Server) IsRoomAvailable(ctx context.Context, req *IsRoomAvailableRequest) (*IsRoomAvailableResponse, error) {
	roomID, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	r, err := parseRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	ok, err := s.reservations.IsRoomAvailable(ctx, roomID, date, r)
	if err != nil {
		return nil, toStatus(err)
	}
	return &IsRoomAvailableResponse{Available: ok}, nil
}

//
// Залы
//

func (s *Server) CreateRoom(ctx context.Context, req *CreateRoomRequest) (*RoomResponse, error) {
	room, err := s.rooms.Create(ctx, service.RoomInput{
		Name:         req.Name,
		Description:  req.Description,
		MinCapacity:  req.MinCapacity,
		MaxCapacity:  req.MaxCapacity,
		PricePerHour: req.PricePerHour,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &RoomResponse{Room: toRoom(room)}, nil
}

func (s *Server) ListRooms(ctx context.Context, req *ListRoomsRequest) (*ListRoomsResponse, error) {
	var (
		rooms []model.Room
		err   error
	)
	switch {
	case req.People > 0:
		rooms, err = s.rooms.ListForParty(ctx, req.People)
	case req.InServiceOnly:
		rooms, err = s.rooms.ListInService(ctx)
	default:
		rooms, err = s.rooms.List(ctx)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListRoomsResponse{Rooms: make([]*Room, 0, len(rooms))}
	for i := range rooms {
		resp.Rooms = append(resp.Rooms, toRoom(&rooms[i]))
	}
	return resp, nil
}

func (s *Server) SetRoomInService(ctx context.Context, req *SetRoomInServiceRequest) (*RoomResponse, error) {
	id, err := parseID("room_id", req.RoomID)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.SetInService(ctx, id, req.InService)
	if err != nil {
		return nil, toStatus(err)
	}
	return &RoomResponse{Room: toRoom(room)}, nil
}

//
// Доп. услуги
//

func (s *Server) CreateExtra(ctx context.Context, req *CreateExtraRequest) (*ExtraResponse, error) {
	e, err := s.extras.Create(ctx, service.ExtraInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &ExtraResponse{Extra: toExtra(e)}, nil
}

func (s *Server) ListExtras(ctx context.Context, req *ListExtrasRequest) (*ListExtrasResponse, error) {
	var (
		list []model.Extra
		err  error
	)
	if req.Type != "" {
		list, err = s.extras.ListByType(ctx, req.Type)
	} else {
		list, err = s.extras.List(ctx)
	}
	if err != nil {
		return nil, toStatus(err)
	}
	types, err := s.extras.Types(ctx)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &ListExtrasResponse{
		Extras: make([]*Extra, 0, len(list)),
		Types:  types,
	}
	for i := range list {
		resp.Extras = append(resp.Extras, toExtra(&list[i]))
	}
	return resp, nil
}

func (s *Server) DeleteExtra(ctx context.Context, req *DeleteExtraRequest) (*DeleteExtraResponse, error) {
	id, err := parseID("extra_id", req.ExtraID)
	if err != nil {
		return nil, err
	}
	detached, err := s.extras.Delete(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DeleteExtraResponse{DetachedReservationIDs: toStrings(detached)}, nil
}
