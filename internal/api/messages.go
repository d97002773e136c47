package api

import (
	"time"

	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
	"github.com/PpaulaPulido/karaoke-reservations/internal/service"
)

// Даты в сообщениях: "YYYY-MM-DD", время суток: "HH:MM", деньги: центы.

type CreateReservationRequest struct {
	RoomID         string   `json:"room_id"`
	UserID         string   `json:"user_id"`
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	NumberOfPeople int      `json:"number_of_people"`
	ExtraIDs       []string `json:"extra_ids,omitempty"`
}

type ReservationIDRequest struct {
	ReservationID string `json:"reservation_id"`
}

type ReservationResponse struct {
	Reservation *Reservation `json:"reservation"`
}

type Reservation struct {
	ID              string    `json:"id"`
	RoomID          string    `json:"room_id"`
	UserID          string    `json:"user_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	CrossesMidnight bool      `json:"crosses_midnight"`
	DurationMinutes int       `json:"duration_minutes"`
	NumberOfPeople  int       `json:"number_of_people"`
	Status          string    `json:"status"`
	TotalPrice      int64     `json:"total_price"`
	ExtraIDs        []string  `json:"extra_ids,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListUserReservationsRequest struct {
	UserID   string `json:"user_id"`
	Filter   string `json:"filter,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

type ListUserReservationsResponse struct {
	Reservations []*Reservation       `json:"reservations"`
	Filter       string               `json:"filter"`
	Sort         string               `json:"sort"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
	Total        int                  `json:"total"`
	TotalPages   int                  `json:"total_pages"`
	HasNext      bool                 `json:"has_next"`
	HasPrev      bool                 `json:"has_prev"`
	Counts       service.StatusCounts `json:"counts"`
}

type IsRoomAvailableRequest struct {
	RoomID    string `json:"room_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type IsRoomAvailableResponse struct {
	Available bool `json:"available"`
}

type CreateRoomRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MinCapacity  int    `json:"min_capacity"`
	MaxCapacity  int    `json:"max_capacity"`
	PricePerHour int64  `json:"price_per_hour"`
}

type Room struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	MinCapacity  int    `json:"min_capacity"`
	MaxCapacity  int    `json:"max_capacity"`
	PricePerHour int64  `json:"price_per_hour"`
	InService    bool   `json:"in_service"`
	IsAvailable  bool   `json:"is_available"`
}

type RoomResponse struct {
	Room *Room `json:"room"`
}

// ListRoomsRequest: People > 0: только работающие залы, куда помещается компания.
type ListRoomsRequest struct {
	InServiceOnly bool `json:"in_service_only,omitempty"`
	People        int  `json:"people,omitempty"`
}

type ListRoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}

type SetRoomInServiceRequest struct {
	RoomID    string `json:"room_id"`
	InService bool   `json:"in_service"`
}

type CreateExtraRequest struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

type Extra struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

type ExtraResponse struct {
	Extra *Extra `json:"extra"`
}

type ListExtrasRequest struct {
	Type string `json:"type,omitempty"`
}

type ListExtrasResponse struct {
	Extras []*Extra `json:"extras"`
	Types  []string `json:"types"`
}

type DeleteExtraRequest struct {
	ExtraID string `json:"extra_id"`
}

type DeleteExtraResponse struct {
	DetachedReservationIDs []string `json:"detached_reservation_ids"`
}

func toReservation(r *model.Reservation) *Reservation {
	out := &Reservation{
		ID:              r.ID.String(),
		RoomID:          r.RoomID.String(),
		UserID:          r.UserID.String(),
		Date:            r.Date().Format(time.DateOnly),
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		CrossesMidnight: r.Range().CrossesMidnight(),
		DurationMinutes: r.DurationMinutes,
		NumberOfPeople:  r.NumberOfPeople,
		Status:          string(r.Status),
		TotalPrice:      r.TotalPrice,
		CreatedAt:       r.CreatedAt.UTC(),
	}
	for _, id := range r.ExtraIDs() {
		out.ExtraIDs = append(out.ExtraIDs, id.String())
	}
	return out
}

func toReservations(list []model.Reservation) []*Reservation {
	out := make([]*Reservation, 0, len(list))
	for i := range list {
		out = append(out, toReservation(&list[i]))
	}
	return out
}

func toRoom(r *model.Room) *Room {
	return &Room{
		ID:           r.ID.String(),
		Name:         r.Name,
		Description:  r.Description,
		MinCapacity:  r.MinCapacity,
		MaxCapacity:  r.MaxCapacity,
		PricePerHour: r.PricePerHour,
		InService:    r.InService,
		IsAvailable:  r.IsAvailable,
	}
}

func toExtra(e *model.Extra) *Extra {
	return &Extra{
		ID:          e.ID.String(),
		Name:        e.Name,
		Type:        e.Type,
		Description: e.Description,
		Price:       e.Price,
		IsAvailable: e.IsAvailable,
	}
}
