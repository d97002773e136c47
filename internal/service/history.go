package service

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/model"
)

type HistoryFilter string

const (
	FilterAll       HistoryFilter = "all"
	FilterConfirmed HistoryFilter = "confirmed"
	FilterCancelled HistoryFilter = "cancelled"
	FilterCompleted HistoryFilter = "completed"
	FilterPast      HistoryFilter = "past"
	FilterUpcoming  HistoryFilter = "upcoming"
)

type HistorySort string

const (
	SortDateDesc   HistorySort = "date_desc"
	SortDateAsc    HistorySort = "date_asc"
	SortPriceDesc  HistorySort = "price_desc"
	SortPriceAsc   HistorySort = "price_asc"
	SortPeopleDesc HistorySort = "people_desc"
)

type HistoryQuery struct {
	UserID   uuid.UUID
	Filter   HistoryFilter
	Sort     HistorySort
	Page     int
	PageSize int
}

// StatusCounts считается по всей истории, до фильтра.
type StatusCounts struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

type History struct {
	Page   calendar.Page[model.Reservation] `json:"page"`
	Filter HistoryFilter                    `json:"filter"`
	Sort   HistorySort                      `json:"sort"`
	Counts StatusCounts                     `json:"counts"`
}

// History: история броней пользователя с фильтром, сортировкой и страницами.
func (s *ReservationService) History(ctx context.Context, q HistoryQuery) (*History, error) {
	filter := HistoryFilter(strings.ToLower(strings.TrimSpace(string(q.Filter))))
	if filter == "" {
		filter = FilterAll
	}
	order := HistorySort(strings.ToLower(strings.TrimSpace(string(q.Sort))))
	if order == "" {
		order = SortDateDesc
	}
	if !validFilter(filter) {
		return nil, reject(ReasonInvalidQuery, "unknown filter %q", q.Filter)
	}
	if !validSort(order) {
		return nil, reject(ReasonInvalidQuery, "unknown sort %q", q.Sort)
	}

	all, err := s.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	counts := StatusCounts{Total: len(all)}
	for i := range all {
		switch all[i].Status {
		case model.ReservationStatusConfirmed:
			counts.Confirmed++
		case model.ReservationStatusCancelled:
			counts.Cancelled++
		case model.ReservationStatusCompleted:
			counts.Completed++
		}
	}

	filtered := make([]model.Reservation, 0, len(all))
	for i := range all {
		if s.matches(&all[i], filter) {
			filtered = append(filtered, all[i])
		}
	}
	sortReservations(filtered, order)

	return &History{
		Page:   calendar.Paginate(filtered, q.Page, q.PageSize),
		Filter: filter,
		Sort:   order,
		Counts: counts,
	}, nil
}

func (s *ReservationService) matches(r *model.Reservation, f HistoryFilter) bool {
	switch f {
	case FilterConfirmed:
		return r.Status == model.ReservationStatusConfirmed
	case FilterCancelled:
		return r.Status == model.ReservationStatusCancelled
	case FilterCompleted:
		return r.Status == model.ReservationStatusCompleted
	case FilterPast:
		_, end := r.Span(s.clock.loc())
		return !end.After(s.clock.now())
	case FilterUpcoming:
		start, _ := r.Span(s.clock.loc())
		return start.After(s.clock.now())
	default:
		return true
	}
}

func validFilter(f HistoryFilter) bool {
	switch f {
	case FilterAll, FilterConfirmed, FilterCancelled, FilterCompleted, FilterPast, FilterUpcoming:
		return true
	}
	return false
}

func validSort(o HistorySort) bool {
	switch o {
	case SortDateDesc, SortDateAsc, SortPriceDesc, SortPriceAsc, SortPeopleDesc:
		return true
	}
	return false
}

func sortReservations(list []model.Reservation, order HistorySort) {
	byDate := func(a, b *model.Reservation) int {
		if c := a.Date().Compare(b.Date()); c != 0 {
			return c
		}
		return int(a.StartTime) - int(b.StartTime)
	}

	var less func(a, b *model.Reservation) bool
	switch order {
	case SortDateAsc:
		less = func(a, b *model.Reservation) bool { return byDate(a, b) < 0 }
	case SortPriceDesc:
		less = func(a, b *model.Reservation) bool { return a.TotalPrice > b.TotalPrice }
	case SortPriceAsc:
		less = func(a, b *model.Reservation) bool { return a.TotalPrice < b.TotalPrice }
	case SortPeopleDesc:
		less = func(a, b *model.Reservation) bool { return a.NumberOfPeople > b.NumberOfPeople }
	default:
		less = func(a, b *model.Reservation) bool { return byDate(a, b) > 0 }
	}

	sort.SliceStable(list, func(i, j int) bool { return less(&list[i], &list[j]) })
}
