package api

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PpaulaPulido/karaoke-reservations/internal/calendar"
	"github.com/PpaulaPulido/karaoke-reservations/internal/service"
)

// ErrorDomain: домен в ErrorInfo, Reason там: код отказа сервиса.
const ErrorDomain = "karaoke.reservations"

// toStatus переводит ошибку сервиса в grpc-статус.
// Инфраструктурные ошибки наружу не отдаются: клиент видит только codes.Internal.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		rejected *service.RejectedError
		missing  *service.NotFoundError
	)
	switch {
	case errors.As(err, &rejected):
		code := codes.FailedPrecondition
		if rejected.Reason.IsValidation() {
			code = codes.InvalidArgument
		}
		return withInfo(status.New(code, rejected.Message), string(rejected.Reason), nil)
	case errors.As(err, &missing):
		return withInfo(status.New(codes.NotFound, err.Error()), "not_found", map[string]string{
			"entity": missing.Entity,
			"id":     missing.ID,
		})
	case errors.Is(err, service.ErrBusy):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func withInfo(st *status.Status, reason string, meta map[string]string) error {
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   ErrorDomain,
		Metadata: meta,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// ReasonFromStatus достаёт код отказа из ответа сервера.
func ReasonFromStatus(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == ErrorDomain {
			return info.GetReason()
		}
	}
	return ""
}

//
// Разбор входных полей
//

func parseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s: invalid uuid %q", field, raw)
	}
	return id, nil
}

func parseIDs(field string, raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(field, r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, status.Error(codes.InvalidArgument, "date is required")
	}
	d, err := calendar.ParseDate(raw)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "date: expected YYYY-MM-DD, got %q", raw)
	}
	return d, nil
}

func parseRange(start, end string) (calendar.TimeRange, error) {
	from, err := calendar.ParseTimeOfDay(start)
	if err != nil {
		return calendar.TimeRange{}, invalidRange("start_time", start)
	}
	to, err := calendar.ParseTimeOfDay(end)
	if err != nil {
		return calendar.TimeRange{}, invalidRange("end_time", end)
	}
	return calendar.TimeRange{Start: from, End: to}, nil
}

func invalidRange(field, raw string) error {
	return withInfo(
		status.Newf(codes.InvalidArgument, "%s: expected HH:MM, got %q", field, raw),
		string(service.ReasonInvalidTimeRange), nil)
}

func toStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
