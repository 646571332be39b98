package apiv1

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/saudeviva/agenda/server/internal/observability"
	"github.com/saudeviva/agenda/server/service/scheduling"
	"github.com/saudeviva/agenda/store"
)

// CreateAppointmentRequest represents the request to book an appointment.
// Either Text (natural language, routed through the intent extractor) or the
// structured fields must be set. Text wins when both are present.
type CreateAppointmentRequest struct {
	Text        string `json:"text"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// AppointmentResponse represents an appointment in API responses.
type AppointmentResponse struct {
	ID              int32  `json:"id"`
	PatientName     string `json:"patient_name"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes int32  `json:"duration_minutes"`
	Status          string `json:"status"`
	Practitioner    string `json:"practitioner"`
	CreatedTs       int64  `json:"created_ts"`
}

// ErrorResponse carries the rejection code and a human readable message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func appointmentResponse(a *store.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:              a.ID,
		PatientName:     a.PatientName,
		Date:            a.Date,
		Time:            a.Time,
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Practitioner:    a.Practitioner,
		CreatedTs:       a.CreatedTs,
	}
}

// CreateAppointment books an appointment.
// POST /api/v1/appointments
func (s *APIV1Service) CreateAppointment(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.Logger, "create_appointment")
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	var req CreateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    string(scheduling.CodeMalformedCandidate),
			Message: "malformed request body",
		})
	}

	candidate := scheduling.Candidate{
		PatientName: req.PatientName,
		Date:        req.Date,
		Time:        req.Time,
	}
	if req.Text != "" {
		extracted, err := s.Extractor.Extract(ctx, req.Text, time.Now())
		if err != nil {
			reqCtx.Warn("intent extraction failed")
			return s.rejectionJSON(c, reqCtx, scheduling.ExtractionFailed(err))
		}
		candidate = scheduling.Candidate{
			PatientName: extracted.Name,
			Date:        extracted.Date,
			Time:        extracted.Time,
		}
	}

	appointment, err := s.Scheduler.Schedule(ctx, candidate)
	if err != nil {
		return s.rejectionJSON(c, reqCtx, err)
	}

	reqCtx.Info("appointment created")
	return c.JSON(http.StatusCreated, appointmentResponse(appointment))
}

// ListAppointments returns every appointment in insertion order.
// GET /api/v1/appointments
func (s *APIV1Service) ListAppointments(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.Logger, "list_appointments")
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	list, err := s.Scheduler.List(ctx)
	if err != nil {
		return s.rejectionJSON(c, reqCtx, err)
	}

	responses := make([]*AppointmentResponse, 0, len(list))
	for _, a := range list {
		responses = append(responses, appointmentResponse(a))
	}
	return c.JSON(http.StatusOK, responses)
}

// CancelAppointment cancels an appointment by id.
// POST /api/v1/appointments/:id/cancel
func (s *APIV1Service) CancelAppointment(c echo.Context) error {
	reqCtx := observability.NewRequestContext(s.Logger, "cancel_appointment")
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    string(scheduling.CodeMalformedCandidate),
			Message: "id must be an integer",
		})
	}

	appointment, err := s.Scheduler.Cancel(ctx, int32(id))
	if err != nil {
		return s.rejectionJSON(c, reqCtx, err)
	}

	reqCtx.Info("appointment cancelled")
	return c.JSON(http.StatusOK, appointmentResponse(appointment))
}

// rejectionJSON maps a scheduling rejection to an HTTP response.
func (s *APIV1Service) rejectionJSON(c echo.Context, reqCtx *observability.RequestContext, err error) error {
	var rejection *scheduling.RejectionError
	if !errors.As(err, &rejection) {
		reqCtx.Error("unexpected scheduling error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    string(scheduling.CodeStorageUnavailable),
			Message: "internal error",
		})
	}

	reqCtx.Warn("request rejected",
		slog.String(observability.LogFieldRejection, string(rejection.Code)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(httpStatusForCode(rejection.Code), ErrorResponse{
		Code:    string(rejection.Code),
		Message: rejection.Message,
	})
}

func httpStatusForCode(code scheduling.Code) int {
	switch code {
	case scheduling.CodeExtractionFailed, scheduling.CodeMalformedCandidate,
		scheduling.CodeNonBusinessDay, scheduling.CodeOutsideBusinessHours:
		return http.StatusBadRequest
	case scheduling.CodeSlotConflict:
		return http.StatusConflict
	case scheduling.CodeNotFound:
		return http.StatusNotFound
	case scheduling.CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
