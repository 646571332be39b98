package apiv1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/plugin/ai/intent"
	"github.com/saudeviva/agenda/server/service/scheduling"
	"github.com/saudeviva/agenda/store"
)

// MockScheduler is a scripted scheduling.Service for handler tests.
type MockScheduler struct {
	ScheduleFn func(ctx context.Context, candidate scheduling.Candidate) (*store.Appointment, error)
	CancelFn   func(ctx context.Context, id int32) (*store.Appointment, error)
	ListFn     func(ctx context.Context) ([]*store.Appointment, error)
}

func (m *MockScheduler) Schedule(ctx context.Context, candidate scheduling.Candidate) (*store.Appointment, error) {
	return m.ScheduleFn(ctx, candidate)
}

func (m *MockScheduler) Cancel(ctx context.Context, id int32) (*store.Appointment, error) {
	return m.CancelFn(ctx, id)
}

func (m *MockScheduler) List(ctx context.Context) ([]*store.Appointment, error) {
	return m.ListFn(ctx)
}

func newTestService(scheduler scheduling.Service, extractor intent.Extractor) *APIV1Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAPIV1Service(&profile.Profile{Mode: "demo"}, scheduler, extractor, logger)
}

func doRequest(t *testing.T, service *APIV1Service, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	service.RegisterRoutes(e)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateAppointment_Structured(t *testing.T) {
	scheduler := &MockScheduler{
		ScheduleFn: func(_ context.Context, candidate scheduling.Candidate) (*store.Appointment, error) {
			require.Equal(t, "Ana", candidate.PatientName)
			return &store.Appointment{
				ID:              1,
				PatientName:     candidate.PatientName,
				Date:            candidate.Date,
				Time:            candidate.Time,
				DurationMinutes: 30,
				Status:          store.Scheduled,
				Practitioner:    "Dr. Carlos (General Practice)",
			}, nil
		},
	}
	service := newTestService(scheduler, intent.NewMockExtractor())

	rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments",
		`{"patient_name": "Ana", "date": "2025-06-02", "time": "09:00"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int32(1), resp.ID)
	assert.Equal(t, "SCHEDULED", resp.Status)
	assert.Equal(t, int32(30), resp.DurationMinutes)
}

func TestCreateAppointment_FreeText(t *testing.T) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	scheduler := &MockScheduler{
		ScheduleFn: func(_ context.Context, candidate scheduling.Candidate) (*store.Appointment, error) {
			require.Equal(t, "Ana", candidate.PatientName)
			require.Equal(t, tomorrow, candidate.Date)
			require.Equal(t, "09:30", candidate.Time)
			return &store.Appointment{ID: 1, PatientName: candidate.PatientName, Date: candidate.Date, Time: candidate.Time, Status: store.Scheduled}, nil
		},
	}
	service := newTestService(scheduler, intent.NewMockExtractor())

	rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments",
		`{"text": "book a consultation for Ana tomorrow at 09:30"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateAppointment_ExtractionFailure(t *testing.T) {
	scheduler := &MockScheduler{
		ScheduleFn: func(_ context.Context, _ scheduling.Candidate) (*store.Appointment, error) {
			t.Fatal("scheduler must not be reached when extraction fails")
			return nil, nil
		},
	}
	service := newTestService(scheduler, intent.NewMockExtractor())

	rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments",
		`{"text": "good morning"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(scheduling.CodeExtractionFailed), resp.Code)
}

func TestCreateAppointment_RejectionStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   scheduling.Code
	}{
		{
			name:       "non-business day",
			err:        scheduling.NonBusinessDay("2025-06-07"),
			wantStatus: http.StatusBadRequest,
			wantCode:   scheduling.CodeNonBusinessDay,
		},
		{
			name:       "outside business hours",
			err:        scheduling.OutsideBusinessHours("18:00"),
			wantStatus: http.StatusBadRequest,
			wantCode:   scheduling.CodeOutsideBusinessHours,
		},
		{
			name:       "slot conflict",
			err:        scheduling.SlotConflict("2025-06-02", "09:00"),
			wantStatus: http.StatusConflict,
			wantCode:   scheduling.CodeSlotConflict,
		},
		{
			name:       "storage unavailable",
			err:        scheduling.StorageUnavailable(assert.AnError),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   scheduling.CodeStorageUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduler := &MockScheduler{
				ScheduleFn: func(_ context.Context, _ scheduling.Candidate) (*store.Appointment, error) {
					return nil, tt.err
				},
			}
			service := newTestService(scheduler, intent.NewMockExtractor())

			rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments",
				`{"patient_name": "Ana", "date": "2025-06-02", "time": "09:00"}`)

			require.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantCode), resp.Code)
		})
	}
}

func TestListAppointments(t *testing.T) {
	scheduler := &MockScheduler{
		ListFn: func(_ context.Context) ([]*store.Appointment, error) {
			return []*store.Appointment{
				{ID: 1, PatientName: "Ana", Date: "2025-06-02", Time: "09:00", Status: store.Scheduled},
				{ID: 2, PatientName: "Bruno", Date: "2025-06-02", Time: "09:30", Status: store.Cancelled},
			}, nil
		},
	}
	service := newTestService(scheduler, intent.NewMockExtractor())

	rec := doRequest(t, service, http.MethodGet, "/api/v1/appointments", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []*AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, int32(1), resp[0].ID)
	assert.Equal(t, "CANCELLED", resp[1].Status)
}

func TestCancelAppointment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		scheduler := &MockScheduler{
			CancelFn: func(_ context.Context, id int32) (*store.Appointment, error) {
				require.Equal(t, int32(1), id)
				return &store.Appointment{ID: 1, Status: store.Cancelled}, nil
			},
		}
		service := newTestService(scheduler, intent.NewMockExtractor())

		rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments/1/cancel", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var resp AppointmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "CANCELLED", resp.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		scheduler := &MockScheduler{
			CancelFn: func(_ context.Context, id int32) (*store.Appointment, error) {
				return nil, scheduling.NotFound(id)
			},
		}
		service := newTestService(scheduler, intent.NewMockExtractor())

		rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments/99/cancel", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		service := newTestService(&MockScheduler{}, intent.NewMockExtractor())

		rec := doRequest(t, service, http.MethodPost, "/api/v1/appointments/abc/cancel", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
