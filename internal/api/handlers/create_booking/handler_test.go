package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func post(uc *mockUseCase, salon, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/bookings", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/salons/"+salon+"/bookings", strings.NewReader(body)))
	return w
}

const validBody = `{
	"serviceId": 100,
	"stylistId": 10,
	"date": "2026-10-19",
	"time": "2:30 PM",
	"client": {"name": "Jane Doe", "email": "jane@example.com", "birthDate": "1990-05-01"},
	"notes": "first visit"
}`

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.SalonID == 1 && req.ServiceID == 100 &&
			req.StylistID != nil && *req.StylistID == 10 &&
			req.Time == "2:30 PM" &&
			req.Date.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)) &&
			req.Client.BirthDate != nil && req.Client.BirthDate.Year() == 1990
	})).Return(&createBooking.Response{
		ID:              5,
		Reference:       "BK-2026-123456",
		SalonID:         1,
		ServiceID:       100,
		StylistID:       ptr.Ptr(int64(10)),
		AppointmentDate: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "14:30",
		DurationMinutes: 60,
		Status:          string(domain.StatusBacklog),
		TokenExpiry:     time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		Client:          &domain.Client{ID: 3, Name: "Jane Doe"},
		Service:         &domain.Service{ID: 100, Name: "Haircut", DurationMinutes: ptr.Ptr(60)},
	}, nil)

	w := post(uc, "1", validBody)
	require.Equal(t, http.StatusCreated, w.Code)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "BK-2026-123456", body.Reference)
	assert.Equal(t, "14:30", body.AppointmentTime)
	assert.Equal(t, "backlog", body.Status)
	assert.Equal(t, "2026-10-19T10:00:00Z", body.ConfirmBy)
	assert.Equal(t, "Haircut", body.Service.Name)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestStylistRef(t *testing.T) {
	tests := []struct {
		raw     string
		want    *int64
		wantErr bool
	}{
		{raw: `12`, want: ptr.Ptr(int64(12))},
		{raw: `"12"`, want: ptr.Ptr(int64(12))},
		{raw: `"any"`, want: nil},
		{raw: `"ANY"`, want: nil},
		{raw: `null`, want: nil},
		{raw: `"someone"`, wantErr: true},
		{raw: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var ref StylistRef
			err := json.Unmarshal([]byte(tt.raw), &ref)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ref.ID)
		})
	}
}

func TestHandle_AnyStylistWhenOmitted(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.StylistID == nil
	})).Return(&createBooking.Response{ID: 1, Reference: "BK-2026-000001"}, nil)

	w := post(uc, "1", `{"serviceId":100,"date":"2026-10-19","time":"10:00","client":{"name":"A","phone":"+15550100"}}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name  string
		salon string
		body  string
	}{
		{name: "salon id", salon: "x", body: validBody},
		{name: "malformed body", salon: "1", body: `{"serviceId":`},
		{name: "unknown field", salon: "1", body: `{"serviceId":1,"userId":5}`},
		{name: "bad date", salon: "1", body: `{"serviceId":1,"date":"19/10/2026","time":"10:00","client":{"name":"A"}}`},
		{name: "bad birth date", salon: "1", body: `{"serviceId":1,"date":"2026-10-19","time":"10:00","client":{"name":"A","birthDate":"May 1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := post(uc, tt.salon, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "conflict", err: createBooking.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
		{name: "outside availability", err: createBooking.ErrOutsideAvailability, wantStatus: http.StatusConflict},
		{name: "validation", err: createBooking.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "salon", err: createBooking.ErrSalonNotFound, wantStatus: http.StatusNotFound},
		{name: "service", err: createBooking.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "stylist", err: createBooking.ErrStylistNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := post(uc, "1", validBody)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
