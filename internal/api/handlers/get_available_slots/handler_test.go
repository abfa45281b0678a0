package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_available_slots"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getAvailableSlots.Response), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func serve(uc *mockUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/stylists/{stylistId}/slots", NewHandler(uc, nopLogger{}).Handle)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	stylistID := int64(10)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.SalonID == 1 && req.StylistID != nil && *req.StylistID == 10 &&
			req.ServiceID != nil && *req.ServiceID == 100 && req.Date.Equal(date)
	})).Return(&getAvailableSlots.Response{
		Date:            date,
		SalonID:         1,
		StylistID:       &stylistID,
		DurationMinutes: 60,
		Availability: []*domain.AvailabilityWindow{
			{DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"},
		},
		Slots: []domain.Slot{
			{Time: "9:00 AM", StartMinutes: 540, Available: false},
			{Time: "10:00 AM", StartMinutes: 600, Available: true},
		},
		BookedSlots:   []string{"09:30"},
		BlockedRanges: []domain.BlockedRange{{Start: "09:30", StartMinutes: 570, EndMinutes: 600, Duration: 30}},
	}, nil)

	w := serve(uc, "/salons/1/stylists/10/slots?date=2026-10-19&serviceId=100")
	require.Equal(t, http.StatusOK, w.Code)

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2026-10-19", body.Date)
	require.Len(t, body.Slots, 2)
	assert.False(t, body.Slots[0].Available)
	assert.True(t, body.Slots[1].Available)
	assert.Equal(t, []string{"09:30"}, body.BookedSlots)
	assert.Equal(t, []Window{{DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"}}, body.Availability)
	assert.Equal(t, 600, body.BlockedRanges[0].EndMinutes)
}

func TestHandle_AnyStylist(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.StylistID == nil && req.ServiceID == nil
	})).Return(&getAvailableSlots.Response{Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), SalonID: 1}, nil)

	w := serve(uc, "/salons/1/stylists/any/slots?date=2026-10-19")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Nil(t, body["stylistId"])
	assert.Equal(t, []interface{}{}, body["bookedSlots"])
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "salon id", target: "/salons/abc/stylists/1/slots?date=2026-10-19"},
		{name: "stylist id", target: "/salons/1/stylists/someone/slots?date=2026-10-19"},
		{name: "missing date", target: "/salons/1/stylists/1/slots"},
		{name: "bad date", target: "/salons/1/stylists/1/slots?date=19.10.2026"},
		{name: "bad service", target: "/salons/1/stylists/1/slots?date=2026-10-19&serviceId=x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			w := serve(uc, tt.target)
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
		{name: "salon", err: getAvailableSlots.ErrSalonNotFound, wantStatus: http.StatusNotFound},
		{name: "stylist", err: getAvailableSlots.ErrStylistNotFound, wantStatus: http.StatusNotFound},
		{name: "service", err: getAvailableSlots.ErrServiceNotFound, wantStatus: http.StatusNotFound},
		{name: "invalid", err: getAvailableSlots.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := serve(uc, "/salons/1/stylists/2/slots?date=2026-10-19")
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
