package get_salon_bookings

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListSalonBookings(ctx context.Context, req *models.ListSalonBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingListResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func get(svc *mockService, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/bookings", NewHandler(svc, nopLogger{}).Handle)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestToServiceRequest(t *testing.T) {
	q := url.Values{}
	q.Set("date", "2026-10-19")
	q.Set("stylistId", "10")
	q.Set("status", "for_today")
	q.Set("includeCancelled", "true")

	req, err := ToServiceRequest(1, q)
	require.NoError(t, err)

	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, int64(1), req.SalonID)
	assert.Equal(t, int64(10), *req.StylistID)
	assert.Equal(t, "for_today", *req.Status)
	assert.True(t, req.StartDate.Equal(day))
	assert.True(t, req.EndDate.Equal(day))
	assert.True(t, req.IncludeCancelled)
}

func TestToServiceRequest_Period(t *testing.T) {
	q := url.Values{}
	q.Set("startDate", "2026-10-19")
	q.Set("endDate", "2026-10-25")

	req, err := ToServiceRequest(1, q)
	require.NoError(t, err)
	assert.Equal(t, 25, req.EndDate.Day())
	assert.Equal(t, 19, req.StartDate.Day())
	assert.Nil(t, req.Status)
	assert.False(t, req.IncludeCancelled)
}

func TestHandle(t *testing.T) {
	svc := &mockService{}
	svc.On("ListSalonBookings", mock.Anything, mock.MatchedBy(func(req *models.ListSalonBookingsRequest) bool {
		return req.SalonID == 1
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}, nil)

	w := get(svc, "/salons/1/bookings?date=2026-10-19")
	require.Equal(t, http.StatusOK, w.Code)

	var body models.BookingListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Bookings, 2)
	assert.Equal(t, int64(2), body.Bookings[1].ID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
	}{
		{name: "bad salon", target: "/salons/x/bookings", wantStatus: http.StatusBadRequest},
		{name: "bad date", target: "/salons/1/bookings?date=tomorrow", wantStatus: http.StatusBadRequest},
		{name: "bad flag", target: "/salons/1/bookings?includeCancelled=maybe", wantStatus: http.StatusBadRequest},
		{name: "bad status", target: "/salons/1/bookings?status=archived", err: bookings.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
		{name: "bad period", target: "/salons/1/bookings?startDate=2026-10-25&endDate=2026-10-19", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "internal", target: "/salons/1/bookings", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("ListSalonBookings", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			assert.Equal(t, tt.wantStatus, get(svc, tt.target).Code)
		})
	}
}
