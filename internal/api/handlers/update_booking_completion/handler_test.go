package update_booking_completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateCompletion(ctx context.Context, bookingID, salonID int64, req *models.UpdateCompletionRequest) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, salonID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func patch(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/bookings/{bookingId}/completion", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPatch)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/salons/1/bookings/5/completion", strings.NewReader(body)))
	return w
}

func TestHandle_WithFinalPrice(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateCompletion", mock.Anything, int64(5), int64(1), &models.UpdateCompletionRequest{Status: "done", FinalPrice: ptr.Ptr(int64(5200))}).
		Return(&models.BookingResponse{ID: 5, Status: "done", FinalPrice: ptr.Ptr(int64(5200))}, nil)

	w := patch(svc, `{"status":"done","finalPrice":5200}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body models.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(5200), *body.FinalPrice)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid price", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "invalid status", err: bookings.ErrInvalidStatus, wantStatus: http.StatusBadRequest},
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "slot taken", err: bookings.ErrSlotNotAvailable, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("UpdateCompletion", mock.Anything, int64(5), int64(1), mock.Anything).Return(nil, tt.err)

			assert.Equal(t, tt.wantStatus, patch(svc, `{"status":"done","finalPrice":0}`).Code)
		})
	}
}
