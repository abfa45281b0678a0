package update_availability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-SalonBooking/internal/service/availability"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Replace(ctx context.Context, salonID, stylistID int64, req *models.ReplaceWindowsRequest) (*models.WindowsResponse, error) {
	args := m.Called(ctx, salonID, stylistID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WindowsResponse), args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func put(svc *mockService, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/salons/{salonId}/stylists/{stylistId}/availability", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPut)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/salons/1/stylists/10/availability", strings.NewReader(body)))
	return w
}

const body = `{"windows":[{"dayOfWeek":0,"startTime":"9:00 AM","endTime":"13:00"}]}`

func TestHandle_Replaced(t *testing.T) {
	svc := &mockService{}
	svc.On("Replace", mock.Anything, int64(1), int64(10), &models.ReplaceWindowsRequest{
		Windows: []models.WindowRequest{{DayOfWeek: 0, StartTime: "9:00 AM", EndTime: "13:00"}},
	}).Return(&models.WindowsResponse{StylistID: 10, Windows: []models.WindowResponse{{ID: 3, StartTime: "09:00", EndTime: "13:00"}}}, nil)

	w := put(svc, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"startTime":"09:00"`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid", err: availability.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "not found", err: availability.ErrStylistNotFound, wantStatus: http.StatusNotFound},
		{name: "internal", err: errors.New("deadlock"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Replace", mock.Anything, int64(1), int64(10), mock.Anything).Return(nil, tt.err)
			assert.Equal(t, tt.wantStatus, put(svc, body).Code)
		})
	}
}

func TestHandle_MalformedBody(t *testing.T) {
	svc := &mockService{}
	assert.Equal(t, http.StatusBadRequest, put(svc, `{"windows":"all day"}`).Code)
	svc.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
