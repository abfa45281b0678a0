package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) ListByStylist(ctx context.Context, stylistID int64) ([]*domain.AvailabilityWindow, error) {
	args := m.Called(ctx, stylistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AvailabilityWindow), args.Error(1)
}

func (m *mockAvailabilityRepo) ReplaceForStylist(ctx context.Context, stylistID int64, windows []*domain.AvailabilityWindow) error {
	return m.Called(ctx, stylistID, windows).Error(0)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) GetStylist(ctx context.Context, salonID, stylistID int64) (*domain.Stylist, error) {
	args := m.Called(ctx, salonID, stylistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stylist), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newService() (*Service, *mockAvailabilityRepo, *mockCatalogRepo) {
	repo := &mockAvailabilityRepo{}
	catalog := &mockCatalogRepo{}
	return NewService(repo, catalog, passthroughTx{}, nopLogger{}), repo, catalog
}

func TestGet(t *testing.T) {
	svc, repo, catalog := newService()
	catalog.On("GetStylist", mock.Anything, int64(1), int64(10)).Return(&domain.Stylist{ID: 10}, nil)
	repo.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{
		{ID: 1, StylistID: 10, DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"},
	}, nil)

	resp, err := svc.Get(context.Background(), 1, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.StylistID)
	require.Len(t, resp.Windows, 1)
	assert.Equal(t, models.WindowResponse{ID: 1, DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"}, resp.Windows[0])
}

func TestGet_StylistOfAnotherSalon(t *testing.T) {
	svc, repo, catalog := newService()
	catalog.On("GetStylist", mock.Anything, int64(2), int64(10)).Return(nil, catalogRepo.ErrStylistNotFound)

	_, err := svc.Get(context.Background(), 2, 10)
	assert.ErrorIs(t, err, ErrStylistNotFound)
	repo.AssertNotCalled(t, "ListByStylist", mock.Anything, mock.Anything)
}

func TestReplace_NormalizesTimes(t *testing.T) {
	svc, repo, catalog := newService()
	catalog.On("GetStylist", mock.Anything, int64(1), int64(10)).Return(&domain.Stylist{ID: 10}, nil)

	expected := []*domain.AvailabilityWindow{
		{StylistID: 10, DayOfWeek: 0, StartTime: types.TimeString("09:00"), EndTime: types.TimeString("13:00")},
		{StylistID: 10, DayOfWeek: 6, StartTime: types.TimeString("10:30"), EndTime: types.TimeString("16:00")},
	}
	repo.On("ReplaceForStylist", mock.Anything, int64(10), expected).Return(nil)
	repo.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{
		{ID: 5, StylistID: 10, DayOfWeek: 0, StartTime: "09:00", EndTime: "13:00"},
		{ID: 6, StylistID: 10, DayOfWeek: 6, StartTime: "10:30", EndTime: "16:00"},
	}, nil)

	resp, err := svc.Replace(context.Background(), 1, 10, &models.ReplaceWindowsRequest{
		Windows: []models.WindowRequest{
			{DayOfWeek: 0, StartTime: "9:00 AM", EndTime: "1:00 PM"},
			{DayOfWeek: 6, StartTime: "10:30", EndTime: "16:00"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Windows, 2)
	repo.AssertExpectations(t)
}

func TestReplace_EmptyClearsWindows(t *testing.T) {
	svc, repo, catalog := newService()
	catalog.On("GetStylist", mock.Anything, int64(1), int64(10)).Return(&domain.Stylist{ID: 10}, nil)
	repo.On("ReplaceForStylist", mock.Anything, int64(10), []*domain.AvailabilityWindow{}).Return(nil)
	repo.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{}, nil)

	resp, err := svc.Replace(context.Background(), 1, 10, &models.ReplaceWindowsRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Windows)
}

func TestReplace_Validation(t *testing.T) {
	tests := []struct {
		name   string
		window models.WindowRequest
	}{
		{name: "day out of range", window: models.WindowRequest{DayOfWeek: 7, StartTime: "09:00", EndTime: "12:00"}},
		{name: "negative day", window: models.WindowRequest{DayOfWeek: -1, StartTime: "09:00", EndTime: "12:00"}},
		{name: "bad start", window: models.WindowRequest{DayOfWeek: 1, StartTime: "9", EndTime: "12:00"}},
		{name: "missing end", window: models.WindowRequest{DayOfWeek: 1, StartTime: "09:00"}},
		{name: "start equals end", window: models.WindowRequest{DayOfWeek: 1, StartTime: "12:00", EndTime: "12:00 PM"}},
		{name: "start after end", window: models.WindowRequest{DayOfWeek: 1, StartTime: "5:00 PM", EndTime: "09:00"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, catalog := newService()

			_, err := svc.Replace(context.Background(), 1, 10, &models.ReplaceWindowsRequest{
				Windows: []models.WindowRequest{tt.window},
			})
			assert.ErrorIs(t, err, ErrInvalidInput)
			repo.AssertNotCalled(t, "ReplaceForStylist", mock.Anything, mock.Anything, mock.Anything)
			catalog.AssertNotCalled(t, "GetStylist", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReplace_TooManyWindows(t *testing.T) {
	svc, _, _ := newService()

	windows := make([]models.WindowRequest, domain.MaxWindowsPerWeek+1)
	for i := range windows {
		windows[i] = models.WindowRequest{DayOfWeek: i % 7, StartTime: "09:00", EndTime: "10:00"}
	}

	_, err := svc.Replace(context.Background(), 1, 10, &models.ReplaceWindowsRequest{Windows: windows})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReplace_StoreFailure(t *testing.T) {
	svc, repo, catalog := newService()
	catalog.On("GetStylist", mock.Anything, int64(1), int64(10)).Return(&domain.Stylist{ID: 10}, nil)
	repo.On("ReplaceForStylist", mock.Anything, int64(10), mock.Anything).Return(errors.New("deadlock"))

	_, err := svc.Replace(context.Background(), 1, 10, &models.ReplaceWindowsRequest{
		Windows: []models.WindowRequest{{DayOfWeek: 2, StartTime: "09:00", EndTime: "12:00"}},
	})
	assert.ErrorIs(t, err, ErrInternal)
}
