package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) ListStylistDay(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, stylistID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockCatalogRepo struct {
	mock.Mock
}

func (m *mockCatalogRepo) GetSalon(ctx context.Context, id int64) (*domain.Salon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Salon), args.Error(1)
}

func (m *mockCatalogRepo) GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	args := m.Called(ctx, salonID, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockCatalogRepo) GetStylist(ctx context.Context, salonID, stylistID int64) (*domain.Stylist, error) {
	args := m.Called(ctx, salonID, stylistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stylist), args.Error(1)
}

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

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Info(format string, v ...interface{}) {}
func (l *recordingLogger) Warn(format string, v ...interface{}) {
	l.warnings = append(l.warnings, format)
}
func (l *recordingLogger) Error(format string, v ...interface{}) {}

var monday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

type setup struct {
	uc           *UseCase
	bookings     *mockBookingRepo
	catalog      *mockCatalogRepo
	availability *mockAvailabilityRepo
	logger       *recordingLogger
}

func newSetup() *setup {
	s := &setup{
		bookings:     &mockBookingRepo{},
		catalog:      &mockCatalogRepo{},
		availability: &mockAvailabilityRepo{},
		logger:       &recordingLogger{},
	}
	s.uc = NewUseCase(
		s.bookings,
		s.catalog,
		s.availability,
		scheduling.NewCalculator(scheduling.MustDefaultGrid()),
		scheduling.NewDetector(),
		s.logger,
	)
	return s
}

func (s *setup) withSalonAndStylist() {
	s.catalog.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
	s.catalog.On("GetStylist", mock.Anything, int64(1), int64(10)).Return(&domain.Stylist{ID: 10, SalonID: 1}, nil)
}

func booking(id int64, at string, duration *int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		StylistID:       ptr.Ptr(int64(10)),
		AppointmentDate: monday,
		AppointmentTime: at,
		Status:          status,
		Service:         &domain.Service{DurationMinutes: duration},
	}
}

func slotByLabel(t *testing.T, slots []domain.Slot, label string) domain.Slot {
	t.Helper()
	for _, s := range slots {
		if s.Time == label {
			return s
		}
	}
	t.Fatalf("slot %q not found", label)
	return domain.Slot{}
}

func TestExecute_BlocksOverlappingSlots(t *testing.T) {
	s := newSetup()
	s.withSalonAndStylist()
	s.availability.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{}, nil)
	s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return([]*domain.Booking{
		booking(1, "09:00", ptr.Ptr(60), domain.StatusBacklog),
		booking(2, "2:00 PM", ptr.Ptr(30), domain.StatusInProgress),
	}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{
		SalonID:   1,
		StylistID: ptr.Ptr(int64(10)),
		Date:      monday.Add(9 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, monday, resp.Date)
	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 16)

	assert.False(t, slotByLabel(t, resp.Slots, "9:00 AM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "9:30 AM").Available)
	assert.True(t, slotByLabel(t, resp.Slots, "10:00 AM").Available, "touching the end is not a conflict")
	assert.True(t, slotByLabel(t, resp.Slots, "1:30 PM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "2:00 PM").Available)
	assert.True(t, slotByLabel(t, resp.Slots, "2:30 PM").Available)

	assert.Equal(t, []string{"09:00", "2:00 PM"}, resp.BookedSlots)
	require.Len(t, resp.BlockedRanges, 2)
	assert.Equal(t, domain.BlockedRange{Start: "09:00", StartMinutes: 540, EndMinutes: 600, Duration: 60}, resp.BlockedRanges[0])
	assert.Equal(t, domain.BlockedRange{Start: "2:00 PM", StartMinutes: 840, EndMinutes: 870, Duration: 30}, resp.BlockedRanges[1])

	s.catalog.AssertExpectations(t)
	s.bookings.AssertExpectations(t)
}

func TestExecute_ServiceDurationWidensCandidate(t *testing.T) {
	s := newSetup()
	s.withSalonAndStylist()
	s.catalog.On("GetService", mock.Anything, int64(1), int64(100)).
		Return(&domain.Service{ID: 100, SalonID: 1, DurationMinutes: ptr.Ptr(90)}, nil)
	s.availability.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{}, nil)
	s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return([]*domain.Booking{
		booking(1, "11:00", ptr.Ptr(30), domain.StatusBacklog),
	}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{
		SalonID:   1,
		StylistID: ptr.Ptr(int64(10)),
		ServiceID: ptr.Ptr(int64(100)),
		Date:      monday,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.DurationMinutes)
	assert.True(t, slotByLabel(t, resp.Slots, "9:00 AM").Available)
	// 9:30-11:00 касается записи в 11:00
	assert.True(t, slotByLabel(t, resp.Slots, "9:30 AM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "10:00 AM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "10:30 AM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "11:00 AM").Available)
	assert.True(t, slotByLabel(t, resp.Slots, "11:30 AM").Available)
}

func TestExecute_AvailabilityWindowsFilterCandidates(t *testing.T) {
	s := newSetup()
	s.withSalonAndStylist()
	windows := []*domain.AvailabilityWindow{
		{ID: 1, StylistID: 10, DayOfWeek: 0, StartTime: "09:00", EndTime: "10:30"},
		{ID: 2, StylistID: 10, DayOfWeek: 2, StartTime: "13:00", EndTime: "18:00"},
	}
	s.availability.On("ListByStylist", mock.Anything, int64(10)).Return(windows, nil)
	s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return([]*domain.Booking{}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.Availability, 1)
	assert.Equal(t, int64(1), resp.Availability[0].ID)

	labels := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		labels = append(labels, slot.Time)
		assert.True(t, slot.Available)
	}
	assert.Equal(t, []string{"9:00 AM", "9:30 AM", "10:00 AM"}, labels)
}

func TestExecute_StylistOffThatDay(t *testing.T) {
	s := newSetup()
	s.withSalonAndStylist()
	s.availability.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{
		{StylistID: 10, DayOfWeek: 6, StartTime: "09:00", EndTime: "17:00"},
	}, nil)
	s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return([]*domain.Booking{}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	assert.NotNil(t, resp.Slots)
	assert.Empty(t, resp.Slots)
	assert.Empty(t, resp.Availability)
}

func TestExecute_AnyStylistReturnsFullGrid(t *testing.T) {
	s := newSetup()
	s.catalog.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, Date: monday})
	require.NoError(t, err)

	assert.Nil(t, resp.StylistID)
	assert.Len(t, resp.Slots, 16)
	for _, slot := range resp.Slots {
		assert.True(t, slot.Available)
	}
	assert.Empty(t, resp.BookedSlots)
	assert.Empty(t, resp.BlockedRanges)

	s.bookings.AssertNotCalled(t, "ListStylistDay", mock.Anything, mock.Anything, mock.Anything)
	s.availability.AssertNotCalled(t, "ListByStylist", mock.Anything, mock.Anything)
}

func TestExecute_MalformedBookingIsSkipped(t *testing.T) {
	s := newSetup()
	s.withSalonAndStylist()
	s.availability.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{}, nil)
	s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return([]*domain.Booking{
		booking(1, "nine-ish", ptr.Ptr(60), domain.StatusBacklog),
		booking(2, "10:00", nil, domain.StatusBacklog),
	}, nil)

	resp, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(10)), Date: monday})
	require.NoError(t, err)

	require.Len(t, resp.BlockedRanges, 1)
	assert.Equal(t, 60, resp.BlockedRanges[0].Duration, "missing duration defaults to 60")
	assert.Equal(t, []string{"nine-ish", "10:00"}, resp.BookedSlots)
	assert.True(t, slotByLabel(t, resp.Slots, "9:00 AM").Available)
	assert.False(t, slotByLabel(t, resp.Slots, "10:30 AM").Available)
	assert.Len(t, s.logger.warnings, 1)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("invalid input", func(t *testing.T) {
		s := newSetup()
		_, err := s.uc.Execute(context.Background(), &Request{SalonID: 1})
		assert.ErrorIs(t, err, ErrInvalidInput)

		_, err = s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(0)), Date: monday})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("salon not found", func(t *testing.T) {
		s := newSetup()
		s.catalog.On("GetSalon", mock.Anything, int64(5)).Return(nil, catalogRepo.ErrSalonNotFound)
		_, err := s.uc.Execute(context.Background(), &Request{SalonID: 5, Date: monday})
		assert.ErrorIs(t, err, ErrSalonNotFound)
	})

	t.Run("stylist not found", func(t *testing.T) {
		s := newSetup()
		s.catalog.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
		s.catalog.On("GetStylist", mock.Anything, int64(1), int64(99)).Return(nil, catalogRepo.ErrStylistNotFound)
		_, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(99)), Date: monday})
		assert.ErrorIs(t, err, ErrStylistNotFound)
	})

	t.Run("service not found", func(t *testing.T) {
		s := newSetup()
		s.catalog.On("GetSalon", mock.Anything, int64(1)).Return(&domain.Salon{ID: 1}, nil)
		s.catalog.On("GetService", mock.Anything, int64(1), int64(7)).Return(nil, catalogRepo.ErrServiceNotFound)
		_, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, ServiceID: ptr.Ptr(int64(7)), Date: monday})
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})

	t.Run("store failure", func(t *testing.T) {
		s := newSetup()
		s.withSalonAndStylist()
		s.availability.On("ListByStylist", mock.Anything, int64(10)).Return([]*domain.AvailabilityWindow{}, nil)
		s.bookings.On("ListStylistDay", mock.Anything, int64(10), monday).Return(nil, errors.New("connection refused"))
		_, err := s.uc.Execute(context.Background(), &Request{SalonID: 1, StylistID: ptr.Ptr(int64(10)), Date: monday})
		assert.ErrorIs(t, err, ErrInternal)
	})
}
