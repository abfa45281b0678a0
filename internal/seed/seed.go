package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// DemoSalonSlug slug демонстрационного салона
const DemoSalonSlug = "demo-salon"

// CatalogRepository интерфейс каталога салонов
type CatalogRepository interface {
	GetSalonBySlug(ctx context.Context, slug string) (*domain.Salon, error)
	CreateSalon(ctx context.Context, salon *domain.Salon) (*domain.Salon, error)
	CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error)
	CreateStylist(ctx context.Context, stylist *domain.Stylist) (*domain.Stylist, error)
}

// AvailabilityRepository интерфейс окон доступности мастеров
type AvailabilityRepository interface {
	ReplaceForStylist(ctx context.Context, stylistID int64, windows []*domain.AvailabilityWindow) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
}

type stylistSeed struct {
	name        string
	specialties []string
	windows     []window
}

type window struct {
	day        int // 0 = понедельник
	start, end string
}

var demoServices = []domain.Service{
	{Name: "Haircut", DurationMinutes: ptr.Ptr(60), Price: 4500, Currency: "USD"},
	{Name: "Fringe trim", DurationMinutes: ptr.Ptr(30), Price: 1500, Currency: "USD"},
	{Name: "Colour", DurationMinutes: ptr.Ptr(120), Price: 12000, Currency: "USD"},
	{Name: "Blow dry", DurationMinutes: ptr.Ptr(45), Price: 3000, Currency: "USD"},
}

var demoStylists = []stylistSeed{
	{
		name:        "Alex Morgan",
		specialties: []string{"haircut", "colour"},
		windows: []window{
			{day: 0, start: "09:00", end: "13:00"},
			{day: 0, start: "14:00", end: "18:00"},
			{day: 1, start: "09:00", end: "18:00"},
			{day: 2, start: "09:00", end: "18:00"},
			{day: 3, start: "09:00", end: "18:00"},
			{day: 4, start: "09:00", end: "17:00"},
		},
	},
	{
		name:        "Sam Rivera",
		specialties: []string{"haircut", "styling"},
		windows: []window{
			{day: 2, start: "10:00", end: "18:00"},
			{day: 3, start: "10:00", end: "18:00"},
			{day: 4, start: "10:00", end: "18:00"},
			{day: 5, start: "10:00", end: "16:00"},
		},
	},
}

// Seeder создает демонстрационный салон при первом запуске
type Seeder struct {
	catalog      CatalogRepository
	availability AvailabilityRepository
	txManager    TransactionManager
	logger       Logger
}

// NewSeeder создает новый Seeder
func NewSeeder(
	catalog CatalogRepository,
	availability AvailabilityRepository,
	txManager TransactionManager,
	logger Logger,
) *Seeder {
	return &Seeder{
		catalog:      catalog,
		availability: availability,
		txManager:    txManager,
		logger:       logger,
	}
}

// Run создает демо-салон, если его еще нет. Повторный запуск ничего не меняет.
func (s *Seeder) Run(ctx context.Context) (*domain.Salon, error) {
	var salon *domain.Salon

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.catalog.GetSalonBySlug(ctx, DemoSalonSlug)
		if err == nil {
			salon = existing
			return nil
		}
		if !errors.Is(err, catalogRepo.ErrSalonNotFound) {
			return fmt.Errorf("seed: lookup demo salon: %w", err)
		}

		salon, err = s.create(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return salon, nil
}

func (s *Seeder) create(ctx context.Context) (*domain.Salon, error) {
	salon, err := s.catalog.CreateSalon(ctx, &domain.Salon{
		Name:    "Demo Salon",
		Slug:    DemoSalonSlug,
		Phone:   ptr.Ptr("+1 555 0100"),
		Email:   ptr.Ptr("hello@demo-salon.example"),
		Address: ptr.Ptr("1 Main Street"),
	})
	if err != nil {
		return nil, fmt.Errorf("seed: create salon: %w", err)
	}

	for i := range demoServices {
		service := demoServices[i]
		service.SalonID = salon.ID
		if _, err := s.catalog.CreateService(ctx, &service); err != nil {
			return nil, fmt.Errorf("seed: create service %q: %w", service.Name, err)
		}
	}

	for _, st := range demoStylists {
		stylist, err := s.catalog.CreateStylist(ctx, &domain.Stylist{
			SalonID:     salon.ID,
			Name:        st.name,
			Specialties: append([]string(nil), st.specialties...),
		})
		if err != nil {
			return nil, fmt.Errorf("seed: create stylist %q: %w", st.name, err)
		}

		windows := make([]*domain.AvailabilityWindow, 0, len(st.windows))
		for _, w := range st.windows {
			windows = append(windows, &domain.AvailabilityWindow{
				StylistID: stylist.ID,
				DayOfWeek: w.day,
				StartTime: types.TimeString(w.start),
				EndTime:   types.TimeString(w.end),
			})
		}
		if err := s.availability.ReplaceForStylist(ctx, stylist.ID, windows); err != nil {
			return nil, fmt.Errorf("seed: availability for %q: %w", st.name, err)
		}
	}

	s.logger.Info("Seed: demo salon created (id=%d, slug=%s)", salon.ID, salon.Slug)
	return salon, nil
}
