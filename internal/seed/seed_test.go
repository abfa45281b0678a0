package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
)

type memCatalog struct {
	salons   map[string]*domain.Salon
	services []*domain.Service
	stylists []*domain.Stylist
	nextID   int64
	lookErr  error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{salons: map[string]*domain.Salon{}}
}

func (c *memCatalog) id() int64 {
	c.nextID++
	return c.nextID
}

func (c *memCatalog) GetSalonBySlug(ctx context.Context, slug string) (*domain.Salon, error) {
	if c.lookErr != nil {
		return nil, c.lookErr
	}
	s, ok := c.salons[slug]
	if !ok {
		return nil, catalogRepo.ErrSalonNotFound
	}
	return s, nil
}

func (c *memCatalog) CreateSalon(ctx context.Context, salon *domain.Salon) (*domain.Salon, error) {
	salon.ID = c.id()
	c.salons[salon.Slug] = salon
	return salon, nil
}

func (c *memCatalog) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	service.ID = c.id()
	c.services = append(c.services, service)
	return service, nil
}

func (c *memCatalog) CreateStylist(ctx context.Context, stylist *domain.Stylist) (*domain.Stylist, error) {
	stylist.ID = c.id()
	c.stylists = append(c.stylists, stylist)
	return stylist, nil
}

type memAvailability struct {
	windows map[int64][]*domain.AvailabilityWindow
}

func (a *memAvailability) ReplaceForStylist(ctx context.Context, stylistID int64, windows []*domain.AvailabilityWindow) error {
	a.windows[stylistID] = windows
	return nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{}) {}

func TestSeeder_CreatesDemoSalon(t *testing.T) {
	catalog := newMemCatalog()
	availability := &memAvailability{windows: map[int64][]*domain.AvailabilityWindow{}}

	salon, err := NewSeeder(catalog, availability, passthroughTx{}, nopLogger{}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DemoSalonSlug, salon.Slug)
	assert.Len(t, catalog.services, len(demoServices))
	require.Len(t, catalog.stylists, len(demoStylists))

	for _, svc := range catalog.services {
		assert.Equal(t, salon.ID, svc.SalonID)
		assert.Positive(t, svc.EffectiveDuration())
	}
	for _, st := range catalog.stylists {
		windows := availability.windows[st.ID]
		require.NotEmpty(t, windows)
		for _, w := range windows {
			start, end, err := w.Bounds()
			require.NoError(t, err)
			assert.Less(t, start, end)
			assert.GreaterOrEqual(t, w.DayOfWeek, 0)
			assert.LessOrEqual(t, w.DayOfWeek, 6)
		}
	}
}

func TestSeeder_Idempotent(t *testing.T) {
	catalog := newMemCatalog()
	availability := &memAvailability{windows: map[int64][]*domain.AvailabilityWindow{}}
	seeder := NewSeeder(catalog, availability, passthroughTx{}, nopLogger{})

	first, err := seeder.Run(context.Background())
	require.NoError(t, err)
	second, err := seeder.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, catalog.salons, 1)
	assert.Len(t, catalog.services, len(demoServices))
	assert.Len(t, catalog.stylists, len(demoStylists))
}

func TestSeeder_LookupFailure(t *testing.T) {
	catalog := newMemCatalog()
	catalog.lookErr = errors.New("connection refused")

	_, err := NewSeeder(catalog, &memAvailability{windows: map[int64][]*domain.AvailabilityWindow{}}, passthroughTx{}, nopLogger{}).
		Run(context.Background())
	assert.Error(t, err)
	assert.Empty(t, catalog.salons)
}
