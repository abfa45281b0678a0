package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий салонов, услуг и мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSalon получает салон по ID
func (r *Repository) GetSalon(ctx context.Context, id int64) (*domain.Salon, error) {
	return r.getSalon(ctx, "GetSalon", squirrel.Eq{"id": id})
}

// GetSalonBySlug получает салон по slug
func (r *Repository) GetSalonBySlug(ctx context.Context, slug string) (*domain.Salon, error) {
	return r.getSalon(ctx, "GetSalonBySlug", squirrel.Eq{"slug": slug})
}

func (r *Repository) getSalon(ctx context.Context, op string, where squirrel.Eq) (*domain.Salon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "slug", "phone", "email", "address").
		From("salons").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var salon domain.Salon
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&salon.ID,
		&salon.Name,
		&salon.Slug,
		&salon.Phone,
		&salon.Email,
		&salon.Address,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSalonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan salon: %v", ErrScanRow, op, err)
	}

	return &salon, nil
}

// CreateSalon создает салон
func (r *Repository) CreateSalon(ctx context.Context, salon *domain.Salon) (*domain.Salon, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("salons").
		Columns("name", "slug", "phone", "email", "address").
		Values(salon.Name, salon.Slug, salon.Phone, salon.Email, salon.Address).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateSalon - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&salon.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateSalon - execute insert: %w", ErrExecQuery, err)
	}

	return salon, nil
}

// GetService получает услугу салона
func (r *Repository) GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "salon_id", "name", "duration_minutes", "price", "currency").
		From("services").
		Where(squirrel.Eq{"id": serviceID, "salon_id": salonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	service, err := scanService(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return service, nil
}

// ListServices получает услуги салона
func (r *Repository) ListServices(ctx context.Context, salonID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "salon_id", "name", "duration_minutes", "price", "currency").
		From("services").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		service, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// CreateService создает услугу салона
func (r *Repository) CreateService(ctx context.Context, service *domain.Service) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("services").
		Columns("salon_id", "name", "duration_minutes", "price", "currency").
		Values(service.SalonID, service.Name, service.DurationMinutes, service.Price, service.Currency).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&service.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateService - execute insert: %w", ErrExecQuery, err)
	}

	return service, nil
}

// GetStylist получает мастера салона
func (r *Repository) GetStylist(ctx context.Context, salonID, stylistID int64) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "salon_id", "name", "specialties", "user_id").
		From("stylists").
		Where(squirrel.Eq{"id": stylistID, "salon_id": salonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - build select query: %v", ErrBuildQuery, err)
	}

	stylist, err := scanStylist(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - scan stylist: %v", ErrScanRow, err)
	}

	return stylist, nil
}

// ListStylists получает мастеров салона
func (r *Repository) ListStylists(ctx context.Context, salonID int64) ([]*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "salon_id", "name", "specialties", "user_id").
		From("stylists").
		Where(squirrel.Eq{"salon_id": salonID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStylists - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylists - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	stylists := make([]*domain.Stylist, 0)
	for rows.Next() {
		stylist, err := scanStylist(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListStylists - scan row: %v", ErrScanRow, err)
		}
		stylists = append(stylists, stylist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStylists - rows error: %v", ErrScanRow, err)
	}

	return stylists, nil
}

// CreateStylist создает мастера салона
func (r *Repository) CreateStylist(ctx context.Context, stylist *domain.Stylist) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	specialties := stylist.Specialties
	if specialties == nil {
		specialties = []string{}
	}

	query, args, err := psqlbuilder.Insert("stylists").
		Columns("salon_id", "name", "specialties", "user_id").
		Values(stylist.SalonID, stylist.Name, pq.Array(specialties), stylist.UserID).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateStylist - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&stylist.ID); err != nil {
		return nil, fmt.Errorf("%w: CreateStylist - execute insert: %w", ErrExecQuery, err)
	}

	return stylist, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanService(row rowScanner) (*domain.Service, error) {
	var (
		service  domain.Service
		duration sql.NullInt64
	)

	if err := row.Scan(
		&service.ID,
		&service.SalonID,
		&service.Name,
		&duration,
		&service.Price,
		&service.Currency,
	); err != nil {
		return nil, err
	}

	if duration.Valid {
		d := int(duration.Int64)
		service.DurationMinutes = &d
	}

	return &service, nil
}

func scanStylist(row rowScanner) (*domain.Stylist, error) {
	var (
		stylist domain.Stylist
		userID  sql.NullInt64
	)

	if err := row.Scan(
		&stylist.ID,
		&stylist.SalonID,
		&stylist.Name,
		pq.Array(&stylist.Specialties),
		&userID,
	); err != nil {
		return nil, err
	}

	if userID.Valid {
		stylist.UserID = &userID.Int64
	}

	return &stylist, nil
}
