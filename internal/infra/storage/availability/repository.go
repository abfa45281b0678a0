package availability

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository репозиторий недельных окон доступности мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListByStylist возвращает все окна мастера, упорядоченные по дню и времени начала
func (r *Repository) ListByStylist(ctx context.Context, stylistID int64) ([]*domain.AvailabilityWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "stylist_id", "day_of_week", "start_time", "end_time").
		From("availability").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.AvailabilityWindow, 0)
	for rows.Next() {
		var w domain.AvailabilityWindow
		if err := rows.Scan(&w.ID, &w.StylistID, &w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("%w: ListByStylist - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByStylist - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// ReplaceForStylist атомарно заменяет все окна мастера.
// Должен вызываться внутри транзакции.
func (r *Repository) ReplaceForStylist(ctx context.Context, stylistID int64, windows []*domain.AvailabilityWindow) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: ReplaceForStylist", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availability").
		Where(squirrel.Eq{"stylist_id": stylistID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("availability").
		Columns("stylist_id", "day_of_week", "start_time", "end_time")
	for _, w := range windows {
		insertBuilder = insertBuilder.Values(stylistID, w.DayOfWeek, w.StartTime, w.EndTime)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForStylist - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}
