package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

const pgUniqueViolation = "23505"

// Колонки бронирования вместе с присоединёнными клиентом, услугой и мастером
var bookingColumns = []string{
	"b.id",
	"b.booking_reference",
	"b.salon_id",
	"b.client_id",
	"b.service_id",
	"b.stylist_id",
	"b.appointment_date",
	"b.appointment_time",
	"b.status",
	"b.final_price",
	"b.notes",
	"b.confirm_token",
	"b.token_expiry",
	"b.confirmed_at",
	"b.created_at",
	"b.updated_at",
	"c.name",
	"c.email",
	"c.phone",
	"s.name",
	"s.duration_minutes",
	"s.price",
	"s.currency",
	"st.name",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("clients c ON c.id = b.client_id").
		LeftJoin("services s ON s.id = b.service_id").
		LeftJoin("stylists st ON st.id = b.stylist_id")
}

// Create создает новое бронирование.
// Нарушение уникальности номера возвращает ErrDuplicateReference.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"booking_reference",
			"salon_id",
			"client_id",
			"service_id",
			"stylist_id",
			"appointment_date",
			"appointment_time",
			"status",
			"notes",
			"confirm_token",
			"token_expiry",
		).
		Values(
			booking.Reference,
			booking.SalonID,
			booking.ClientID,
			booking.ServiceID,
			booking.StylistID,
			booking.AppointmentDate,
			booking.AppointmentTime,
			booking.Status,
			booking.Notes,
			booking.ConfirmToken,
			booking.TokenExpiry,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateReference, booking.Reference)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// ReferenceExists проверяет, занят ли номер бронирования
func (r *Repository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"booking_reference": reference}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: ReferenceExists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ReferenceExists - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// LockStylistDay берёт транзакционную advisory-блокировку на (мастер, дата).
// Блокировка снимается при завершении транзакции, поэтому вызов вне транзакции запрещён.
func (r *Repository) LockStylistDay(ctx context.Context, stylistID int64, date time.Time) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockStylistDay", ErrTransaction)
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	key := fmt.Sprintf("stylist:%d:%s", stylistID, date.Format(domain.DateFormat))
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", key); err != nil {
		return fmt.Errorf("%w: LockStylistDay - execute: %w", ErrExecQuery, err)
	}

	return nil
}

// ListStylistDay возвращает неотменённые бронирования мастера на дату.
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) ListStylistDay(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"b.stylist_id": stylistID}).
		Where(squirrel.Eq{"b.appointment_date": date}).
		Where(squirrel.NotEq{"b.status": domain.StatusCancelled}).
		OrderBy("b.appointment_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistDay - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistDay - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetByID получает бронирование по ID вместе со связанными данными
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// ListBySalon получает бронирования салона с фильтрацией
// По умолчанию отменённые исключаются; для конкретной даты сортировка по времени.
func (r *Repository) ListBySalon(ctx context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().
		Where(squirrel.Eq{"b.salon_id": filter.SalonID})

	if filter.StylistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.stylist_id": *filter.StylistID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.appointment_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.appointment_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": domain.StatusCancelled})
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		selectBuilder = selectBuilder.OrderBy("b.appointment_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("b.appointment_date DESC", "b.appointment_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySalon - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// UpdateStatus обновляет статус бронирования салона
func (r *Repository) UpdateStatus(ctx context.Context, id, salonID int64, status domain.BookingStatus) error {
	return r.update(ctx, "UpdateStatus", id, salonID, map[string]interface{}{
		"status": status,
	})
}

// UpdateCompletion обновляет статус и, если передана, итоговую цену
func (r *Repository) UpdateCompletion(ctx context.Context, id, salonID int64, status domain.BookingStatus, finalPrice *int64) error {
	fields := map[string]interface{}{
		"status": status,
	}
	if finalPrice != nil {
		fields["final_price"] = *finalPrice
	}
	return r.update(ctx, "UpdateCompletion", id, salonID, fields)
}

func (r *Repository) update(ctx context.Context, op string, id, salonID int64, fields map[string]interface{}) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "salon_id": salonID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ConfirmByToken отмечает бронирование подтверждённым и гасит токен.
// Проверка токена и срока действия выполняется тем же UPDATE, поэтому токен одноразовый.
func (r *Repository) ConfirmByToken(ctx context.Context, id int64, token string, now time.Time) error {
	return r.consumeToken(ctx, "ConfirmByToken", id, token, now, nil)
}

// CancelByToken отменяет бронирование по токену и гасит токен
func (r *Repository) CancelByToken(ctx context.Context, id int64, token string, now time.Time) error {
	status := domain.StatusCancelled
	return r.consumeToken(ctx, "CancelByToken", id, token, now, &status)
}

func (r *Repository) consumeToken(ctx context.Context, op string, id int64, token string, now time.Time, status *domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := consumeTokenQuery(id, token, now, status)
	if err != nil {
		return fmt.Errorf("%w: %s - build update query: %v", ErrBuildQuery, op, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrTokenNotMatched
	}

	return nil
}

// consumeTokenQuery строит UPDATE, гасящий токен.
// Подтвердить можно только неотменённую запись, отменить по ссылке только ещё не начатую.
// Иначе запрос не затрагивает строк и токен остаётся как есть.
func consumeTokenQuery(id int64, token string, now time.Time, status *domain.BookingStatus) (string, []interface{}, error) {
	updateBuilder := psqlbuilder.Update("bookings").
		Set("confirm_token", nil).
		Set("token_expiry", nil).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": id, "confirm_token": token}).
		Where(squirrel.Gt{"token_expiry": now})

	if status != nil {
		updateBuilder = updateBuilder.
			Set("status", *status).
			Where(squirrel.Eq{"status": domain.ClientCancellableStatuses})
	} else {
		updateBuilder = updateBuilder.
			Set("confirmed_at", squirrel.Expr("COALESCE(confirmed_at, ?)", now)).
			Where(squirrel.NotEq{"status": domain.StatusCancelled})
	}

	return updateBuilder.ToSql()
}

// ClearExpiredTokens гасит токены, срок действия которых истёк
func (r *Repository) ClearExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("confirm_token", nil).
		Set("token_expiry", nil).
		Where(squirrel.NotEq{"confirm_token": nil}).
		Where(squirrel.LtOrEq{"token_expiry": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredTokens - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredTokens - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: ClearExpiredTokens - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking              domain.Booking
		stylistID            sql.NullInt64
		finalPrice           sql.NullInt64
		notes, confirmToken  sql.NullString
		tokenExpiry          sql.NullTime
		confirmedAt          sql.NullTime
		createdAt, updatedAt sql.NullTime

		clientName, clientEmail, clientPhone sql.NullString
		serviceName, serviceCurrency         sql.NullString
		serviceDuration, servicePrice        sql.NullInt64
		stylistName                          sql.NullString
	)

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.SalonID,
		&booking.ClientID,
		&booking.ServiceID,
		&stylistID,
		&booking.AppointmentDate,
		&booking.AppointmentTime,
		&booking.Status,
		&finalPrice,
		&notes,
		&confirmToken,
		&tokenExpiry,
		&confirmedAt,
		&createdAt,
		&updatedAt,
		&clientName,
		&clientEmail,
		&clientPhone,
		&serviceName,
		&serviceDuration,
		&servicePrice,
		&serviceCurrency,
		&stylistName,
	)
	if err != nil {
		return nil, err
	}

	booking.AppointmentDate = time.Date(
		booking.AppointmentDate.Year(), booking.AppointmentDate.Month(), booking.AppointmentDate.Day(),
		0, 0, 0, 0, time.UTC,
	)
	booking.StylistID = nullInt64(stylistID)
	booking.FinalPrice = nullInt64(finalPrice)
	booking.Notes = nullString(notes)
	booking.ConfirmToken = nullString(confirmToken)
	booking.TokenExpiry = nullTime(tokenExpiry)
	booking.ConfirmedAt = nullTime(confirmedAt)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if clientName.Valid {
		booking.Client = &domain.Client{
			ID:      booking.ClientID,
			SalonID: booking.SalonID,
			Name:    clientName.String,
			Email:   nullString(clientEmail),
			Phone:   nullString(clientPhone),
		}
	}

	// Услуга могла быть удалена, тогда длительность берётся по умолчанию
	if serviceName.Valid {
		booking.Service = &domain.Service{
			ID:       booking.ServiceID,
			SalonID:  booking.SalonID,
			Name:     serviceName.String,
			Price:    servicePrice.Int64,
			Currency: serviceCurrency.String,
		}
		if serviceDuration.Valid {
			d := int(serviceDuration.Int64)
			booking.Service.DurationMinutes = &d
		}
	}

	if stylistName.Valid && booking.StylistID != nil {
		booking.Stylist = &domain.Stylist{
			ID:      *booking.StylistID,
			SalonID: booking.SalonID,
			Name:    stylistName.String,
		}
	}

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}
