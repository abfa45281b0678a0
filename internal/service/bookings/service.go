package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Service сервис для работы с бронированиями салона: канбан, календарь и ссылки из письма
type Service struct {
	bookingRepo  BookingRepository
	detector     ConflictDetector
	locker       Locker
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	detector ConflictDetector,
	locker Locker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		detector:     detector,
		locker:       locker,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование салона по ID.
// Бронирование другого салона считается ненайденным.
func (s *Service) GetByID(ctx context.Context, bookingID, salonID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for salon=%d", bookingID, salonID)

	booking, err := s.getSalonBooking(ctx, bookingID, salonID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListSalonBookings получает бронирования салона с фильтрацией.
// Отменённые не возвращаются, если не указан IncludeCancelled или статус cancelled.
func (s *Service) ListSalonBookings(ctx context.Context, req *models.ListSalonBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListSalonBookings: fetching bookings for salon=%d", req.SalonID)
	if req.StylistID != nil {
		logMsg += fmt.Sprintf(", stylist=%d", *req.StylistID)
	}
	if req.StartDate != nil {
		logMsg += fmt.Sprintf(", from=%s", req.StartDate.Format(domain.DateFormat))
	}
	if req.EndDate != nil {
		logMsg += fmt.Sprintf(", to=%s", req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeCancelled {
		logMsg += ", includeCancelled=true"
	}
	s.logger.Info(logMsg)

	if req.SalonID <= 0 {
		return nil, fmt.Errorf("%w: salonID must be positive", ErrInvalidInput)
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		s.logger.Warn("ListSalonBookings: invalid period for salon=%d", req.SalonID)
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("ListSalonBookings: invalid filter for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}

	bookings, err := s.bookingRepo.ListBySalon(ctx, filter)
	if err != nil {
		s.logger.Error("ListSalonBookings: repository error for salon=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: ListSalonBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSalonBookings: fetched %d bookings for salon=%d", len(bookings), req.SalonID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования.
// Переходы не ограничены: персонал может перевести запись из любого статуса в любой.
// Возврат отменённой записи в работу допускается, только если её время у мастера свободно.
func (s *Service) UpdateStatus(ctx context.Context, bookingID, salonID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d salon=%d status=%s", bookingID, salonID, req.Status)

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%q for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}

	return s.changeStatus(ctx, "UpdateStatus", bookingID, salonID, status, func(txCtx context.Context) error {
		return s.bookingRepo.UpdateStatus(txCtx, bookingID, salonID, status)
	})
}

// UpdateCompletion меняет статус и фиксирует итоговую цену (если передана)
func (s *Service) UpdateCompletion(ctx context.Context, bookingID, salonID int64, req *models.UpdateCompletionRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateCompletion: booking id=%d salon=%d status=%s", bookingID, salonID, req.Status)

	status, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateCompletion: invalid status=%q for booking id=%d", req.Status, bookingID)
		return nil, ErrInvalidStatus
	}

	if req.FinalPrice != nil && *req.FinalPrice <= 0 {
		s.logger.Warn("UpdateCompletion: non-positive final price %d for booking id=%d", *req.FinalPrice, bookingID)
		return nil, fmt.Errorf("%w: finalPrice must be positive", ErrInvalidInput)
	}

	return s.changeStatus(ctx, "UpdateCompletion", bookingID, salonID, status, func(txCtx context.Context) error {
		return s.bookingRepo.UpdateCompletion(txCtx, bookingID, salonID, status, req.FinalPrice)
	})
}

// ConfirmByToken подтверждает бронирование по одноразовому токену. Статус не меняется.
func (s *Service) ConfirmByToken(ctx context.Context, bookingID int64, req *models.TokenRequest) (*models.BookingResponse, error) {
	s.logger.Info("ConfirmByToken: booking id=%d", bookingID)

	return s.consumeToken(ctx, "ConfirmByToken", bookingID, req, s.bookingRepo.ConfirmByToken)
}

// CancelByToken отменяет бронирование по одноразовому токену
func (s *Service) CancelByToken(ctx context.Context, bookingID int64, req *models.TokenRequest) (*models.BookingResponse, error) {
	s.logger.Info("CancelByToken: booking id=%d", bookingID)

	return s.consumeToken(ctx, "CancelByToken", bookingID, req, s.bookingRepo.CancelByToken)
}

type tokenAction func(ctx context.Context, id int64, token string, now time.Time) error

func (s *Service) consumeToken(ctx context.Context, op string, bookingID int64, req *models.TokenRequest, action tokenAction) (*models.BookingResponse, error) {
	token := strings.TrimSpace(req.Token)
	if bookingID <= 0 || token == "" {
		s.logger.Warn("%s: empty token or bad id=%d", op, bookingID)
		return nil, ErrTokenInvalid
	}

	now := s.timeProvider.Now()

	var booking *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := action(txCtx, bookingID, token, now); err != nil {
			return err
		}

		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, bookingID)
		return err
	})

	if err != nil {
		if errors.Is(err, bookingRepo.ErrTokenNotMatched) {
			s.logger.Warn("%s: token rejected for booking id=%d", op, bookingID)
			return nil, ErrTokenInvalid
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking id=%d ref=%s status=%s", op, booking.ID, booking.Reference, booking.Status)
	return models.FromDomainBooking(booking), nil
}

type txRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// changeStatus применяет изменение статуса.
// Отменённая запись не занимает время мастера, поэтому её возврат в работу
// проверяется на пересечения так же, как новое бронирование.
func (s *Service) changeStatus(
	ctx context.Context,
	op string,
	bookingID, salonID int64,
	status domain.BookingStatus,
	fn func(ctx context.Context) error,
) (*models.BookingResponse, error) {
	current, err := s.getSalonBooking(ctx, bookingID, salonID)
	if err != nil {
		return nil, err
	}

	// Запись без мастера ни с кем не пересекается
	if !current.IsCancelled() || status == domain.StatusCancelled || current.StylistID == nil {
		return s.update(ctx, op, bookingID, salonID, s.txManager.Do, fn)
	}

	return s.reactivate(ctx, op, current, fn)
}

// reactivate возвращает отменённую запись в работу под блокировкой (мастер, дата)
// в сериализуемой транзакции, если её интервал не пересекается с другими записями мастера
func (s *Service) reactivate(ctx context.Context, op string, current *domain.Booking, fn func(ctx context.Context) error) (*models.BookingResponse, error) {
	stylistID := *current.StylistID
	date := current.AppointmentDate

	startMinutes, err := types.ToMinutes(current.AppointmentTime)
	if err != nil {
		s.logger.Error("%s: booking id=%d has malformed time %q: %v", op, current.ID, current.AppointmentTime, err)
		return nil, fmt.Errorf("%w: %s - malformed appointment time: %v", ErrInternal, op, err)
	}
	duration := current.EffectiveDuration()

	unlock, err := s.locker.Lock(ctx, domain.StylistDayLockKey(stylistID, date))
	if err != nil {
		s.logger.Error("%s: failed to lock stylist id=%d date=%s: %v", op, stylistID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: %s - failed to acquire lock: %v", ErrInternal, op, err)
	}
	defer unlock()

	return s.update(ctx, op, current.ID, current.SalonID, s.txManager.DoSerializable, func(txCtx context.Context) error {
		if err := s.bookingRepo.LockStylistDay(txCtx, stylistID, date); err != nil {
			return err
		}

		existing, err := s.bookingRepo.ListStylistDay(txCtx, stylistID, date)
		if err != nil {
			return err
		}

		others := make([]*domain.Booking, 0, len(existing))
		for _, b := range existing {
			if b.ID != current.ID {
				others = append(others, b)
			}
		}

		conflict, err := s.detector.HasConflict(startMinutes, duration, others)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotNotAvailable
		}

		return fn(txCtx)
	})
}

// update выполняет изменение и перечитывает запись в одной транзакции
func (s *Service) update(ctx context.Context, op string, bookingID, salonID int64, run txRunner, fn func(ctx context.Context) error) (*models.BookingResponse, error) {
	var booking *domain.Booking
	err := run(ctx, func(txCtx context.Context) error {
		if err := fn(txCtx); err != nil {
			return err
		}

		var err error
		booking, err = s.bookingRepo.GetByID(txCtx, bookingID)
		return err
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			s.logger.Warn("%s: booking id=%d cannot be restored, its time is taken", op, bookingID)
			return nil, ErrSlotNotAvailable
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found in salon=%d", op, bookingID, salonID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, bookingID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	s.logger.Info("%s: booking id=%d is now %s", op, bookingID, booking.Status)
	return models.FromDomainBooking(booking), nil
}

func (s *Service) getSalonBooking(ctx context.Context, bookingID, salonID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.SalonID != salonID {
		s.logger.Warn("GetByID: booking id=%d belongs to salon=%d, requested salon=%d", bookingID, booking.SalonID, salonID)
		return nil, ErrBookingNotFound
	}

	return booking, nil
}
