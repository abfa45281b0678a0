package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
	"github.com/m04kA/SMC-SalonBooking/pkg/types"
)

// Config параметры создания бронирования
type Config struct {
	EnforceAvailability bool          // отклонять время вне окон мастера
	TokenTTL            time.Duration // срок жизни токена подтверждения
	ReferenceAttempts   int           // попыток подобрать свободный номер
}

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	clientRepo       ClientRepository
	catalogRepo      CatalogRepository
	availabilityRepo AvailabilityRepository
	calculator       *scheduling.Calculator
	detector         *scheduling.Detector
	locker           Locker
	txManager        TransactionManager
	notifier         Notifier
	metrics          Metrics
	references       ReferenceGenerator
	timeProvider     TimeProvider
	cfg              Config
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	clientRepo ClientRepository,
	catalogRepo CatalogRepository,
	availabilityRepo AvailabilityRepository,
	calculator *scheduling.Calculator,
	detector *scheduling.Detector,
	locker Locker,
	txManager TransactionManager,
	notifier Notifier,
	metrics Metrics,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = domain.ConfirmTokenTTLHours * time.Hour
	}
	if cfg.ReferenceAttempts <= 0 {
		cfg.ReferenceAttempts = domain.MaxReferenceAttempts
	}

	return &UseCase{
		bookingRepo:      bookingRepo,
		clientRepo:       clientRepo,
		catalogRepo:      catalogRepo,
		availabilityRepo: availabilityRepo,
		calculator:       calculator,
		detector:         detector,
		locker:           locker,
		txManager:        txManager,
		notifier:         notifier,
		metrics:          metrics,
		references:       RandomReferenceGenerator{},
		timeProvider:     &RealTimeProvider{},
		cfg:              cfg,
		logger:           logger,
	}
}

// Execute создаёт бронирование.
// Для конкретного мастера проверка пересечений и запись выполняются под блокировкой (мастер, дата)
// в сериализуемой транзакции. Уведомление отправляется после коммита и снятия блокировки.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: salon=%d, service=%d, stylist=%s, date=%s, time=%q",
		req.SalonID, req.ServiceID, formatStylist(req.StylistID), req.Date.Format(domain.DateFormat), req.Time)

	// 1. Валидация входных данных
	startMinutes, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, err
	}

	date := normalizeDate(req.Date)
	appointmentTime, err := types.NewTimeStringFromMinutes(startMinutes)
	if err != nil {
		uc.metrics.IncBookingOutcome(outcomeInvalid)
		return nil, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}

	// 2. Салон, услуга и мастер должны принадлежать одному салону
	salon, service, stylist, err := uc.resolveCatalog(ctx, req)
	if err != nil {
		return nil, err
	}

	// 3. Строгая проверка рабочих окон (если включена)
	if stylist != nil && uc.cfg.EnforceAvailability {
		if err := uc.checkAvailability(ctx, stylist.ID, date, startMinutes); err != nil {
			return nil, err
		}
	}

	// 4. Проверка пересечений и запись
	booking, token, err := uc.reserve(ctx, req, salon, service, stylist, date, appointmentTime, startMinutes)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d ref=%s stylist=%s date=%s time=%s",
		booking.ID, booking.Reference, formatStylist(booking.StylistID), date.Format(domain.DateFormat), booking.AppointmentTime)
	uc.metrics.IncBookingOutcome(outcomeCreated)

	// 5. Уведомление после снятия блокировки, ошибки не влияют на результат
	uc.notifier.NotifyBookingCreated(booking, salon, token)

	return toResponse(booking), nil
}

func (uc *UseCase) resolveCatalog(ctx context.Context, req *Request) (*domain.Salon, *domain.Service, *domain.Stylist, error) {
	salon, err := uc.catalogRepo.GetSalon(ctx, req.SalonID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSalonNotFound) {
			uc.logger.Warn("CreateBooking: salon id=%d not found", req.SalonID)
			uc.metrics.IncBookingOutcome(outcomeNotFound)
			return nil, nil, nil, ErrSalonNotFound
		}
		uc.logger.Error("CreateBooking: failed to get salon id=%d: %v", req.SalonID, err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, nil, nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	service, err := uc.catalogRepo.GetService(ctx, req.SalonID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found in salon id=%d", req.ServiceID, req.SalonID)
			uc.metrics.IncBookingOutcome(outcomeNotFound)
			return nil, nil, nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, nil, nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if req.StylistID == nil {
		return salon, service, nil, nil
	}

	stylist, err := uc.catalogRepo.GetStylist(ctx, req.SalonID, *req.StylistID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			uc.logger.Warn("CreateBooking: stylist id=%d not found in salon id=%d", *req.StylistID, req.SalonID)
			uc.metrics.IncBookingOutcome(outcomeNotFound)
			return nil, nil, nil, ErrStylistNotFound
		}
		uc.logger.Error("CreateBooking: failed to get stylist id=%d: %v", *req.StylistID, err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return nil, nil, nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	return salon, service, stylist, nil
}

func (uc *UseCase) checkAvailability(ctx context.Context, stylistID int64, date time.Time, startMinutes int) error {
	windows, err := uc.availabilityRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get availability for stylist id=%d: %v", stylistID, err)
		uc.metrics.IncBookingOutcome(outcomeError)
		return fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	if !uc.calculator.Allows(windows, date, startMinutes) {
		uc.logger.Warn("CreateBooking: stylist id=%d is not available on %s at minute %d",
			stylistID, date.Format(domain.DateFormat), startMinutes)
		uc.metrics.IncBookingOutcome(outcomeOutside)
		return ErrOutsideAvailability
	}

	return nil
}

// reserve выполняет проверку пересечений и запись клиента и бронирования как одну единицу
func (uc *UseCase) reserve(
	ctx context.Context,
	req *Request,
	salon *domain.Salon,
	service *domain.Service,
	stylist *domain.Stylist,
	date time.Time,
	appointmentTime types.TimeString,
	startMinutes int,
) (*domain.Booking, string, error) {
	if stylist != nil {
		lockStart := time.Now()
		unlock, err := uc.locker.Lock(ctx, domain.StylistDayLockKey(stylist.ID, date))
		uc.metrics.ObserveLockWait(time.Since(lockStart))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to lock stylist id=%d date=%s: %v",
				stylist.ID, date.Format(domain.DateFormat), err)
			uc.metrics.IncBookingOutcome(outcomeError)
			return nil, "", fmt.Errorf("%w: failed to acquire lock: %w", ErrInternal, err)
		}
		defer unlock()
	}

	now := uc.timeProvider.Now()
	duration := service.EffectiveDuration()

	var (
		result *domain.Booking
		token  string
	)

	reserveTx := func(txCtx context.Context) error {
		if stylist != nil {
			if err := uc.bookingRepo.LockStylistDay(txCtx, stylist.ID, date); err != nil {
				return fmt.Errorf("%w: failed to lock stylist day: %w", ErrInternal, err)
			}

			existing, err := uc.bookingRepo.ListStylistDay(txCtx, stylist.ID, date)
			if err != nil {
				return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
			}

			conflict, err := uc.detector.HasConflict(startMinutes, duration, existing)
			if err != nil {
				return fmt.Errorf("%w: failed to check conflicts: %w", ErrInternal, err)
			}
			if conflict {
				return ErrSlotNotAvailable
			}
		}

		client, err := uc.clientRepo.Create(txCtx, &domain.Client{
			SalonID:   salon.ID,
			Name:      req.Client.Name,
			Email:     trimmed(req.Client.Email),
			Phone:     trimmed(req.Client.Phone),
			BirthDate: req.Client.BirthDate,
			Notes:     trimmed(req.Client.Notes),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create client: %w", ErrInternal, err)
		}

		reference, err := uc.newReference(txCtx, now.Year())
		if err != nil {
			return err
		}

		token = uuid.NewString()
		expiry := now.Add(uc.cfg.TokenTTL)

		booking := &domain.Booking{
			Reference:       reference,
			SalonID:         salon.ID,
			ClientID:        client.ID,
			ServiceID:       service.ID,
			AppointmentDate: date,
			AppointmentTime: appointmentTime.String(),
			Status:          domain.StatusBacklog,
			Notes:           trimmed(req.Notes),
			ConfirmToken:    &token,
			TokenExpiry:     &expiry,
		}
		// "Любой мастер" сохраняется без назначения, мастера выбирает персонал
		if stylist != nil {
			booking.StylistID = &stylist.ID
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrDuplicateReference) {
				return fmt.Errorf("%w: %w", errReferenceCollision, err)
			}
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		created.Client = client
		created.Service = service
		created.Stylist = stylist
		result = created
		return nil
	}

	// Нарушение уникальности номера откатывает транзакцию, поэтому повторяется вся транзакция
	var err error
	for attempt := 1; ; attempt++ {
		err = uc.txManager.DoSerializable(ctx, reserveTx)
		if !errors.Is(err, errReferenceCollision) || attempt >= uc.cfg.ReferenceAttempts {
			break
		}
		uc.logger.Warn("CreateBooking: reference collided on insert, retrying transaction (attempt %d/%d)",
			attempt, uc.cfg.ReferenceAttempts)
	}

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: slot %s (%d min) on %s is taken for stylist id=%d",
				appointmentTime, duration, date.Format(domain.DateFormat), stylist.ID)
			uc.metrics.IncBookingOutcome(outcomeConflict)
			return nil, "", ErrSlotNotAvailable
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		uc.metrics.IncBookingOutcome(outcomeError)
		if errors.Is(err, ErrInternal) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %w", ErrInternal, err)
	}

	return result, token, nil
}

// newReference подбирает свободный номер бронирования
func (uc *UseCase) newReference(ctx context.Context, year int) (string, error) {
	for attempt := 1; attempt <= uc.cfg.ReferenceAttempts; attempt++ {
		reference, err := uc.references.Generate(year)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInternal, err)
		}

		exists, err := uc.bookingRepo.ReferenceExists(ctx, reference)
		if err != nil {
			return "", fmt.Errorf("%w: failed to check reference: %w", ErrInternal, err)
		}
		if !exists {
			return reference, nil
		}

		uc.logger.Warn("CreateBooking: reference %s already taken, attempt %d/%d", reference, attempt, uc.cfg.ReferenceAttempts)
	}

	return "", fmt.Errorf("%w: %w: no free reference after %d attempts",
		ErrInternal, bookingRepo.ErrDuplicateReference, uc.cfg.ReferenceAttempts)
}

func toResponse(b *domain.Booking) *Response {
	resp := &Response{
		ID:              b.ID,
		Reference:       b.Reference,
		SalonID:         b.SalonID,
		ServiceID:       b.ServiceID,
		StylistID:       b.StylistID,
		AppointmentDate: b.AppointmentDate,
		AppointmentTime: b.AppointmentTime,
		DurationMinutes: b.EffectiveDuration(),
		Status:          string(b.Status),
		Notes:           b.Notes,
		Client:          b.Client,
		Service:         b.Service,
		Stylist:         b.Stylist,
		CreatedAt:       b.CreatedAt,
	}
	if b.TokenExpiry != nil {
		resp.TokenExpiry = *b.TokenExpiry
	}
	return resp
}

func formatStylist(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
