package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/scheduling"
)

// UseCase use case для получения слотов мастера на дату.
// Чтение без блокировок: окончательная проверка выполняется при создании записи.
type UseCase struct {
	bookingRepo      BookingRepository
	catalogRepo      CatalogRepository
	availabilityRepo AvailabilityRepository
	calculator       *scheduling.Calculator
	detector         *scheduling.Detector
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	availabilityRepo AvailabilityRepository,
	calculator *scheduling.Calculator,
	detector *scheduling.Detector,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		catalogRepo:      catalogRepo,
		availabilityRepo: availabilityRepo,
		calculator:       calculator,
		detector:         detector,
		logger:           logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: salon=%d, stylist=%s, service=%s, date=%s",
		req.SalonID, formatID(req.StylistID), formatID(req.ServiceID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := normalizeDate(req.Date)

	// 2. Салон
	if _, err := uc.catalogRepo.GetSalon(ctx, req.SalonID); err != nil {
		if errors.Is(err, catalogRepo.ErrSalonNotFound) {
			uc.logger.Warn("GetAvailableSlots: salon id=%d not found", req.SalonID)
			return nil, ErrSalonNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get salon id=%d: %v", req.SalonID, err)
		return nil, fmt.Errorf("%w: failed to get salon: %v", ErrInternal, err)
	}

	// 3. Длительность кандидата: длительность услуги или один шаг сетки
	duration := domain.SlotStepMinutes
	if req.ServiceID != nil {
		service, err := uc.catalogRepo.GetService(ctx, req.SalonID, *req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found in salon id=%d", *req.ServiceID, req.SalonID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration = service.EffectiveDuration()
	}

	resp := &Response{
		Date:            date,
		SalonID:         req.SalonID,
		StylistID:       req.StylistID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Availability:    []*domain.AvailabilityWindow{},
		BookedSlots:     []string{},
		BlockedRanges:   []domain.BlockedRange{},
	}

	// 4. Любой мастер: вся сетка, записи привязаны к мастерам и ничего не блокируют
	if req.StylistID == nil {
		resp.Slots = buildSlots(uc.calculator.CandidateSlots(nil, date, true), duration, nil, uc.detector)
		uc.logger.Info("GetAvailableSlots: %d slots for any stylist in salon=%d on %s",
			len(resp.Slots), req.SalonID, date.Format(domain.DateFormat))
		return resp, nil
	}

	stylistID := *req.StylistID
	if _, err := uc.catalogRepo.GetStylist(ctx, req.SalonID, stylistID); err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			uc.logger.Warn("GetAvailableSlots: stylist id=%d not found in salon id=%d", stylistID, req.SalonID)
			return nil, ErrStylistNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get stylist id=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: failed to get stylist: %v", ErrInternal, err)
	}

	// 5. Окна доступности и кандидатные слоты
	windows, err := uc.availabilityRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get availability for stylist id=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}
	resp.Availability = uc.calculator.WindowsForDate(windows, date)
	candidates := uc.calculator.CandidateSlots(windows, date, false)

	// 6. Занятые интервалы
	bookings, err := uc.bookingRepo.ListStylistDay(ctx, stylistID, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	ranges, malformed := uc.detector.BlockedRanges(bookings)
	for _, b := range malformed {
		uc.logger.Warn("GetAvailableSlots: skip booking id=%d with unparseable time %q", b.ID, b.AppointmentTime)
	}

	resp.BlockedRanges = ranges
	resp.BookedSlots = bookedStartTimes(bookings)
	resp.Slots = buildSlots(candidates, duration, ranges, uc.detector)

	uc.logger.Info("GetAvailableSlots: %d slots, %d blocked ranges for stylist=%d on %s",
		len(resp.Slots), len(ranges), stylistID, date.Format(domain.DateFormat))

	return resp, nil
}

func formatID(id *int64) string {
	if id == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *id)
}
