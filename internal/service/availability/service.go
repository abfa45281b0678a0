package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/availability/models"
	"github.com/m04kA/SMC-SalonBooking/pkg/validator"
)

// Service сервис управления недельными окнами мастеров
type Service struct {
	availabilityRepo AvailabilityRepository
	catalogRepo      CatalogRepository
	txManager        TransactionManager
	logger           Logger
}

// NewService создает новый экземпляр сервиса окон доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		catalogRepo:      catalogRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// Get возвращает все окна мастера салона
func (s *Service) Get(ctx context.Context, salonID, stylistID int64) (*models.WindowsResponse, error) {
	s.logger.Info("GetAvailability: salon=%d stylist=%d", salonID, stylistID)

	if err := s.checkStylist(ctx, "GetAvailability", salonID, stylistID); err != nil {
		return nil, err
	}

	windows, err := s.availabilityRepo.ListByStylist(ctx, stylistID)
	if err != nil {
		s.logger.Error("GetAvailability: repository error for stylist=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: GetAvailability - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainWindows(stylistID, windows), nil
}

// Replace атомарно заменяет все окна мастера.
// Пустой список допустим: мастер без окон доступен по всей сетке.
func (s *Service) Replace(ctx context.Context, salonID, stylistID int64, req *models.ReplaceWindowsRequest) (*models.WindowsResponse, error) {
	s.logger.Info("ReplaceAvailability: salon=%d stylist=%d windows=%d", salonID, stylistID, len(req.Windows))

	windows, err := toDomainWindows(stylistID, req)
	if err != nil {
		s.logger.Warn("ReplaceAvailability: validation failed: %v", err)
		return nil, err
	}

	if err := s.checkStylist(ctx, "ReplaceAvailability", salonID, stylistID); err != nil {
		return nil, err
	}

	var stored []*domain.AvailabilityWindow
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.availabilityRepo.ReplaceForStylist(txCtx, stylistID, windows); err != nil {
			return err
		}

		var err error
		stored, err = s.availabilityRepo.ListByStylist(txCtx, stylistID)
		return err
	})
	if err != nil {
		s.logger.Error("ReplaceAvailability: repository error for stylist=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: ReplaceAvailability - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceAvailability: stylist=%d now has %d windows", stylistID, len(stored))
	return models.FromDomainWindows(stylistID, stored), nil
}

func (s *Service) checkStylist(ctx context.Context, op string, salonID, stylistID int64) error {
	if _, err := s.catalogRepo.GetStylist(ctx, salonID, stylistID); err != nil {
		if errors.Is(err, catalogRepo.ErrStylistNotFound) {
			s.logger.Warn("%s: stylist id=%d not found in salon=%d", op, stylistID, salonID)
			return ErrStylistNotFound
		}
		s.logger.Error("%s: failed to get stylist id=%d: %v", op, stylistID, err)
		return fmt.Errorf("%w: %s - failed to get stylist: %v", ErrInternal, op, err)
	}
	return nil
}

// toDomainWindows валидирует окна: день 0..6, корректное время, начало раньше конца
func toDomainWindows(stylistID int64, req *models.ReplaceWindowsRequest) ([]*domain.AvailabilityWindow, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, fields)
	}

	windows := make([]*domain.AvailabilityWindow, 0, len(req.Windows))
	for i, w := range req.Windows {
		window, err := w.ToDomainWindow(stylistID)
		if err != nil {
			return nil, fmt.Errorf("%w: windows[%d]: %v", ErrInvalidInput, i, err)
		}

		if !window.StartTime.IsBefore(window.EndTime) {
			return nil, fmt.Errorf("%w: windows[%d]: start %s must be before end %s",
				ErrInvalidInput, i, window.StartTime, window.EndTime)
		}

		windows = append(windows, window)
	}

	return windows, nil
}
