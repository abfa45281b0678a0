package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	catalogRepo "github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/internal/service/catalog/models"
)

// Service сервис публичного каталога салона
type Service struct {
	catalogRepo CatalogRepository
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса каталога
func NewService(catalogRepo CatalogRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		catalogRepo: catalogRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Get возвращает салон с услугами и мастерами в одной read-only транзакции
func (s *Service) Get(ctx context.Context, salonID int64) (*models.CatalogResponse, error) {
	var (
		salon    *domain.Salon
		services []*domain.Service
		stylists []*domain.Stylist
	)

	err := s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		var err error
		if salon, err = s.catalogRepo.GetSalon(txCtx, salonID); err != nil {
			return err
		}
		if services, err = s.catalogRepo.ListServices(txCtx, salonID); err != nil {
			return err
		}
		stylists, err = s.catalogRepo.ListStylists(txCtx, salonID)
		return err
	})
	if err != nil {
		if errors.Is(err, catalogRepo.ErrSalonNotFound) {
			s.logger.Warn("GetCatalog: salon id=%d not found", salonID)
			return nil, ErrSalonNotFound
		}
		s.logger.Error("GetCatalog: repository error for salon=%d: %v", salonID, err)
		return nil, fmt.Errorf("%w: GetCatalog - repository error: %v", ErrInternal, err)
	}

	return models.FromDomain(salon, services, stylists), nil
}
