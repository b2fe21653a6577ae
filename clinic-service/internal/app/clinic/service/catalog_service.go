package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/repository"
	"dentalcare/clinic-service/internal/app/clinic/util"
	"dentalcare/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrDentistExists = errors.New("dentist already exists")
	ErrServiceExists = errors.New("service already exists")
)

// CatalogService управляет справочниками врачей и услуг.
// Списки кешируются в Redis, мутации сбрасывают кеш.
type CatalogService struct {
	dentistRepo repository.DentistRepository
	serviceRepo repository.ServiceRepository
	cache       *util.RedisClient
	cacheTTL    time.Duration
}

// NewCatalogService создает новый сервис справочников
func NewCatalogService(
	dentistRepo repository.DentistRepository,
	serviceRepo repository.ServiceRepository,
	cache *util.RedisClient,
	cacheTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		dentistRepo: dentistRepo,
		serviceRepo: serviceRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// CreateDentist добавляет врача в справочник
func (s *CatalogService) CreateDentist(ctx context.Context, req *entity.CreateDentistRequest) (*entity.Dentist, error) {
	dentist := &entity.Dentist{
		ID:        uuid.New(),
		Username:  req.Username,
		FullName:  req.FullName,
		Specialty: req.Specialty,
		Bio:       req.Bio,
	}

	if err := s.dentistRepo.Create(ctx, dentist); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDentistExists
		}
		return nil, fmt.Errorf("failed to create dentist: %w", err)
	}

	s.invalidateDentistsCache(ctx)

	return dentist, nil
}

// GetDentist получает врача по ID
func (s *CatalogService) GetDentist(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	dentist, err := s.dentistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDentistNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, fmt.Errorf("failed to get dentist: %w", err)
	}
	return dentist, nil
}

// ListDentists возвращает всех врачей, по возможности из кеша
func (s *CatalogService) ListDentists(ctx context.Context) ([]entity.Dentist, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDentists(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read dentists from cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	dentists, err := s.dentistRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dentists: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetDentists(ctx, dentists, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache dentists")
		}
	}

	return dentists, nil
}

// UpdateDentist правит данные врача
func (s *CatalogService) UpdateDentist(ctx context.Context, id uuid.UUID, req *entity.UpdateDentistRequest) (*entity.Dentist, error) {
	dentist, err := s.dentistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDentistNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, fmt.Errorf("failed to get dentist: %w", err)
	}

	if req.FullName != nil {
		dentist.FullName = *req.FullName
	}
	if req.Specialty != nil {
		dentist.Specialty = *req.Specialty
	}
	if req.Bio != nil {
		dentist.Bio = *req.Bio
	}

	if err := s.dentistRepo.Update(ctx, dentist); err != nil {
		if errors.Is(err, repository.ErrDentistNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, fmt.Errorf("failed to update dentist: %w", err)
	}

	s.invalidateDentistsCache(ctx)

	return dentist, nil
}

// DeleteDentist удаляет врача из справочника
func (s *CatalogService) DeleteDentist(ctx context.Context, id uuid.UUID) error {
	if err := s.dentistRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrDentistNotFound) {
			return ErrDentistNotFound
		}
		return fmt.Errorf("failed to delete dentist: %w", err)
	}

	s.invalidateDentistsCache(ctx)

	return nil
}

// CreateService добавляет услугу в прейскурант
func (s *CatalogService) CreateService(ctx context.Context, req *entity.CreateServiceRequest) (*entity.DentalService, error) {
	svc := &entity.DentalService{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		DurationMin: req.DurationMin,
	}

	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrServiceExists
		}
		return nil, fmt.Errorf("failed to create service: %w", err)
	}

	s.invalidateServicesCache(ctx)

	return svc, nil
}

// GetService получает услугу по ID
func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.DentalService, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

// ListServices возвращает прейскурант, по возможности из кеша
func (s *CatalogService) ListServices(ctx context.Context) ([]entity.DentalService, error) {
	if s.cache != nil {
		cached, err := s.cache.GetServices(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read services from cache")
		} else if cached != nil {
			return cached, nil
		}
	}

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetServices(ctx, services, s.cacheTTL); err != nil {
			logger.Warn().Err(err).Msg("Failed to cache services")
		}
	}

	return services, nil
}

// UpdateService правит услугу в прейскуранте
func (s *CatalogService) UpdateService(ctx context.Context, id uuid.UUID, req *entity.UpdateServiceRequest) (*entity.DentalService, error) {
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to update service: %w", err)
	}

	s.invalidateServicesCache(ctx)

	return svc, nil
}

// DeleteService удаляет услугу из прейскуранта
func (s *CatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		return fmt.Errorf("failed to delete service: %w", err)
	}

	s.invalidateServicesCache(ctx)

	return nil
}

func (s *CatalogService) invalidateDentistsCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteDentists(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate dentists cache")
	}
}

func (s *CatalogService) invalidateServicesCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteServices(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate services cache")
	}
}
