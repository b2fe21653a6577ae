package repository

import (
	"context"
	"errors"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, svc *entity.DentalService) error {
	result := r.db.WithContext(ctx).Create(svc)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return ErrDuplicate
		}
		return result.Error
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DentalService, error) {
	var svc entity.DentalService
	result := r.db.WithContext(ctx).First(&svc, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, result.Error
	}
	return &svc, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]entity.DentalService, error) {
	var services []entity.DentalService
	result := r.db.WithContext(ctx).Order("name").Find(&services)
	if result.Error != nil {
		return nil, result.Error
	}
	return services, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *entity.DentalService) error {
	result := r.db.WithContext(ctx).Model(svc).
		Where("id = ?", svc.ID).
		Updates(map[string]interface{}{
			"name":         svc.Name,
			"description":  svc.Description,
			"price":        svc.Price,
			"duration_min": svc.DurationMin,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.DentalService{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrServiceNotFound
	}
	return nil
}
