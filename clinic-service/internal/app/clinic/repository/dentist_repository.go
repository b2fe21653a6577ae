package repository

import (
	"context"
	"errors"
	"strings"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type dentistRepository struct {
	db *gorm.DB
}

func NewDentistRepository(db *gorm.DB) DentistRepository {
	return &dentistRepository{db: db}
}

func (r *dentistRepository) Create(ctx context.Context, dentist *entity.Dentist) error {
	result := r.db.WithContext(ctx).Create(dentist)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return ErrDuplicate
		}
		return result.Error
	}
	return nil
}

func (r *dentistRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	var dentist entity.Dentist
	result := r.db.WithContext(ctx).First(&dentist, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, result.Error
	}
	return &dentist, nil
}

func (r *dentistRepository) GetByUsername(ctx context.Context, username string) (*entity.Dentist, error) {
	var dentist entity.Dentist
	result := r.db.WithContext(ctx).First(&dentist, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, result.Error
	}
	return &dentist, nil
}

func (r *dentistRepository) List(ctx context.Context) ([]entity.Dentist, error) {
	var dentists []entity.Dentist
	result := r.db.WithContext(ctx).Order("full_name").Find(&dentists)
	if result.Error != nil {
		return nil, result.Error
	}
	return dentists, nil
}

func (r *dentistRepository) Update(ctx context.Context, dentist *entity.Dentist) error {
	result := r.db.WithContext(ctx).Model(dentist).
		Where("id = ?", dentist.ID).
		Updates(map[string]interface{}{
			"full_name": dentist.FullName,
			"specialty": dentist.Specialty,
			"bio":       dentist.Bio,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDentistNotFound
	}

	return nil
}

func (r *dentistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Dentist{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDentistNotFound
	}
	return nil
}

// isDuplicateError проверяет нарушение уникального ограничения postgres
func isDuplicateError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key value")
}
