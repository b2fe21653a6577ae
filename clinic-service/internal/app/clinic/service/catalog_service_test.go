package service

import (
	"context"
	"testing"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/repository"
	"dentalcare/clinic-service/internal/app/clinic/repository/mocks"
	"dentalcare/clinic-service/internal/app/clinic/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	dentistRepo *mocks.MockDentistRepository
	serviceRepo *mocks.MockServiceRepository
	cache       *util.RedisClient
	service     *CatalogService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := util.NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)

	f := &catalogFixture{
		dentistRepo: new(mocks.MockDentistRepository),
		serviceRepo: new(mocks.MockServiceRepository),
		cache:       cache,
	}
	f.service = NewCatalogService(f.dentistRepo, f.serviceRepo, f.cache, 10*time.Minute)
	return f
}

// ===================== Services Cache Tests =====================

func TestListServices_SecondCallServedFromCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	services := []entity.DentalService{
		{ID: uuid.New(), Name: "Teeth cleaning", Price: 50.0, DurationMin: 30},
		{ID: uuid.New(), Name: "Filling", Price: 80.0, DurationMin: 45},
	}
	// Репозиторий должен быть вызван ровно один раз
	f.serviceRepo.On("List", ctx).Return(services, nil).Once()

	first, err := f.service.ListServices(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := f.service.ListServices(ctx)
	assert.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Equal(t, first[0].Name, second[0].Name)

	f.serviceRepo.AssertExpectations(t)
}

func TestCreateService_InvalidatesCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	services := []entity.DentalService{
		{ID: uuid.New(), Name: "Teeth cleaning", Price: 50.0, DurationMin: 30},
	}
	f.serviceRepo.On("List", ctx).Return(services, nil).Twice()
	f.serviceRepo.On("Create", ctx, mock.AnythingOfType("*entity.DentalService")).Return(nil)

	_, err := f.service.ListServices(ctx)
	require.NoError(t, err)

	_, err = f.service.CreateService(ctx, &entity.CreateServiceRequest{
		Name:        "Whitening",
		Price:       120.0,
		DurationMin: 60,
	})
	require.NoError(t, err)

	// После мутации кеш сброшен и список читается из репозитория
	_, err = f.service.ListServices(ctx)
	assert.NoError(t, err)

	f.serviceRepo.AssertExpectations(t)
}

func TestCreateService_Duplicate(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	f.serviceRepo.On("Create", ctx, mock.AnythingOfType("*entity.DentalService")).Return(repository.ErrDuplicate)

	result, err := f.service.CreateService(ctx, &entity.CreateServiceRequest{
		Name:        "Teeth cleaning",
		Price:       50.0,
		DurationMin: 30,
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrServiceExists)
}

func TestUpdateService_NotFound(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	id := uuid.New()
	f.serviceRepo.On("GetByID", ctx, id).Return(nil, repository.ErrServiceNotFound)

	newPrice := 99.0
	result, err := f.service.UpdateService(ctx, id, &entity.UpdateServiceRequest{Price: &newPrice})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestUpdateService_AppliesPartialChanges(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	svc := &entity.DentalService{ID: uuid.New(), Name: "Filling", Price: 80.0, DurationMin: 45}
	f.serviceRepo.On("GetByID", ctx, svc.ID).Return(svc, nil)
	f.serviceRepo.On("Update", ctx, mock.AnythingOfType("*entity.DentalService")).Return(nil)

	newPrice := 95.0
	result, err := f.service.UpdateService(ctx, svc.ID, &entity.UpdateServiceRequest{Price: &newPrice})

	assert.NoError(t, err)
	assert.Equal(t, 95.0, result.Price)
	assert.Equal(t, "Filling", result.Name)
	assert.Equal(t, 45, result.DurationMin)
}

// ===================== Dentists Cache Tests =====================

func TestListDentists_SecondCallServedFromCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	dentists := []entity.Dentist{
		{ID: uuid.New(), Username: "dr_orlova", FullName: "Dr. Anna Orlova", Specialty: "Orthodontist"},
	}
	f.dentistRepo.On("List", ctx).Return(dentists, nil).Once()

	first, err := f.service.ListDentists(ctx)
	assert.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := f.service.ListDentists(ctx)
	assert.NoError(t, err)
	assert.Len(t, second, 1)

	f.dentistRepo.AssertExpectations(t)
}

func TestDeleteDentist_InvalidatesCache(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	dentistID := uuid.New()
	dentists := []entity.Dentist{
		{ID: dentistID, Username: "dr_orlova", FullName: "Dr. Anna Orlova", Specialty: "Orthodontist"},
	}
	f.dentistRepo.On("List", ctx).Return(dentists, nil).Twice()
	f.dentistRepo.On("Delete", ctx, dentistID).Return(nil)

	_, err := f.service.ListDentists(ctx)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteDentist(ctx, dentistID))

	_, err = f.service.ListDentists(ctx)
	assert.NoError(t, err)

	f.dentistRepo.AssertExpectations(t)
}

func TestCreateDentist_Duplicate(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()

	f.dentistRepo.On("Create", ctx, mock.AnythingOfType("*entity.Dentist")).Return(repository.ErrDuplicate)

	result, err := f.service.CreateDentist(ctx, &entity.CreateDentistRequest{
		Username:  "dr_orlova",
		FullName:  "Dr. Anna Orlova",
		Specialty: "Orthodontist",
	})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDentistExists)
}
