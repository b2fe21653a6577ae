package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===================== Public Read Tests =====================

func TestListServicesHandler_PublicAccess(t *testing.T) {
	f := newHandlerFixture()

	services := []entity.DentalService{
		{ID: uuid.New(), Name: "Teeth cleaning", Price: 50.0, DurationMin: 30},
	}
	f.catalogSvc.On("ListServices", mock.Anything).Return(services, nil)

	// Без токена
	w := performRequest(f.router, http.MethodGet, "/api/services", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var result []entity.DentalService
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result, 1)
}

func TestListDentistsHandler_PublicAccess(t *testing.T) {
	f := newHandlerFixture()

	dentists := []entity.Dentist{
		{ID: uuid.New(), Username: "dr_orlova", FullName: "Dr. Anna Orlova", Specialty: "Orthodontist"},
	}
	f.catalogSvc.On("ListDentists", mock.Anything).Return(dentists, nil)

	w := performRequest(f.router, http.MethodGet, "/api/dentists", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetServiceHandler_NotFound(t *testing.T) {
	f := newHandlerFixture()
	id := uuid.New()

	f.catalogSvc.On("GetService", mock.Anything, id).Return(nil, service.ErrServiceNotFound)

	w := performRequest(f.router, http.MethodGet, "/api/services/"+id.String(), "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== Admin Mutation Tests =====================

func TestCreateServiceHandler_AdminSuccess(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "admin", entity.RoleAdmin)

	svc := &entity.DentalService{ID: uuid.New(), Name: "Whitening", Price: 120.0, DurationMin: 60}
	f.catalogSvc.On("CreateService", mock.Anything, mock.AnythingOfType("*entity.CreateServiceRequest")).Return(svc, nil)

	body := entity.CreateServiceRequest{Name: "Whitening", Price: 120.0, DurationMin: 60}
	w := performRequest(f.router, http.MethodPost, "/api/services", token, body)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateServiceHandler_Unauthorized(t *testing.T) {
	f := newHandlerFixture()

	body := entity.CreateServiceRequest{Name: "Whitening", Price: 120.0, DurationMin: 60}
	w := performRequest(f.router, http.MethodPost, "/api/services", "", body)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateServiceHandler_ReceptionistForbidden(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)

	body := entity.CreateServiceRequest{Name: "Whitening", Price: 120.0, DurationMin: 60}
	w := performRequest(f.router, http.MethodPost, "/api/services", token, body)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateServiceHandler_ValidationFailed(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "admin", entity.RoleAdmin)

	// Цена обязана быть положительной
	body := entity.CreateServiceRequest{Name: "Whitening", Price: -5.0, DurationMin: 60}
	w := performRequest(f.router, http.MethodPost, "/api/services", token, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateDentistHandler_Conflict(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "admin", entity.RoleAdmin)

	f.catalogSvc.On("CreateDentist", mock.Anything, mock.AnythingOfType("*entity.CreateDentistRequest")).
		Return(nil, service.ErrDentistExists)

	body := entity.CreateDentistRequest{Username: "dr_orlova", FullName: "Dr. Anna Orlova", Specialty: "Orthodontist"}
	w := performRequest(f.router, http.MethodPost, "/api/dentists", token, body)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteDentistHandler_AdminSuccess(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "admin", entity.RoleAdmin)
	id := uuid.New()

	f.catalogSvc.On("DeleteDentist", mock.Anything, id).Return(nil)

	w := performRequest(f.router, http.MethodDelete, "/api/dentists/"+id.String(), token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateServiceHandler_NotFound(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "admin", entity.RoleAdmin)
	id := uuid.New()

	f.catalogSvc.On("UpdateService", mock.Anything, id, mock.AnythingOfType("*entity.UpdateServiceRequest")).
		Return(nil, service.ErrServiceNotFound)

	newPrice := 99.0
	body := entity.UpdateServiceRequest{Price: &newPrice}
	w := performRequest(f.router, http.MethodPut, "/api/services/"+id.String(), token, body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
