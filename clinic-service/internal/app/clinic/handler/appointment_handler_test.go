package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/service"
	"dentalcare/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-clinic-service-tests"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.InitWithWriter("clinic-service-test", "error", io.Discard)
	os.Exit(m.Run())
}

// MockAppointmentService мок для AppointmentService в тестах handler
type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Create(ctx context.Context, receptionistUsername string, req *entity.CreateAppointmentRequest, authToken string) (*entity.Appointment, error) {
	args := m.Called(ctx, receptionistUsername, req, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) GetByID(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error) {
	args := m.Called(ctx, id, actorUsername, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ListMy(ctx context.Context, actorUsername, actorRole string) ([]entity.Appointment, error) {
	args := m.Called(ctx, actorUsername, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ListAll(ctx context.Context, limit, offset int) ([]entity.Appointment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Update(ctx context.Context, id uuid.UUID, actorUsername, actorRole string, req *entity.UpdateAppointmentRequest) (*entity.Appointment, error) {
	args := m.Called(ctx, id, actorUsername, actorRole, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Confirm(ctx context.Context, id uuid.UUID, authToken string) (*entity.Appointment, error) {
	args := m.Called(ctx, id, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Complete(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error) {
	args := m.Called(ctx, id, actorUsername, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) error {
	args := m.Called(ctx, id, actorUsername, actorRole)
	return args.Error(0)
}

// MockCatalogService мок для CatalogService в тестах handler
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateDentist(ctx context.Context, req *entity.CreateDentistRequest) (*entity.Dentist, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dentist), args.Error(1)
}

func (m *MockCatalogService) GetDentist(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dentist), args.Error(1)
}

func (m *MockCatalogService) ListDentists(ctx context.Context) ([]entity.Dentist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Dentist), args.Error(1)
}

func (m *MockCatalogService) UpdateDentist(ctx context.Context, id uuid.UUID, req *entity.UpdateDentistRequest) (*entity.Dentist, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dentist), args.Error(1)
}

func (m *MockCatalogService) DeleteDentist(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) CreateService(ctx context.Context, req *entity.CreateServiceRequest) (*entity.DentalService, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DentalService), args.Error(1)
}

func (m *MockCatalogService) GetService(ctx context.Context, id uuid.UUID) (*entity.DentalService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DentalService), args.Error(1)
}

func (m *MockCatalogService) ListServices(ctx context.Context) ([]entity.DentalService, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DentalService), args.Error(1)
}

func (m *MockCatalogService) UpdateService(ctx context.Context, id uuid.UUID, req *entity.UpdateServiceRequest) (*entity.DentalService, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DentalService), args.Error(1)
}

func (m *MockCatalogService) DeleteService(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecordService мок для RecordService в тестах handler
type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) Create(ctx context.Context, dentistUsername string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error) {
	args := m.Called(ctx, dentistUsername, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientRecord), args.Error(1)
}

func (m *MockRecordService) GetByPatient(ctx context.Context, patientUsername, actorUsername, actorRole string) ([]entity.PatientRecord, error) {
	args := m.Called(ctx, patientUsername, actorUsername, actorRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PatientRecord), args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, id string, actorUsername, actorRole string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error) {
	args := m.Called(ctx, id, actorUsername, actorRole, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientRecord), args.Error(1)
}

func (m *MockRecordService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type handlerFixture struct {
	appointmentSvc *MockAppointmentService
	catalogSvc     *MockCatalogService
	recordSvc      *MockRecordService
	router         *gin.Engine
}

func newHandlerFixture() *handlerFixture {
	f := &handlerFixture{
		appointmentSvc: new(MockAppointmentService),
		catalogSvc:     new(MockCatalogService),
		recordSvc:      new(MockRecordService),
	}
	f.router = SetupRoutes(
		NewAppointmentHandler(f.appointmentSvc),
		NewCatalogHandler(f.catalogSvc),
		NewRecordHandler(f.recordSvc),
		NewAuthMiddleware(testJWTSecret, nil),
	)
	return f
}

// signToken выпускает access токен в формате auth-service
func signToken(t *testing.T, username, role string) string {
	t.Helper()

	claims := JWTClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func performRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ===================== Create Appointment Tests =====================

func TestCreateAppointmentHandler_Success(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientUsername: "ivan",
		Status:          entity.AppointmentStatusPending,
	}
	f.appointmentSvc.On("Create", mock.Anything, "front_desk", mock.AnythingOfType("*entity.CreateAppointmentRequest"), token).
		Return(appointment, nil)

	body := entity.CreateAppointmentRequest{
		PatientUsername: "ivan",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		ScheduledAt:     time.Now().Add(48 * time.Hour),
	}
	w := performRequest(f.router, http.MethodPost, "/api/appointments", token, body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result entity.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "ivan", result.PatientUsername)
	assert.Equal(t, entity.AppointmentStatusPending, result.Status)
}

func TestCreateAppointmentHandler_PatientForbidden(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)

	body := entity.CreateAppointmentRequest{
		PatientUsername: "ivan",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		ScheduledAt:     time.Now().Add(48 * time.Hour),
	}
	w := performRequest(f.router, http.MethodPost, "/api/appointments", token, body)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateAppointmentHandler_Unauthorized(t *testing.T) {
	f := newHandlerFixture()

	w := performRequest(f.router, http.MethodPost, "/api/appointments", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAppointmentHandler_ValidationFailed(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)

	// Нет обязательных полей
	w := performRequest(f.router, http.MethodPost, "/api/appointments", token, map[string]string{"notes": "hi"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentHandler_PatientNotFound(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)

	f.appointmentSvc.On("Create", mock.Anything, "front_desk", mock.AnythingOfType("*entity.CreateAppointmentRequest"), token).
		Return(nil, service.ErrPatientNotFound)

	body := entity.CreateAppointmentRequest{
		PatientUsername: "ghost",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		ScheduledAt:     time.Now().Add(48 * time.Hour),
	}
	w := performRequest(f.router, http.MethodPost, "/api/appointments", token, body)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== Read Tests =====================

func TestGetAppointmentHandler_InvalidID(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)

	w := performRequest(f.router, http.MethodGet, "/api/appointments/not-a-uuid", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMyAppointmentsHandler_Success(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)

	appointments := []entity.Appointment{{ID: uuid.New(), PatientUsername: "ivan", Status: entity.AppointmentStatusPending}}
	f.appointmentSvc.On("ListMy", mock.Anything, "ivan", entity.RolePatient).Return(appointments, nil)

	w := performRequest(f.router, http.MethodGet, "/api/appointments/my", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var result []entity.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result, 1)
}

func TestListAllAppointmentsHandler_PatientForbidden(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)

	w := performRequest(f.router, http.MethodGet, "/api/appointments/all", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListAllAppointmentsHandler_ReceptionistOK(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)

	f.appointmentSvc.On("ListAll", mock.Anything, 20, 0).Return([]entity.Appointment{}, nil)

	w := performRequest(f.router, http.MethodGet, "/api/appointments/all", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

// ===================== Transition Tests =====================

func TestConfirmAppointmentHandler_Conflict(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)
	id := uuid.New()

	f.appointmentSvc.On("Confirm", mock.Anything, id, token).Return(nil, service.ErrInvalidTransition)

	w := performRequest(f.router, http.MethodPost, "/api/appointments/"+id.String()+"/confirm", token, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompleteAppointmentHandler_DentistForbiddenByService(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "dr_petrov", entity.RoleDentist)
	id := uuid.New()

	f.appointmentSvc.On("Complete", mock.Anything, id, "dr_petrov", entity.RoleDentist).Return(nil, service.ErrForbidden)

	w := performRequest(f.router, http.MethodPost, "/api/appointments/"+id.String()+"/complete", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCompleteAppointmentHandler_ReceptionistForbiddenByRouter(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "front_desk", entity.RoleReceptionist)
	id := uuid.New()

	w := performRequest(f.router, http.MethodPost, "/api/appointments/"+id.String()+"/complete", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCancelAppointmentHandler_Success(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)
	id := uuid.New()

	f.appointmentSvc.On("Cancel", mock.Anything, id, "ivan", entity.RolePatient).Return(nil)

	w := performRequest(f.router, http.MethodDelete, "/api/appointments/"+id.String(), token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelAppointmentHandler_NotFound(t *testing.T) {
	f := newHandlerFixture()
	token := signToken(t, "ivan", entity.RolePatient)
	id := uuid.New()

	f.appointmentSvc.On("Cancel", mock.Anything, id, "ivan", entity.RolePatient).Return(service.ErrAppointmentNotFound)

	w := performRequest(f.router, http.MethodDelete, "/api/appointments/"+id.String(), token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== Expired Token =====================

func TestAuthenticate_ExpiredToken(t *testing.T) {
	f := newHandlerFixture()

	claims := JWTClaims{
		Username: "ivan",
		Role:     entity.RolePatient,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	w := performRequest(f.router, http.MethodGet, "/api/appointments/my", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
