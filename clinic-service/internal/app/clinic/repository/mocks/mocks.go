package mocks

import (
	"context"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAppointmentRepository - мок репозитория приемов для unit-тестов
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByPatient(ctx context.Context, username string) ([]entity.Appointment, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetByDentist(ctx context.Context, dentistID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(ctx, dentistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, limit, offset int) ([]entity.Appointment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, appointment *entity.Appointment) error {
	args := m.Called(ctx, appointment)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListForReminder(ctx context.Context, from, to time.Time) ([]entity.Appointment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDentistRepository - мок репозитория врачей для unit-тестов
type MockDentistRepository struct {
	mock.Mock
}

func (m *MockDentistRepository) Create(ctx context.Context, dentist *entity.Dentist) error {
	args := m.Called(ctx, dentist)
	return args.Error(0)
}

func (m *MockDentistRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Dentist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dentist), args.Error(1)
}

func (m *MockDentistRepository) GetByUsername(ctx context.Context, username string) (*entity.Dentist, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Dentist), args.Error(1)
}

func (m *MockDentistRepository) List(ctx context.Context) ([]entity.Dentist, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Dentist), args.Error(1)
}

func (m *MockDentistRepository) Update(ctx context.Context, dentist *entity.Dentist) error {
	args := m.Called(ctx, dentist)
	return args.Error(0)
}

func (m *MockDentistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockServiceRepository - мок репозитория услуг для unit-тестов
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, svc *entity.DentalService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DentalService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DentalService), args.Error(1)
}

func (m *MockServiceRepository) List(ctx context.Context) ([]entity.DentalService, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.DentalService), args.Error(1)
}

func (m *MockServiceRepository) Update(ctx context.Context, svc *entity.DentalService) error {
	args := m.Called(ctx, svc)
	return args.Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuthServiceClient - мок клиента Auth Service для unit-тестов
type MockAuthServiceClient struct {
	mock.Mock
}

func (m *MockAuthServiceClient) GetUser(ctx context.Context, username string, authToken string) (*entity.UserInfo, error) {
	args := m.Called(ctx, username, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserInfo), args.Error(1)
}

func (m *MockAuthServiceClient) PromoteToPatient(ctx context.Context, username string, authToken string) error {
	args := m.Called(ctx, username, authToken)
	return args.Error(0)
}

// MockMessagePublisher - мок для MessagePublisher (Kafka)
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPatientRecordRepository - мок репозитория карт пациентов для unit-тестов
type MockPatientRecordRepository struct {
	mock.Mock
}

func (m *MockPatientRecordRepository) Create(ctx context.Context, record *entity.PatientRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPatientRecordRepository) GetByID(ctx context.Context, id string) (*entity.PatientRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) GetByPatient(ctx context.Context, username string) ([]entity.PatientRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) Update(ctx context.Context, record *entity.PatientRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPatientRecordRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
