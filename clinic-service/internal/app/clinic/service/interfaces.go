package service

import (
	"context"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/google/uuid"
)

type AppointmentServiceInterface interface {
	Create(ctx context.Context, receptionistUsername string, req *entity.CreateAppointmentRequest, authToken string) (*entity.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error)
	ListMy(ctx context.Context, actorUsername, actorRole string) ([]entity.Appointment, error)
	ListAll(ctx context.Context, limit, offset int) ([]entity.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, actorUsername, actorRole string, req *entity.UpdateAppointmentRequest) (*entity.Appointment, error)
	Confirm(ctx context.Context, id uuid.UUID, authToken string) (*entity.Appointment, error)
	Complete(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) error
}

type CatalogServiceInterface interface {
	CreateDentist(ctx context.Context, req *entity.CreateDentistRequest) (*entity.Dentist, error)
	GetDentist(ctx context.Context, id uuid.UUID) (*entity.Dentist, error)
	ListDentists(ctx context.Context) ([]entity.Dentist, error)
	UpdateDentist(ctx context.Context, id uuid.UUID, req *entity.UpdateDentistRequest) (*entity.Dentist, error)
	DeleteDentist(ctx context.Context, id uuid.UUID) error
	CreateService(ctx context.Context, req *entity.CreateServiceRequest) (*entity.DentalService, error)
	GetService(ctx context.Context, id uuid.UUID) (*entity.DentalService, error)
	ListServices(ctx context.Context) ([]entity.DentalService, error)
	UpdateService(ctx context.Context, id uuid.UUID, req *entity.UpdateServiceRequest) (*entity.DentalService, error)
	DeleteService(ctx context.Context, id uuid.UUID) error
}

type RecordServiceInterface interface {
	Create(ctx context.Context, dentistUsername string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error)
	GetByPatient(ctx context.Context, patientUsername, actorUsername, actorRole string) ([]entity.PatientRecord, error)
	Update(ctx context.Context, id string, actorUsername, actorRole string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error)
	Delete(ctx context.Context, id string) error
}
