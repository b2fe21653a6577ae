package service

import (
	"context"
	"errors"
	"fmt"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/repository"
	"dentalcare/pkg/metrics"
)

var ErrRecordNotFound = errors.New("patient record not found")

// RecordService управляет медицинскими картами пациентов в MongoDB.
// Записи создают врачи, пациент видит только свою историю.
type RecordService struct {
	recordRepo  repository.PatientRecordRepository
	dentistRepo repository.DentistRepository
}

// NewRecordService создает новый сервис медкарт
func NewRecordService(recordRepo repository.PatientRecordRepository, dentistRepo repository.DentistRepository) *RecordService {
	return &RecordService{
		recordRepo:  recordRepo,
		dentistRepo: dentistRepo,
	}
}

// Create создает запись в медкарте от имени врача
func (s *RecordService) Create(ctx context.Context, dentistUsername string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error) {
	record := &entity.PatientRecord{
		PatientUsername: req.PatientUsername,
		DentistUsername: dentistUsername,
		AppointmentID:   req.AppointmentID,
		Diagnosis:       req.Diagnosis,
		TreatmentPlan:   req.TreatmentPlan,
		Notes:           req.Notes,
	}

	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create patient record: %w", err)
	}

	metrics.PatientRecordsCreated.Inc()

	return record, nil
}

// GetByPatient возвращает историю лечения пациента.
// Пациент видит только свою карту, персонал клиники - любую.
func (s *RecordService) GetByPatient(ctx context.Context, patientUsername, actorUsername, actorRole string) ([]entity.PatientRecord, error) {
	switch actorRole {
	case entity.RoleAdmin, entity.RoleReceptionist, entity.RoleDentist:
	default:
		if patientUsername != actorUsername {
			return nil, ErrForbidden
		}
	}

	records, err := s.recordRepo.GetByPatient(ctx, patientUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient records: %w", err)
	}

	return records, nil
}

// Update правит запись медкарты. Доступно автору записи и админу.
func (s *RecordService) Update(ctx context.Context, id string, actorUsername, actorRole string, req *entity.CreatePatientRecordRequest) (*entity.PatientRecord, error) {
	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}

	if record.DentistUsername != actorUsername && actorRole != entity.RoleAdmin {
		return nil, ErrForbidden
	}

	record.Diagnosis = req.Diagnosis
	record.TreatmentPlan = req.TreatmentPlan
	record.Notes = req.Notes

	if err := s.recordRepo.Update(ctx, record); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to update patient record: %w", err)
	}

	return record, nil
}

// Delete удаляет запись медкарты. Только для админа, гейтится в router.
func (s *RecordService) Delete(ctx context.Context, id string) error {
	if err := s.recordRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return ErrRecordNotFound
		}
		return fmt.Errorf("failed to delete patient record: %w", err)
	}
	return nil
}
