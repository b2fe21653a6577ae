package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"
	"dentalcare/clinic-service/internal/app/clinic/infrastructure"
	"dentalcare/clinic-service/internal/app/clinic/repository"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"

	"github.com/google/uuid"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDentistNotFound     = errors.New("dentist not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrInvalidTransition   = errors.New("invalid appointment status transition")
	ErrForbidden           = errors.New("access to appointment denied")
)

// AppointmentService обрабатывает бизнес-логику записей на прием.
// Координирует работу репозиториев, Auth Service и Kafka.
type AppointmentService struct {
	appointmentRepo repository.AppointmentRepository
	dentistRepo     repository.DentistRepository
	serviceRepo     repository.ServiceRepository
	recordRepo      repository.PatientRecordRepository
	authClient      infrastructure.AuthServiceClient
	eventProducer   infrastructure.MessagePublisher
	emailProducer   infrastructure.MessagePublisher
}

// NewAppointmentService создает новый сервис приемов с внедрением зависимостей
func NewAppointmentService(
	appointmentRepo repository.AppointmentRepository,
	dentistRepo repository.DentistRepository,
	serviceRepo repository.ServiceRepository,
	recordRepo repository.PatientRecordRepository,
	authClient infrastructure.AuthServiceClient,
	eventProducer infrastructure.MessagePublisher,
	emailProducer infrastructure.MessagePublisher,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		serviceRepo:     serviceRepo,
		recordRepo:      recordRepo,
		authClient:      authClient,
		eventProducer:   eventProducer,
		emailProducer:   emailProducer,
	}
}

// Create создает новую запись на прием от имени регистратуры
// 1. Проверяет клиента в Auth Service
// 2. Проверяет существование врача и услуги
// 3. Сохраняет прием в статусе PENDING
// 4. Переводит клиента в статус пациента (best-effort)
// 5. Отправляет событие APPOINTMENT_CREATED в Kafka
func (s *AppointmentService) Create(ctx context.Context, receptionistUsername string, req *entity.CreateAppointmentRequest, authToken string) (*entity.Appointment, error) {
	user, err := s.authClient.GetUser(ctx, req.PatientUsername, authToken)
	if err != nil {
		return nil, ErrPatientNotFound
	}

	// Записывать на прием можно только клиентов и пациентов
	if user.Role != entity.RoleCustomer && user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	dentist, err := s.dentistRepo.GetByID(ctx, req.DentistID)
	if err != nil {
		if errors.Is(err, repository.ErrDentistNotFound) {
			return nil, ErrDentistNotFound
		}
		return nil, fmt.Errorf("failed to get dentist: %w", err)
	}

	svc, err := s.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}

	appointment := &entity.Appointment{
		ID:                   uuid.New(),
		PatientUsername:      user.Username,
		ReceptionistUsername: receptionistUsername,
		DentistID:            dentist.ID,
		ServiceID:            svc.ID,
		ScheduledAt:          req.ScheduledAt,
		Notes:                req.Notes,
		Status:               entity.AppointmentStatusPending,
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	appointment.Dentist = dentist
	appointment.Service = svc

	// Клиент становится пациентом при записи на первый прием.
	// Ошибка не отменяет созданную запись.
	if user.Role == entity.RoleCustomer {
		if err := s.authClient.PromoteToPatient(ctx, user.Username, authToken); err != nil {
			logger.Warn().Err(err).Str("username", user.Username).Msg("Failed to promote customer to patient")
		}
	}

	metrics.AppointmentsCreated.Inc()
	s.publishEvent(ctx, entity.EventAppointmentCreated, appointment)

	return appointment, nil
}

// GetByID получает прием с проверкой доступа:
// админ и регистратура видят все, врач - свои приемы, пациент - свои записи
func (s *AppointmentService) GetByID(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !s.canView(appointment, actorUsername, actorRole) {
		return nil, ErrForbidden
	}

	return appointment, nil
}

// ListMy получает приемы текущего пользователя:
// для врача - назначенные ему, для пациента - его записи
func (s *AppointmentService) ListMy(ctx context.Context, actorUsername, actorRole string) ([]entity.Appointment, error) {
	if actorRole == entity.RoleDentist {
		dentist, err := s.dentistRepo.GetByUsername(ctx, actorUsername)
		if err != nil {
			if errors.Is(err, repository.ErrDentistNotFound) {
				return []entity.Appointment{}, nil
			}
			return nil, fmt.Errorf("failed to get dentist: %w", err)
		}

		appointments, err := s.appointmentRepo.GetByDentist(ctx, dentist.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get dentist appointments: %w", err)
		}
		return appointments, nil
	}

	appointments, err := s.appointmentRepo.GetByPatient(ctx, actorUsername)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient appointments: %w", err)
	}

	return appointments, nil
}

// ListAll получает страницу всех приемов для админа и регистратуры
func (s *AppointmentService) ListAll(ctx context.Context, limit, offset int) ([]entity.Appointment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	appointments, err := s.appointmentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	return appointments, nil
}

// Update изменяет прием до его завершения.
// Пациент переносит время и правит заметки своей записи,
// админ дополнительно может сменить врача или услугу.
func (s *AppointmentService) Update(ctx context.Context, id uuid.UUID, actorUsername, actorRole string, req *entity.UpdateAppointmentRequest) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	isOwner := appointment.PatientUsername == actorUsername
	isAdmin := actorRole == entity.RoleAdmin
	if !isOwner && !isAdmin {
		return nil, ErrForbidden
	}

	// Завершенные и отмененные приемы не редактируются
	if appointment.Status != entity.AppointmentStatusPending && appointment.Status != entity.AppointmentStatusConfirmed {
		return nil, ErrInvalidTransition
	}

	if req.ScheduledAt != nil {
		appointment.ScheduledAt = *req.ScheduledAt
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	// Смена врача и услуги доступна только админу
	if req.DentistID != nil {
		if !isAdmin {
			return nil, ErrForbidden
		}
		dentist, err := s.dentistRepo.GetByID(ctx, *req.DentistID)
		if err != nil {
			if errors.Is(err, repository.ErrDentistNotFound) {
				return nil, ErrDentistNotFound
			}
			return nil, fmt.Errorf("failed to get dentist: %w", err)
		}
		appointment.DentistID = dentist.ID
		appointment.Dentist = dentist
	}
	if req.ServiceID != nil {
		if !isAdmin {
			return nil, ErrForbidden
		}
		svc, err := s.serviceRepo.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, repository.ErrServiceNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, fmt.Errorf("failed to get service: %w", err)
		}
		appointment.ServiceID = svc.ID
		appointment.Service = svc
	}

	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	return appointment, nil
}

// Confirm подтверждает прием от имени регистратуры или админа.
// Отправляет пациенту письмо с подтверждением через Kafka.
func (s *AppointmentService) Confirm(ctx context.Context, id uuid.UUID, authToken string) (*entity.Appointment, error) {
	appointment, err := s.transition(ctx, id, entity.AppointmentStatusConfirmed)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, entity.EventAppointmentConfirmed, appointment)
	s.sendConfirmationEmail(ctx, appointment, authToken)

	return appointment, nil
}

// Complete завершает прием. Доступно назначенному врачу и админу.
// Для завершенного приема создается запись в медкарте (best-effort).
func (s *AppointmentService) Complete(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if actorRole != entity.RoleAdmin {
		if actorRole != entity.RoleDentist || appointment.Dentist == nil || appointment.Dentist.Username != actorUsername {
			return nil, ErrForbidden
		}
	}

	if !isValidStatusTransition(appointment.Status, entity.AppointmentStatusCompleted) {
		return nil, ErrInvalidTransition
	}

	appointment.Status = entity.AppointmentStatusCompleted
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	metrics.AppointmentTransitions.WithLabelValues("completed").Inc()
	s.publishEvent(ctx, entity.EventAppointmentCompleted, appointment)

	// Фиксируем факт приема в медкарте. Ошибка Mongo не отменяет завершение.
	record := &entity.PatientRecord{
		PatientUsername: appointment.PatientUsername,
		AppointmentID:   appointment.ID.String(),
		Diagnosis:       "Visit completed",
		Notes:           appointment.Notes,
	}
	if appointment.Dentist != nil {
		record.DentistUsername = appointment.Dentist.Username
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		logger.Warn().Err(err).Str("appointment_id", appointment.ID.String()).Msg("Failed to create patient record for completed appointment")
	} else {
		metrics.PatientRecordsCreated.Inc()
	}

	return appointment, nil
}

// Cancel отменяет прием. Доступно владельцу записи и админу.
func (s *AppointmentService) Cancel(ctx context.Context, id uuid.UUID, actorUsername, actorRole string) error {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return ErrAppointmentNotFound
		}
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	if appointment.PatientUsername != actorUsername && actorRole != entity.RoleAdmin {
		return ErrForbidden
	}

	if !isValidStatusTransition(appointment.Status, entity.AppointmentStatusCancelled) {
		return ErrInvalidTransition
	}

	appointment.Status = entity.AppointmentStatusCancelled
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	metrics.AppointmentTransitions.WithLabelValues("cancelled").Inc()
	s.publishEvent(ctx, entity.EventAppointmentCancelled, appointment)

	return nil
}

// transition выполняет смену статуса с проверкой допустимости перехода
func (s *AppointmentService) transition(ctx context.Context, id uuid.UUID, to entity.AppointmentStatus) (*entity.Appointment, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAppointmentNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !isValidStatusTransition(appointment.Status, to) {
		return nil, ErrInvalidTransition
	}

	appointment.Status = to
	if err := s.appointmentRepo.Update(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	metrics.AppointmentTransitions.WithLabelValues(strings.ToLower(string(to))).Inc()

	return appointment, nil
}

// canView проверяет право пользователя видеть прием
func (s *AppointmentService) canView(appointment *entity.Appointment, actorUsername, actorRole string) bool {
	switch actorRole {
	case entity.RoleAdmin, entity.RoleReceptionist:
		return true
	case entity.RoleDentist:
		return appointment.Dentist != nil && appointment.Dentist.Username == actorUsername
	default:
		return appointment.PatientUsername == actorUsername
	}
}

// publishEvent отправляет событие о приеме в Kafka (best-effort)
func (s *AppointmentService) publishEvent(ctx context.Context, eventType string, appointment *entity.Appointment) {
	event := entity.AppointmentEvent{
		EventType:       eventType,
		AppointmentID:   appointment.ID,
		PatientUsername: appointment.PatientUsername,
		DentistID:       appointment.DentistID,
		ServiceID:       appointment.ServiceID,
		ScheduledAt:     appointment.ScheduledAt,
		Status:          appointment.Status,
		Timestamp:       time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal appointment event")
		return
	}

	// Ключ = AppointmentID для партиционирования по приему
	if err := s.eventProducer.PublishMessage(ctx, event.AppointmentID.String(), eventData); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("Failed to publish appointment event")
	}
}

// sendConfirmationEmail публикует письмо о подтверждении приема (best-effort)
func (s *AppointmentService) sendConfirmationEmail(ctx context.Context, appointment *entity.Appointment, authToken string) {
	user, err := s.authClient.GetUser(ctx, appointment.PatientUsername, authToken)
	if err != nil {
		logger.Warn().Err(err).Str("username", appointment.PatientUsername).Msg("Failed to resolve patient email for confirmation")
		return
	}

	serviceName := "dental appointment"
	if appointment.Service != nil {
		serviceName = appointment.Service.Name
	}

	msg := entity.EmailMessage{
		To:      user.Email,
		Subject: "Your appointment is confirmed",
		Body: fmt.Sprintf("Your %s on %s has been confirmed. See you at the clinic!",
			serviceName, appointment.ScheduledAt.Format("02 Jan 2006 15:04")),
		Kind: entity.EmailKindAppointmentConfirmed,
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal confirmation email")
		return
	}

	if err := s.emailProducer.PublishMessage(ctx, user.Email, msgData); err != nil {
		logger.Warn().Err(err).Str("email", user.Email).Msg("Failed to publish confirmation email")
	}
}

// isValidStatusTransition проверяет допустимость смены статуса приема
func isValidStatusTransition(from, to entity.AppointmentStatus) bool {
	validTransitions := map[entity.AppointmentStatus][]entity.AppointmentStatus{
		entity.AppointmentStatusPending: {
			entity.AppointmentStatusConfirmed,
			entity.AppointmentStatusCompleted,
			entity.AppointmentStatusCancelled,
		},
		entity.AppointmentStatusConfirmed: {
			entity.AppointmentStatusCompleted,
			entity.AppointmentStatusCancelled,
		},
		entity.AppointmentStatusCompleted: {}, // Финальный статус
		entity.AppointmentStatusCancelled: {}, // Финальный статус
	}

	allowedStatuses, exists := validTransitions[from]
	if !exists {
		return false
	}

	for _, status := range allowedStatuses {
		if status == to {
			return true
		}
	}

	return false
}
