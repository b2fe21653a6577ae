package service

import (
	"context"
	"fmt"
	"time"

	"dentalcare/notification-service/internal/app/notification/entity"
	"dentalcare/notification-service/internal/app/notification/repository"
	"dentalcare/pkg/logger"
	"dentalcare/pkg/metrics"
)

// ReminderServiceInterface определяет интерфейс рассылки напоминаний
type ReminderServiceInterface interface {
	// SendDueReminders рассылает напоминания по завтрашним подтвержденным приемам
	SendDueReminders(ctx context.Context) error
}

// ReminderService рассылает напоминания о приемах на следующий день.
// Прием получает напоминание один раз: после успешной отправки он
// помечается reminder_sent, ошибки отправки не помечают прием и
// будут повторены следующим запуском.
type ReminderService struct {
	appointmentRepo repository.AppointmentRepository
	authClient      AuthServiceClient
	sender          EmailSender
	now             func() time.Time
}

// NewReminderService создает новый сервис напоминаний
func NewReminderService(
	appointmentRepo repository.AppointmentRepository,
	authClient AuthServiceClient,
	sender EmailSender,
) *ReminderService {
	return &ReminderService{
		appointmentRepo: appointmentRepo,
		authClient:      authClient,
		sender:          sender,
		now:             time.Now,
	}
}

// SendDueReminders обрабатывает все приемы завтрашнего дня.
// Ошибка по одному приему не прерывает рассылку остальных.
func (s *ReminderService) SendDueReminders(ctx context.Context) error {
	from, to := tomorrowWindow(s.now())

	appointments, err := s.appointmentRepo.ListForReminder(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to load appointments for reminders: %w", err)
	}

	if len(appointments) == 0 {
		logger.Info().Msg("No appointment reminders due")
		return nil
	}

	sent := 0
	for _, appointment := range appointments {
		if err := s.sendReminder(ctx, appointment); err != nil {
			logger.Error().Err(err).
				Str("appointment_id", appointment.ID.String()).
				Str("patient", appointment.PatientUsername).
				Msg("Failed to send appointment reminder")
			continue
		}
		sent++
	}

	logger.Info().
		Int("due", len(appointments)).
		Int("sent", sent).
		Msg("Appointment reminders dispatched")

	return nil
}

func (s *ReminderService) sendReminder(ctx context.Context, appointment *entity.Appointment) error {
	user, err := s.authClient.GetUser(ctx, appointment.PatientUsername)
	if err != nil {
		return fmt.Errorf("failed to resolve patient email: %w", err)
	}

	msg := &entity.EmailMessage{
		To:      user.Email,
		Subject: "Appointment reminder",
		Body:    reminderBody(appointment),
		Kind:    entity.EmailKindAppointmentReminder,
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		return err
	}

	// Помечаем только после успешной отправки
	if err := s.appointmentRepo.MarkReminderSent(ctx, appointment.ID); err != nil {
		return fmt.Errorf("reminder sent but not marked: %w", err)
	}

	metrics.RemindersScheduled.Inc()
	return nil
}

// reminderBody собирает текст напоминания из данных приема
func reminderBody(appointment *entity.Appointment) string {
	when := appointment.ScheduledAt.Format("Monday, 2 January 2006 at 15:04")

	body := fmt.Sprintf("You have a dental appointment scheduled for %s.", when)
	if appointment.Service != nil {
		body += fmt.Sprintf("\nService: %s (%d min).", appointment.Service.Name, appointment.Service.DurationMin)
	}
	if appointment.Dentist != nil {
		body += fmt.Sprintf("\nDentist: %s, %s.", appointment.Dentist.FullName, appointment.Dentist.Specialty)
	}
	body += "\n\nIf you cannot attend, please cancel the appointment in advance."

	return body
}

// tomorrowWindow возвращает границы завтрашнего дня [00:00, 00:00+24h)
func tomorrowWindow(now time.Time) (time.Time, time.Time) {
	year, month, day := now.Date()
	from := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return from, from.AddDate(0, 0, 1)
}
