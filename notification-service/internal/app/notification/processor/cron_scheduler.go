package processor

import (
	"context"

	"dentalcare/notification-service/internal/app/notification/service"
	"dentalcare/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronScheduler запускает рассылку напоминаний о приемах по расписанию
type CronScheduler struct {
	cron        *cron.Cron
	reminderSvc service.ReminderServiceInterface
}

// NewCronScheduler создает новый планировщик
func NewCronScheduler(reminderSvc service.ReminderServiceInterface) *CronScheduler {
	return &CronScheduler{
		cron:        cron.New(),
		reminderSvc: reminderSvc,
	}
}

// Start регистрирует задачу рассылки и запускает планировщик.
// Первая рассылка выполняется сразу, чтобы подхватить пропущенные
// напоминания после перезапуска сервиса.
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Info().Msg("Cron job triggered: sending appointment reminders")

		if err := s.reminderSvc.SendDueReminders(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to send appointment reminders")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	if err := s.reminderSvc.SendDueReminders(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial reminder run failed")
	}

	return nil
}

// Stop останавливает планировщик и дожидается завершения задач
func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

// GetEntries возвращает зарегистрированные задачи
func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
