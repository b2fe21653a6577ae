package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReminderService мок для service.ReminderServiceInterface
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) SendDueReminders(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestNewCronScheduler(t *testing.T) {
	mockSvc := new(MockReminderService)

	scheduler := NewCronScheduler(mockSvc)

	assert.NotNil(t, scheduler)
	assert.NotNil(t, scheduler.cron)
	assert.Empty(t, scheduler.GetEntries())
}

func TestCronScheduler_Start_Success(t *testing.T) {
	mockSvc := new(MockReminderService)
	scheduler := NewCronScheduler(mockSvc)

	// Initial run при старте
	mockSvc.On("SendDueReminders", mock.Anything).Return(nil)

	err := scheduler.Start(context.Background(), "0 9 * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
	mockSvc.AssertExpectations(t)
}

func TestCronScheduler_Start_InvalidSchedule(t *testing.T) {
	mockSvc := new(MockReminderService)
	scheduler := NewCronScheduler(mockSvc)

	err := scheduler.Start(context.Background(), "invalid cron expression")

	assert.Error(t, err)
}

func TestCronScheduler_Start_InitialRunError_ContinuesWork(t *testing.T) {
	mockSvc := new(MockReminderService)
	scheduler := NewCronScheduler(mockSvc)

	// Первый прогон падает, но планировщик продолжает работать
	mockSvc.On("SendDueReminders", mock.Anything).Return(errors.New("db unavailable"))

	err := scheduler.Start(context.Background(), "0 9 * * *")

	assert.NoError(t, err)
	assert.Len(t, scheduler.GetEntries(), 1)

	scheduler.Stop()
}

func TestCronScheduler_JobExecution(t *testing.T) {
	mockSvc := new(MockReminderService)
	scheduler := NewCronScheduler(mockSvc)

	mockSvc.On("SendDueReminders", mock.Anything).Return(nil)

	// @every для быстрого теста
	err := scheduler.Start(context.Background(), "@every 100ms")
	assert.NoError(t, err)

	time.Sleep(350 * time.Millisecond)

	scheduler.Stop()

	// Минимум 2 вызова: initial + cron triggers
	assert.GreaterOrEqual(t, len(mockSvc.Calls), 2)
}
