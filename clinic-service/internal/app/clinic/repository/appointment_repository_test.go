package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AppointmentRepositoryTestSuite тестовый suite для PostgreSQL repository
type AppointmentRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  AppointmentRepository
	sqlDB *sql.DB
}

func TestAppointmentRepositorySuite(t *testing.T) {
	suite.Run(t, new(AppointmentRepositoryTestSuite))
}

func (s *AppointmentRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewAppointmentRepository(s.db)
}

func (s *AppointmentRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== Create Tests =====================

func (s *AppointmentRepositoryTestSuite) TestCreate_Success() {
	ctx := context.Background()

	appointment := &entity.Appointment{
		ID:                   uuid.New(),
		PatientUsername:      "ivan",
		ReceptionistUsername: "front_desk",
		DentistID:            uuid.New(),
		ServiceID:            uuid.New(),
		ScheduledAt:          time.Now().Add(24 * time.Hour),
		Status:               entity.AppointmentStatusPending,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "appointments"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Create(ctx, appointment)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AppointmentRepositoryTestSuite) TestCreate_DBError() {
	ctx := context.Background()

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientUsername: "ivan",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		Status:          entity.AppointmentStatusPending,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "appointments"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	err := s.repo.Create(ctx, appointment)

	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *AppointmentRepositoryTestSuite) TestUpdate_Success() {
	ctx := context.Background()

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientUsername: "ivan",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		ScheduledAt:     time.Now().Add(24 * time.Hour),
		Status:          entity.AppointmentStatusConfirmed,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Update(ctx, appointment)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AppointmentRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	appointment := &entity.Appointment{
		ID:              uuid.New(),
		PatientUsername: "ivan",
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		Status:          entity.AppointmentStatusConfirmed,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectCommit()

	err := s.repo.Update(ctx, appointment)

	s.ErrorIs(err, ErrAppointmentNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== ListForReminder Tests =====================

func (s *AppointmentRepositoryTestSuite) TestListForReminder_FiltersByStatusAndWindow() {
	ctx := context.Background()
	from := time.Now()
	to := from.Add(24 * time.Hour)

	rows := sqlmock.NewRows([]string{"id", "patient_username", "dentist_id", "service_id", "scheduled_at", "status", "reminder_sent"})

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "appointments" WHERE status = $1 AND reminder_sent = $2`)).
		WithArgs(string(entity.AppointmentStatusConfirmed), false, from, to).
		WillReturnRows(rows)

	appointments, err := s.repo.ListForReminder(ctx, from, to)

	s.NoError(err)
	s.Empty(appointments)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== MarkReminderSent Tests =====================

func (s *AppointmentRepositoryTestSuite) TestMarkReminderSent_Success() {
	ctx := context.Background()
	appointmentID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.MarkReminderSent(ctx, appointmentID)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AppointmentRepositoryTestSuite) TestMarkReminderSent_NotFound() {
	ctx := context.Background()
	appointmentID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "appointments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.MarkReminderSent(ctx, appointmentID)

	s.ErrorIs(err, ErrAppointmentNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}
