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

// DentistRepositoryTestSuite тестовый suite для PostgreSQL repository
type DentistRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  DentistRepository
	sqlDB *sql.DB
}

func TestDentistRepositorySuite(t *testing.T) {
	suite.Run(t, new(DentistRepositoryTestSuite))
}

func (s *DentistRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewDentistRepository(s.db)
}

func (s *DentistRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

// ===================== GetByID Tests =====================

func (s *DentistRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	dentistID := uuid.New()
	createdAt := time.Now()

	rows := sqlmock.NewRows([]string{"id", "username", "full_name", "specialty", "bio", "created_at", "updated_at"}).
		AddRow(dentistID, "dr_orlova", "Dr. Anna Orlova", "Orthodontist", "", createdAt, createdAt)

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dentists" WHERE id = $1`)).
		WithArgs(dentistID).
		WillReturnRows(rows)

	dentist, err := s.repo.GetByID(ctx, dentistID)

	s.NoError(err)
	s.NotNil(dentist)
	s.Equal(dentistID, dentist.ID)
	s.Equal("dr_orlova", dentist.Username)
	s.Equal("Orthodontist", dentist.Specialty)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *DentistRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	dentistID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dentists" WHERE id = $1`)).
		WithArgs(dentistID).
		WillReturnError(gorm.ErrRecordNotFound)

	dentist, err := s.repo.GetByID(ctx, dentistID)

	s.Error(err)
	s.Nil(dentist)
	s.ErrorIs(err, ErrDentistNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByUsername Tests =====================

func (s *DentistRepositoryTestSuite) TestGetByUsername_Success() {
	ctx := context.Background()
	dentistID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "username", "full_name", "specialty"}).
		AddRow(dentistID, "dr_orlova", "Dr. Anna Orlova", "Orthodontist")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dentists" WHERE username = $1`)).
		WithArgs("dr_orlova").
		WillReturnRows(rows)

	dentist, err := s.repo.GetByUsername(ctx, "dr_orlova")

	s.NoError(err)
	s.Equal(dentistID, dentist.ID)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== List Tests =====================

func (s *DentistRepositoryTestSuite) TestList_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "username", "full_name", "specialty"}).
		AddRow(uuid.New(), "dr_orlova", "Dr. Anna Orlova", "Orthodontist").
		AddRow(uuid.New(), "dr_petrov", "Dr. Petrov", "Surgeon")

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "dentists" ORDER BY full_name`)).
		WillReturnRows(rows)

	dentists, err := s.repo.List(ctx)

	s.NoError(err)
	s.Len(dentists, 2)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *DentistRepositoryTestSuite) TestUpdate_Success() {
	ctx := context.Background()

	dentist := &entity.Dentist{
		ID:        uuid.New(),
		Username:  "dr_orlova",
		FullName:  "Dr. Anna Orlova",
		Specialty: "Implantologist",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dentists" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Update(ctx, dentist)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *DentistRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	dentist := &entity.Dentist{
		ID:        uuid.New(),
		Username:  "dr_ghost",
		FullName:  "Dr. Ghost",
		Specialty: "Unknown",
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "dentists" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectCommit()

	err := s.repo.Update(ctx, dentist)

	s.ErrorIs(err, ErrDentistNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *DentistRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()
	dentistID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "dentists" WHERE id = $1`)).
		WithArgs(dentistID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	err := s.repo.Delete(ctx, dentistID)

	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *DentistRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	dentistID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "dentists" WHERE id = $1`)).
		WithArgs(dentistID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	err := s.repo.Delete(ctx, dentistID)

	s.ErrorIs(err, ErrDentistNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}
