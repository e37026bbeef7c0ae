package patients

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepository_FindByPhone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	visit := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, name, phone, first_visit FROM patients WHERE phone").
		WithArgs("08012345678").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "phone", "first_visit"}).
			AddRow(int64(7), "John Doe", "08012345678", &visit))

	repo := newPostgresRepositoryWithDB(mock)
	p, err := repo.FindByPhone(context.Background(), "08012345678")
	require.NoError(t, err)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "John Doe", p.Name)
	require.NotNil(t, p.FirstVisit)
	assert.True(t, p.FirstVisit.Equal(visit))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_FindByPhoneMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, phone, first_visit FROM patients WHERE phone").
		WithArgs("08099999999").
		WillReturnError(pgx.ErrNoRows)

	repo := newPostgresRepositoryWithDB(mock)
	_, err = repo.FindByPhone(context.Background(), "08099999999")
	assert.ErrorIs(t, err, ErrPatientNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO patients").
		WithArgs("Ada Obi", "08034567890", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))

	repo := newPostgresRepositoryWithDB(mock)
	p, err := repo.Create(context.Background(), &CreatePatientRequest{Name: "Ada Obi", Phone: "08034567890"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
	require.NotNil(t, p.FirstVisit)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("INSERT INTO patients").
		WithArgs("Ada Obi", "08034567890", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation})

	repo := newPostgresRepositoryWithDB(mock)
	_, err = repo.Create(context.Background(), &CreatePatientRequest{Name: "Ada Obi", Phone: "08034567890"})
	assert.ErrorIs(t, err, ErrDuplicatePhone)
}
