package repository_test_test

import (
	"testing"

	"github.com/shin6949/passkey-sample-be/repository/query_repository"
	"github.com/shin6949/passkey-sample-be/repository/repository_test"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestGetByID_SQLMock(t *testing.T) {
	conn, mock := repository_test.SetupMockDB(t)
	rows := sqlmock.NewRows([]string{"uuid", "email", "name", "role", "enabled"}).
		AddRow("0190f5c2-7c1e-7000-8000-000000000001", "test@example.com", "tester", "USER", true)
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE uuid = \$1 ORDER BY "users"\."uuid" LIMIT \$2`).
		WithArgs("0190f5c2-7c1e-7000-8000-000000000001", 1).
		WillReturnRows(rows)

	repo := query_repository.NewUserQueryRepository()
	user, err := repo.GetByID(conn, "0190f5c2-7c1e-7000-8000-000000000001")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "test@example.com", user.Email)
	assert.True(t, user.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
