package postgresql_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	id := setup.CreateUser(t, "Hana", "hana@example.com", []string{"admin", "employee"}, true)

	u, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hana", u.Name)
	assert.True(t, u.IsAdmin())
	assert.True(t, u.HasRole(user.RoleEmployee))

	_, err = repo.GetByID(ctx, "0190b7a2-3c4d-7e5f-8a9b-0c1d2e3f4a5b")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepository_ListActiveEmployees(t *testing.T) {
	setup := NewTestDatabase(t)
	repo := postgresql.NewUserRepository(setup.DB)
	ctx := context.Background()

	zed := setup.CreateUser(t, "Zed", "zed@example.com", []string{"employee"}, true)
	amy := setup.CreateUser(t, "Amy", "amy@example.com", []string{"employee"}, true)
	setup.CreateUser(t, "Inactive", "inactive@example.com", []string{"employee"}, false)
	setup.CreateUser(t, "Boss", "boss@example.com", []string{"admin"}, true)
	deleted := setup.CreateUser(t, "Gone", "gone@example.com", []string{"employee"}, true)
	_, err := setup.DB.Exec(ctx, `UPDATE users SET deleted_at = NOW() WHERE id = $1`, deleted)
	require.NoError(t, err)

	users, err := repo.ListActiveEmployees(ctx, nil)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, amy, users[0].ID)
	assert.Equal(t, zed, users[1].ID)

	users, err = repo.ListActiveEmployees(ctx, &zed)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Zed", users[0].Name)
}
