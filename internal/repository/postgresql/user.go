package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

const userColumns = `id, name, email, roles, is_active, deleted_at, created_at, updated_at`

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u     user.User
		roles []string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &roles, &u.IsActive, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return user.User{}, err
	}
	u.Roles = make([]user.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, user.Role(r))
	}
	return u, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// ListActiveEmployees implements user.UserRepository.
func (r *userRepositoryImpl) ListActiveEmployees(ctx context.Context, userID *string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL
		  AND is_active = true
		  AND $1 = ANY(roles)`
	args := []interface{}{string(user.RoleEmployee)}

	if userID != nil {
		query += ` AND id = $2`
		args = append(args, *userID)
	}
	query += ` ORDER BY name, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
