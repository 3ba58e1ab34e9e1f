package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.s.q().NamedExecContext(ctx,
		`INSERT INTO users (id, display_name, created_at)
		 VALUES (:id, :display_name, :created_at)`, userToRow(u))
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	var row userRow
	err := r.s.q().GetContext(ctx, &row,
		`SELECT id, display_name, created_at FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return user.User{}, false, nil
	}
	if err != nil {
		return user.User{}, false, mapError(err)
	}
	return row.toDomain(), true, nil
}
