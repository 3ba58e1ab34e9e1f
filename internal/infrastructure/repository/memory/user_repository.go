package memory

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func (r *userRepository) Create(_ context.Context, u user.User) error {
	defer r.s.write()()

	if _, exists := r.s.st.users[u.ID]; exists {
		return errors.Mark(fmt.Errorf("user %s already exists", u.ID), store.ErrConflict)
	}
	r.s.st.users[u.ID] = u
	return nil
}

func (r *userRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	defer r.s.read()()

	u, ok := r.s.st.users[userID]
	if !ok {
		return user.User{}, false, nil
	}
	return u, true, nil
}
