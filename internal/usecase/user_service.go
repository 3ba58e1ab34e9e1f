package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/strideleague/strideleague/internal/domain/store"
	"github.com/strideleague/strideleague/internal/domain/user"
	idgen "github.com/strideleague/strideleague/internal/platform/id"
	"github.com/strideleague/strideleague/internal/platform/logging"
)

// UserService registers the identities the engine references. Hosts that
// manage users elsewhere can seed the users table directly and skip it.
type UserService struct {
	store  store.Store
	ids    idgen.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewUserService(st store.Store, ids idgen.Generator, logger *logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{store: st, ids: ids, logger: logger, now: time.Now}
}

// RegisterUser creates a user record. An empty id gets a generated one; a
// caller-supplied id that already exists is a conflict.
func (s *UserService) RegisterUser(ctx context.Context, id, displayName string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.RegisterUser")
	defer span.End()

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return user.User{}, fmt.Errorf("%w: display name is required", ErrInvalidInput)
	}

	id = strings.TrimSpace(id)
	if id == "" {
		generated, err := s.ids.NewID()
		if err != nil {
			return user.User{}, err
		}
		id = generated
	}

	u := user.User{
		ID:          id,
		DisplayName: displayName,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		return user.User{}, markStoreErr(err)
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// GetUser looks a user up by id.
func (s *UserService) GetUser(ctx context.Context, id string) (user.User, error) {
	u, ok, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return user.User{}, markStoreErr(err)
	}
	if !ok {
		return user.User{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return u, nil
}
