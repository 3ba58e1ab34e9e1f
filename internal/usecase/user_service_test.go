package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterUser_GeneratesIDWhenEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.eng.Users.RegisterUser(ctx, "", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "Alice", u.DisplayName)

	got, err := f.eng.Users.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestRegisterUser_CallerSuppliedIDConflictsOnReuse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.eng.Users.RegisterUser(ctx, "alice", "Alice")
	require.NoError(t, err)

	_, err = f.eng.Users.RegisterUser(ctx, "alice", "Imposter")
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterUser_RequiresDisplayName(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Users.RegisterUser(context.Background(), "alice", "   ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetUser_Missing(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.Users.GetUser(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}
