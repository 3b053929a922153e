package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func TestAddFriend(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.AddFriend(ctx, f.alice, f.bob, false))

	friends, err := f.ledger.Friends(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, "bob", friends[0].Name)

	reverse, err := f.ledger.Friends(ctx, f.bob)
	require.NoError(t, err)
	assert.Empty(t, reverse, "edges are directed")

	assert.ErrorIs(t, f.ledger.AddFriend(ctx, f.alice, f.bob, false), ErrConflict)
}

func TestAddFriend_Mutual(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.ledger.AddFriend(ctx, f.alice, f.carol, true))

	for _, pair := range [][2]int64{{f.alice, f.carol}, {f.carol, f.alice}} {
		friends, err := f.ledger.Friends(ctx, pair[0])
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, pair[1], friends[0].ID)
	}

	require.NoError(t, f.ledger.RemoveFriend(ctx, f.alice, f.carol, true))
	friends, err := f.ledger.Friends(ctx, f.carol)
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestAddFriend_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.ledger.AddFriend(ctx, f.alice, f.alice, false), ErrValidation)
	assert.ErrorIs(t, f.ledger.AddFriend(ctx, 0, f.alice, false), ErrValidation)
	assert.ErrorIs(t, f.ledger.AddFriend(ctx, f.alice, 999, false), ErrNotFound)
}

func TestRemoveFriend_Missing(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.ledger.RemoveFriend(context.Background(), f.alice, f.bob, false), ErrNotFound)
}

func TestDirectory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.ledger.GetUser(ctx, f.bob)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)

	_, err = f.ledger.GetUser(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := f.ledger.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	found, err := f.ledger.SearchUsers(ctx, "CAR")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, f.carol, found[0].ID)

	_, err = f.ledger.SearchUsers(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCategories(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.ledger.AddCategory(ctx, " Rent ")
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = f.ledger.AddCategory(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	categories, err := f.ledger.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Rent", categories[1].Name)
}

func TestAddFeedback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.ledger.AddFeedback(ctx, models.Feedback{
		Name: "Dana", Email: "dana@example.com", Phone: "555-0100", Message: "Love it",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = f.ledger.AddFeedback(ctx, models.Feedback{Email: "not-an-email", Message: "hi"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.ledger.AddFeedback(ctx, models.Feedback{Email: "dana@example.com"})
	assert.ErrorIs(t, err, ErrValidation)
}
