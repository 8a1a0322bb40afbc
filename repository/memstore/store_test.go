package memstore

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs/tables"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := New()

	boom := errors.New("boom")
	err := store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		require.NoError(t, store.Categories.Create(ctx, &tables.Category{Name: "Gowns", Slug: "gowns"}))
		return store.Tx.RunInTx(ctx, func(ctx context.Context) error {
			require.NoError(t, store.Categories.Create(ctx, &tables.Category{Name: "Dresses", Slug: "dresses"}))
			return boom
		})
	})
	assert.ErrorIs(t, err, boom)

	all, err := store.Categories.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "nested work is undone with the outer transaction")

	require.NoError(t, store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		return store.Categories.Create(ctx, &tables.Category{Name: "Gowns", Slug: "gowns"})
	}))
	found, err := store.Categories.FindBySlug(ctx, "gowns")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(1), found.ID)
}

func TestCategoryConstraints(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Categories.Create(ctx, &tables.Category{Name: "Gowns", Slug: "gowns"}))
	err := store.Categories.Create(ctx, &tables.Category{Name: "gowns", Slug: "gowns-2"})
	assert.True(t, lib.IsConflict(err), "names are unique ignoring case")

	missing, err := store.Categories.FindByID(ctx, 42)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	err = store.ItemCategories.Link(ctx, 99, 1)
	assert.True(t, lib.IsNotFound(err))
}

func TestPage(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	got, total := page(rows, 2, 2)
	assert.Equal(t, []int{3, 4}, got)
	assert.Equal(t, 5, total)

	got, _ = page(rows, 3, 2)
	assert.Equal(t, []int{5}, got)

	got, _ = page(rows, 9, 2)
	assert.Empty(t, got)
}

func TestWriteOutsideTxSurvivesRollback(t *testing.T) {
	ctx := context.Background()
	store := New()

	inTx := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.Tx.RunInTx(ctx, func(ctx context.Context) error {
			close(inTx)
			<-release
			return errors.New("unrelated failure")
		})
	}()
	<-inTx

	writeDone := make(chan error, 1)
	go func() {
		writeDone <- store.Categories.Create(ctx, &tables.Category{Name: "Gowns", Slug: "gowns"})
	}()
	close(release)

	require.Error(t, <-txDone)
	require.NoError(t, <-writeDone)

	found, err := store.Categories.FindBySlug(ctx, "gowns")
	require.NoError(t, err)
	assert.NotNil(t, found, "a write committed outside the transaction is kept")
}

func TestHelpfulVotesFollowRatingAndUser(t *testing.T) {
	ctx := context.Background()
	store := New()

	require.NoError(t, store.Users.Create(ctx, &tables.User{Email: "author@example.com"}))
	require.NoError(t, store.Users.Create(ctx, &tables.User{Email: "reader@example.com"}))
	require.NoError(t, store.Items.Create(ctx, &tables.Item{Name: "Silk Gown"}))
	rating := &tables.ItemRating{ItemID: 1, UserID: 1, Rating: 5}
	require.NoError(t, store.Ratings.Create(ctx, rating))

	require.NoError(t, store.HelpfulVotes.Add(ctx, rating.ID, 2))
	assert.True(t, lib.IsConflict(store.HelpfulVotes.Add(ctx, rating.ID, 2)))
	assert.True(t, lib.IsNotFound(store.HelpfulVotes.Add(ctx, 42, 2)))

	require.NoError(t, store.Users.Create(ctx, &tables.User{Email: "critic@example.com"}))
	require.NoError(t, store.HelpfulVotes.Add(ctx, rating.ID, 3))

	db := store.Tx.(*memDB)
	votes := func() int {
		n := 0
		db.read(func(s *state) { n = len(s.helpfulVotes) })
		return n
	}
	assert.Equal(t, 2, votes())

	require.NoError(t, store.Users.Delete(ctx, 2))
	assert.Equal(t, 1, votes(), "a deleted user's votes go with them")

	require.NoError(t, store.Ratings.Delete(ctx, rating.ID))
	assert.Zero(t, votes(), "votes go with their rating")
	assert.True(t, lib.IsNotFound(store.HelpfulVotes.Add(ctx, rating.ID, 3)))
}
