package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeAggregates(t *testing.T) {
	average, total := RecomputeAggregates(nil)
	assert.Zero(t, average)
	assert.Zero(t, total)

	average, total = RecomputeAggregates([]tables.ItemRating{{Rating: 5}, {Rating: 4}, {Rating: 4}})
	assert.InDelta(t, 13.0/3.0, average, 1e-9)
	assert.Equal(t, 3, total)
}

func actor(id int64, role structs.UserRole) *structs.AuthClaims {
	return &structs.AuthClaims{Sub: id, Role: role}
}

func assertAggregates(t *testing.T, sm *ServiceManager, itemID int64, average float64, total int) {
	t.Helper()
	item, err := sm.ItemService.GetByID(context.Background(), itemID)
	require.NoError(t, err)
	assert.InDelta(t, average, item.AverageRating, 1e-9)
	assert.Equal(t, total, item.TotalRatings)
}

func TestRatingService_AggregatesFollowRatings(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Pearl Gown", "gowns", nil)
	alice := mustUser(t, sm, "alice@example.com")
	bob := mustUser(t, sm, "bob@example.com")

	first, err := sm.RatingService.Create(ctx, alice.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 5, Title: " Lovely "})
	require.NoError(t, err)
	assert.Equal(t, "Lovely", first.Title)
	assert.Equal(t, "Test", first.UserFirstName)

	second, err := sm.RatingService.Create(ctx, bob.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 2})
	require.NoError(t, err)
	assertAggregates(t, sm, item.ID, 3.5, 2)

	_, err = sm.RatingService.Create(ctx, alice.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 1})
	assert.True(t, lib.IsConflict(err))
	assertAggregates(t, sm, item.ID, 3.5, 2)

	_, err = sm.RatingService.Update(ctx, actor(alice.ID, structs.RoleCustomer), second.ID, &structs.ItemRatingUpdateRequest{Rating: 1})
	assert.True(t, lib.IsUnauthorized(err))

	_, err = sm.RatingService.Update(ctx, actor(bob.ID, structs.RoleCustomer), second.ID, &structs.ItemRatingUpdateRequest{Rating: 4})
	require.NoError(t, err)
	assertAggregates(t, sm, item.ID, 4.5, 2)

	breakdown, err := sm.RatingService.Breakdown(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, breakdown.FiveStars)
	assert.Equal(t, 1, breakdown.FourStars)
	assert.Zero(t, breakdown.OneStar)
	assert.Equal(t, 2, breakdown.TotalRatings)

	assert.True(t, lib.IsUnauthorized(sm.RatingService.Delete(ctx, first.ID, bob.ID)))

	require.NoError(t, sm.RatingService.Delete(ctx, first.ID, alice.ID))
	assertAggregates(t, sm, item.ID, 4, 1)

	require.NoError(t, sm.RatingService.Delete(ctx, second.ID, bob.ID))
	assertAggregates(t, sm, item.ID, 0, 0)
}

func TestRatingService_CreateValidates(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Jade Gown", "gowns", nil)
	user := mustUser(t, sm, "carol@example.com")

	_, err := sm.RatingService.Create(ctx, user.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 6})
	assert.True(t, lib.IsInvalidInput(err))

	_, err = sm.RatingService.Create(ctx, user.ID, &structs.ItemRatingCreateRequest{ItemID: 999, Rating: 3})
	assert.True(t, lib.IsNotFound(err))

	_, err = sm.RatingService.Create(ctx, 999, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 3})
	assert.True(t, lib.IsNotFound(err))

	assertAggregates(t, sm, item.ID, 0, 0)
}

func TestRatingService_ListingAndHelpful(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	first := mustItem(t, sm, "Amber Gown", "gowns", nil)
	second := mustItem(t, sm, "Coral Gown", "gowns", nil)
	user := mustUser(t, sm, "dana@example.com")

	rating, err := sm.RatingService.Create(ctx, user.ID, &structs.ItemRatingCreateRequest{ItemID: first.ID, Rating: 4})
	require.NoError(t, err)
	_, err = sm.RatingService.Create(ctx, user.ID, &structs.ItemRatingCreateRequest{ItemID: second.ID, Rating: 3})
	require.NoError(t, err)

	mine, err := sm.RatingService.GetByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	forItem, err := sm.RatingService.GetByItem(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, forItem, 1)
	assert.Equal(t, rating.ID, forItem[0].ID)

	voted, err := sm.RatingService.MarkHelpful(ctx, rating.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulVotes)

	_, err = sm.RatingService.MarkHelpful(ctx, 999, user.ID)
	assert.True(t, lib.IsNotFound(err))

	require.NoError(t, sm.ItemService.Delete(ctx, first.ID))
	_, err = sm.RatingService.GetByID(ctx, rating.ID)
	assert.True(t, lib.IsNotFound(err), "ratings go with their item")
}

func TestRatingService_AdminCanModerate(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Ivory Gown", "gowns", nil)
	author := mustUser(t, sm, "erin@example.com")

	rating, err := sm.RatingService.Create(ctx, author.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 5, ReviewText: "rude words"})
	require.NoError(t, err)

	moderated, err := sm.RatingService.Update(ctx, actor(author.ID+100, structs.RoleAdmin), rating.ID, &structs.ItemRatingUpdateRequest{
		Rating:     5,
		ReviewText: ptr("[removed by moderator]"),
	})
	require.NoError(t, err)
	assert.Equal(t, "[removed by moderator]", moderated.ReviewText)
	assert.Equal(t, author.ID, moderated.UserID, "moderation keeps the author")

	_, err = sm.RatingService.Update(ctx, nil, rating.ID, &structs.ItemRatingUpdateRequest{Rating: 1})
	assert.True(t, lib.IsUnauthorized(err))
	assertAggregates(t, sm, item.ID, 5, 1)
}

func TestRatingService_HelpfulOncePerUser(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Onyx Gown", "gowns", nil)
	author := mustUser(t, sm, "fay@example.com")
	reader := mustUser(t, sm, "gus@example.com")
	other := mustUser(t, sm, "hal@example.com")

	rating, err := sm.RatingService.Create(ctx, author.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 4})
	require.NoError(t, err)

	voted, err := sm.RatingService.MarkHelpful(ctx, rating.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, voted.HelpfulVotes)

	_, err = sm.RatingService.MarkHelpful(ctx, rating.ID, reader.ID)
	assert.True(t, lib.IsConflict(err))

	voted, err = sm.RatingService.MarkHelpful(ctx, rating.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, voted.HelpfulVotes)

	stored, err := sm.RatingService.GetByID(ctx, rating.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.HelpfulVotes, "the rejected vote left no trace")

	_, err = sm.RatingService.MarkHelpful(ctx, rating.ID, 999)
	assert.True(t, lib.IsNotFound(err))
}
