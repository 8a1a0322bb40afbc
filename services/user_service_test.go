package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Create(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user, err := sm.UserService.Create(ctx, &structs.UserCreateRequest{
		Email:     "  Jane@Example.COM ",
		Locale:    "EN",
		FirstName: " Jane ",
		Addresses: []structs.AddressEmbedRequest{homeAddress("1 Elm St")},
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, structs.RoleCustomer, user.Role)
	assert.Equal(t, "en", user.Locale)
	assert.Equal(t, "Jane", user.FirstName)
	require.Len(t, user.Addresses, 1)
	assert.Equal(t, user.ID, user.Addresses[0].UserID)

	_, err = sm.UserService.Create(ctx, &structs.UserCreateRequest{Email: "JANE@example.com", Locale: "en"})
	assert.True(t, lib.IsConflict(err))

	_, err = sm.UserService.Create(ctx, &structs.UserCreateRequest{Email: "bad-locale@example.com", Locale: "eng"})
	assert.True(t, lib.IsInvalidInput(err))

	_, err = sm.UserService.Create(ctx, &structs.UserCreateRequest{Email: "boss@example.com", Locale: "en", Role: "OWNER"})
	assert.True(t, lib.IsInvalidInput(err))

	found, err := sm.UserService.GetByEmail(ctx, "jane@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserService_CreateIsAtomic(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	_, err := sm.UserService.Create(ctx, &structs.UserCreateRequest{
		Email:     "twice@example.com",
		Locale:    "en",
		Addresses: []structs.AddressEmbedRequest{homeAddress("9 Main St"), homeAddress("9 Main St")},
	})
	assert.True(t, lib.IsConflict(err))

	_, err = sm.UserService.GetByEmail(ctx, "twice@example.com")
	assert.True(t, lib.IsNotFound(err), "user must not survive a failed address insert")

	page, err := sm.AddressService.GetAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)
}

func TestUserService_UpdateReconcilesAddresses(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user := mustUser(t, sm, "erin@example.com", homeAddress("1 Elm St"), homeAddress("2 Oak Ave"))
	require.Len(t, user.Addresses, 2)
	kept, dropped := user.Addresses[0], user.Addresses[1]

	moved := homeAddress("1 Elm St")
	moved.City = "Austin"
	updated, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{
		LastName: ptr("Stone"),
		Addresses: []structs.UserAddressRequest{
			{ID: &kept.ID, AddressEmbedRequest: moved},
			{AddressEmbedRequest: homeAddress("3 Pine Rd")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Stone", updated.LastName)
	require.Len(t, updated.Addresses, 2)

	lines := map[string]string{}
	for _, a := range updated.Addresses {
		assert.NotEqual(t, dropped.ID, a.ID)
		lines[a.AddressLine1] = a.City
	}
	assert.Equal(t, map[string]string{"1 Elm St": "Austin", "3 Pine Rd": "Dallas"}, lines)

	// a nil list leaves addresses alone
	untouched, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{FirstName: ptr("Erin")})
	require.NoError(t, err)
	assert.Len(t, untouched.Addresses, 2)

	// an empty list removes all of them
	cleared, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{Addresses: []structs.UserAddressRequest{}})
	require.NoError(t, err)
	assert.Empty(t, cleared.Addresses)
}

func TestUserService_UpdateRejectsForeignAddress(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	owner := mustUser(t, sm, "owner@example.com", homeAddress("5 Cedar Ln"))
	other := mustUser(t, sm, "other@example.com", homeAddress("6 Birch Ct"))

	_, err := sm.UserService.Update(ctx, other.ID, &structs.UserUpdateRequest{
		Addresses: []structs.UserAddressRequest{
			{ID: &owner.Addresses[0].ID, AddressEmbedRequest: homeAddress("5 Cedar Ln")},
		},
	})
	assert.True(t, lib.IsUnauthorized(err))

	after, err := sm.UserService.GetByID(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, after.Addresses, 1, "failed reconcile must not delete addresses")
	assert.Equal(t, "6 Birch Ct", after.Addresses[0].AddressLine1)
}

func TestUserService_UpdateEmail(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	mustUser(t, sm, "taken@example.com")
	user := mustUser(t, sm, "frank@example.com")

	_, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{Email: ptr("Taken@example.com")})
	assert.True(t, lib.IsConflict(err))

	updated, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{Email: ptr("Frank.New@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "frank.new@example.com", updated.Email)

	_, err = sm.UserService.Update(ctx, 999, &structs.UserUpdateRequest{FirstName: ptr("Ghost")})
	assert.True(t, lib.IsNotFound(err))
}

func TestUserService_DeleteRecomputesRatedItems(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Opal Gown", "gowns", nil)
	keeper := mustUser(t, sm, "keeper@example.com")
	leaver := mustUser(t, sm, "leaver@example.com", homeAddress("7 Ash Way"))

	_, err := sm.RatingService.Create(ctx, keeper.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 5})
	require.NoError(t, err)
	_, err = sm.RatingService.Create(ctx, leaver.ID, &structs.ItemRatingCreateRequest{ItemID: item.ID, Rating: 1})
	require.NoError(t, err)
	assertAggregates(t, sm, item.ID, 3, 2)

	require.NoError(t, sm.UserService.Delete(ctx, leaver.ID))
	assertAggregates(t, sm, item.ID, 5, 1)

	_, err = sm.UserService.GetByID(ctx, leaver.ID)
	assert.True(t, lib.IsNotFound(err))

	addresses, err := sm.AddressService.GetAll(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, addresses.Pagination.Total)

	assert.True(t, lib.IsNotFound(sm.UserService.Delete(ctx, leaver.ID)))
}

func TestAddressService(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	alice := mustUser(t, sm, "alice@example.com")
	bob := mustUser(t, sm, "bob@example.com")

	address, err := sm.AddressService.Create(ctx, &structs.AddressCreateRequest{UserID: alice.ID, AddressEmbedRequest: homeAddress("10 Elm St")})
	require.NoError(t, err)

	_, err = sm.AddressService.Create(ctx, &structs.AddressCreateRequest{UserID: alice.ID, AddressEmbedRequest: homeAddress("10 Elm St")})
	assert.True(t, lib.IsConflict(err))

	// the tuple is unique per user only
	_, err = sm.AddressService.Create(ctx, &structs.AddressCreateRequest{UserID: bob.ID, AddressEmbedRequest: homeAddress("10 Elm St")})
	require.NoError(t, err)

	_, err = sm.AddressService.Create(ctx, &structs.AddressCreateRequest{UserID: 999, AddressEmbedRequest: homeAddress("11 Elm St")})
	assert.True(t, lib.IsNotFound(err))

	_, err = sm.AddressService.Update(ctx, address.ID, bob.ID, &structs.AddressUpdateRequest{City: ptr("Houston")})
	assert.True(t, lib.IsUnauthorized(err))

	_, err = sm.AddressService.Update(ctx, address.ID, 999, &structs.AddressUpdateRequest{City: ptr("Houston")})
	assert.True(t, lib.IsNotFound(err))

	updated, err := sm.AddressService.Update(ctx, address.ID, alice.ID, &structs.AddressUpdateRequest{
		City:        ptr("Houston"),
		AddressType: ptr(structs.AddressShipping),
	})
	require.NoError(t, err)
	assert.Equal(t, "Houston", updated.City)
	assert.Equal(t, structs.AddressShipping, updated.AddressType)

	_, err = sm.AddressService.Update(ctx, address.ID, alice.ID, &structs.AddressUpdateRequest{PostalCode: ptr("123")})
	assert.True(t, lib.IsInvalidInput(err))

	owned, err := sm.AddressService.GetByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	_, err = sm.AddressService.GetByUser(ctx, 999)
	assert.True(t, lib.IsNotFound(err))

	require.NoError(t, sm.AddressService.Delete(ctx, address.ID))
	assert.True(t, lib.IsNotFound(sm.AddressService.Delete(ctx, address.ID)))
}

func TestUserService_UpdateSwapsAddressTuples(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user := mustUser(t, sm, "swap@example.com", homeAddress("1 Elm St"), homeAddress("2 Oak Ave"))
	require.Len(t, user.Addresses, 2)
	first, second := user.Addresses[0], user.Addresses[1]

	updated, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{
		Addresses: []structs.UserAddressRequest{
			{ID: &first.ID, AddressEmbedRequest: homeAddress(second.AddressLine1)},
			{ID: &second.ID, AddressEmbedRequest: homeAddress(first.AddressLine1)},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Addresses, 2)

	lines := map[int64]string{}
	for _, a := range updated.Addresses {
		lines[a.ID] = a.AddressLine1
	}
	assert.Equal(t, map[int64]string{first.ID: second.AddressLine1, second.ID: first.AddressLine1}, lines)
}

func TestUserService_UpdateRejectsRepeatedTuple(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()

	user := mustUser(t, sm, "twice@example.com", homeAddress("1 Elm St"))
	kept := user.Addresses[0]

	_, err := sm.UserService.Update(ctx, user.ID, &structs.UserUpdateRequest{
		Addresses: []structs.UserAddressRequest{
			{ID: &kept.ID, AddressEmbedRequest: homeAddress("4 Ash Way")},
			{AddressEmbedRequest: homeAddress(" 4 Ash Way ")},
		},
	})
	assert.True(t, lib.IsConflict(err))

	after, err := sm.UserService.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, after.Addresses, 1)
	assert.Equal(t, "1 Elm St", after.Addresses[0].AddressLine1)
}
