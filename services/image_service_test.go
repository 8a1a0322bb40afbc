package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// primaryIDs lists the ids of the item's images flagged primary
func primaryIDs(t *testing.T, sm *ServiceManager, itemID int64) []int64 {
	t.Helper()
	images, err := sm.ImageService.GetByItem(context.Background(), itemID)
	require.NoError(t, err)
	ids := []int64{}
	for _, img := range images {
		if img.IsPrimary {
			ids = append(ids, img.ID)
		}
	}
	return ids
}

func imageRequest(itemID int64, name string) *structs.ItemImageCreateRequest {
	return &structs.ItemImageCreateRequest{ItemID: itemID, URL: "https://cdn.dallasdresses.test/" + name + ".jpg"}
}

func TestItemImageService_SinglePrimary(t *testing.T) {
	ctx := context.Background()
	sm := newTestServices(t)
	mustCategory(t, sm, "Evening Gowns")
	item := mustItem(t, sm, "Silk Gown", "evening-gowns", nil)
	require.Len(t, item.Images, 1)
	first := item.Images[0]
	assert.True(t, first.IsPrimary)

	second, err := sm.ImageService.Create(ctx, imageRequest(item.ID, "second"))
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)
	assert.Equal(t, 1, second.DisplayOrder)

	req := imageRequest(item.ID, "third")
	req.IsPrimary = ptr(true)
	req.DisplayOrder = ptr(5)
	third, err := sm.ImageService.Create(ctx, req)
	require.NoError(t, err)
	assert.True(t, third.IsPrimary)
	assert.Equal(t, []int64{third.ID}, primaryIDs(t, sm, item.ID))

	_, err = sm.ImageService.Update(ctx, first.ID, &structs.ItemImageUpdateRequest{IsPrimary: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, []int64{first.ID}, primaryIDs(t, sm, item.ID))
}

func TestItemImageService_DeletePrimaryPromotesLowestOrder(t *testing.T) {
	ctx := context.Background()
	sm := newTestServices(t)
	mustCategory(t, sm, "Evening Gowns")
	item := mustItem(t, sm, "Silk Gown", "evening-gowns", nil)
	first := item.Images[0]

	late := imageRequest(item.ID, "late")
	late.DisplayOrder = ptr(9)
	lateImg, err := sm.ImageService.Create(ctx, late)
	require.NoError(t, err)

	early := imageRequest(item.ID, "early")
	early.DisplayOrder = ptr(2)
	earlyImg, err := sm.ImageService.Create(ctx, early)
	require.NoError(t, err)

	require.NoError(t, sm.ImageService.Delete(ctx, first.ID))
	assert.Equal(t, []int64{earlyImg.ID}, primaryIDs(t, sm, item.ID))

	// deleting a non-primary image leaves the flag where it is
	require.NoError(t, sm.ImageService.Delete(ctx, lateImg.ID))
	assert.Equal(t, []int64{earlyImg.ID}, primaryIDs(t, sm, item.ID))

	_, err = sm.ImageService.GetByID(ctx, first.ID)
	assert.True(t, lib.IsNotFound(err))
}

func TestItemImageService_UnflagPrimaryHandsOver(t *testing.T) {
	ctx := context.Background()
	sm := newTestServices(t)
	mustCategory(t, sm, "Evening Gowns")
	item := mustItem(t, sm, "Silk Gown", "evening-gowns", nil)
	first := item.Images[0]

	second, err := sm.ImageService.Create(ctx, imageRequest(item.ID, "second"))
	require.NoError(t, err)

	updated, err := sm.ImageService.Update(ctx, first.ID, &structs.ItemImageUpdateRequest{
		IsPrimary: ptr(false),
		AltText:   ptr("front view"),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsPrimary)
	assert.Equal(t, "front view", updated.AltText)
	assert.Equal(t, []int64{second.ID}, primaryIDs(t, sm, item.ID))
}

func TestItemImageService_Errors(t *testing.T) {
	ctx := context.Background()
	sm := newTestServices(t)
	mustCategory(t, sm, "Evening Gowns")
	item := mustItem(t, sm, "Silk Gown", "evening-gowns", nil)

	_, err := sm.ImageService.Create(ctx, imageRequest(999, "orphan"))
	assert.True(t, lib.IsNotFound(err))

	_, err = sm.ImageService.Create(ctx, &structs.ItemImageCreateRequest{ItemID: item.ID})
	assert.True(t, lib.IsInvalidInput(err))

	_, err = sm.ImageService.Update(ctx, item.Images[0].ID, &structs.ItemImageUpdateRequest{URL: ptr("")})
	assert.True(t, lib.IsInvalidInput(err))

	assert.True(t, lib.IsNotFound(sm.ImageService.Delete(ctx, 999)))

	_, err = sm.ImageService.GetByItem(ctx, 999)
	assert.True(t, lib.IsNotFound(err))
}
