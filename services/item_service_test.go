package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDiscount(t *testing.T) {
	price := decimal.RequireFromString("100")
	tests := []struct {
		name    string
		price   decimal.Decimal
		kind    structs.DiscountType
		value   *decimal.Decimal
		wantErr bool
	}{
		{"no discount", price, structs.DiscountNone, nil, false},
		{"no discount with zero value", price, structs.DiscountNone, dec("0"), false},
		{"no discount with value", price, structs.DiscountNone, dec("5"), true},
		{"empty type with value", price, "", dec("5"), true},
		{"percentage without value", price, structs.DiscountPercentage, nil, true},
		{"percentage upper bound", price, structs.DiscountPercentage, dec("100"), false},
		{"percentage above bound", price, structs.DiscountPercentage, dec("100.01"), true},
		{"negative percentage", price, structs.DiscountPercentage, dec("-1"), true},
		{"fixed equal to price", price, structs.DiscountFixed, dec("100"), false},
		{"fixed above price", price, structs.DiscountFixed, dec("100.01"), true},
		{"negative price", decimal.RequireFromString("-1"), structs.DiscountNone, nil, true},
		{"unknown type", price, structs.DiscountType("BOGO"), dec("1"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiscount(tt.price, tt.kind, tt.value)
			if tt.wantErr {
				assert.True(t, lib.IsInvalidInput(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		price string
		kind  structs.DiscountType
		value string
		want  string
	}{
		{"100", structs.DiscountNone, "0", "100"},
		{"100", structs.DiscountPercentage, "15", "85"},
		{"100", structs.DiscountFixed, "30", "70"},
		{"19.99", structs.DiscountPercentage, "33", "13.39"},
		{"10", structs.DiscountFixed, "10", "0"},
	}
	for _, tt := range tests {
		got := FinalPrice(decimal.RequireFromString(tt.price), tt.kind, decimal.RequireFromString(tt.value))
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "%s %s %s: got %s", tt.price, tt.kind, tt.value, got)
	}
}

func TestItemService_Create(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Evening Gowns")

	req := itemRequest("Ruby Gown", "200.00", "evening-gowns")
	req.DiscountType = structs.DiscountPercentage
	req.DiscountValue = dec("25")
	req.Images = []structs.ItemImageEmbedRequest{
		{URL: "https://cdn.dallasdresses.test/front.jpg"},
		{URL: "https://cdn.dallasdresses.test/back.jpg", IsPrimary: ptr(true)},
	}

	item, err := sm.ItemService.Create(ctx, req)
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("150").Equal(item.FinalPrice), "got %s", item.FinalPrice)
	require.Len(t, item.Categories, 1)
	assert.Equal(t, "evening-gowns", item.Categories[0].Slug)
	assert.Empty(t, item.Variants)
	assert.Empty(t, item.Children)
	assert.False(t, item.IsParent)
	assert.Zero(t, item.TotalRatings)

	require.Len(t, item.Images, 2)
	primaries := 0
	for _, img := range item.Images {
		if img.IsPrimary {
			primaries++
			assert.Equal(t, "https://cdn.dallasdresses.test/back.jpg", img.URL)
		}
	}
	assert.Equal(t, 1, primaries)

	_, err = sm.ItemService.Create(ctx, req)
	assert.True(t, lib.IsConflict(err), "same name, price and discount")
}

func TestItemService_CreateRollsBackOnMissingCategory(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")

	req := itemRequest("Lonely Gown", "80", "gowns")
	req.CategorySlugs = []string{"gowns", "nowhere"}

	_, err := sm.ItemService.Create(ctx, req)
	assert.True(t, lib.IsNotFound(err))

	page, err := sm.ItemService.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)
}

func TestItemService_CreateRejectsBadInput(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")

	noImages := itemRequest("Bare", "50", "gowns")
	noImages.Images = nil
	_, err := sm.ItemService.Create(ctx, noImages)
	assert.True(t, lib.IsInvalidInput(err))

	badDiscount := itemRequest("Cheap", "50", "gowns")
	badDiscount.DiscountType = structs.DiscountFixed
	badDiscount.DiscountValue = dec("60")
	_, err = sm.ItemService.Create(ctx, badDiscount)
	assert.True(t, lib.IsInvalidInput(err))

	missingParent := itemRequest("Orphan", "50", "gowns")
	missingParent.ParentID = ptr(int64(404))
	_, err = sm.ItemService.Create(ctx, missingParent)
	assert.True(t, lib.IsNotFound(err))
}

func TestItemService_UpdateReplacesCollections(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	mustCategory(t, sm, "Party")

	item := mustItem(t, sm, "Silver Gown", "gowns", nil)

	updated, err := sm.ItemService.Update(ctx, item.ID, &structs.ItemUpdateRequest{
		Stock:         ptr(0),
		CategorySlugs: []string{"party"},
		Images: []structs.ItemImageEmbedRequest{
			{URL: "https://cdn.dallasdresses.test/new-1.jpg"},
			{URL: "https://cdn.dallasdresses.test/new-2.jpg"},
		},
	})
	require.NoError(t, err)
	assert.Zero(t, updated.Stock)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, "party", updated.Categories[0].Slug)
	require.Len(t, updated.Images, 2)
	assert.True(t, updated.Images[0].IsPrimary)
	assert.NotEqual(t, item.Images[0].ID, updated.Images[0].ID)

	// leaving collections out keeps them
	renamed, err := sm.ItemService.Update(ctx, item.ID, &structs.ItemUpdateRequest{Name: ptr("Silver Evening Gown")})
	require.NoError(t, err)
	assert.Len(t, renamed.Images, 2)
	assert.Len(t, renamed.Categories, 1)

	_, err = sm.ItemService.Update(ctx, item.ID, &structs.ItemUpdateRequest{Stock: ptr(-1)})
	assert.True(t, lib.IsInvalidInput(err))
}

func TestItemService_ParentHierarchy(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")

	parent := mustItem(t, sm, "Base Gown", "gowns", nil)
	child := mustItem(t, sm, "Base Gown Blue", "gowns", &parent.ID)
	assert.True(t, child.IsVariant)

	got, err := sm.ItemService.GetByID(ctx, parent.ID)
	require.NoError(t, err)
	assert.True(t, got.IsParent)
	require.Len(t, got.Children, 1)
	assert.Equal(t, child.ID, got.Children[0].ID)

	_, err = sm.ItemService.Update(ctx, parent.ID, &structs.ItemUpdateRequest{ParentID: &parent.ID})
	assert.True(t, lib.IsInvalidInput(err), "self parent")

	_, err = sm.ItemService.Update(ctx, parent.ID, &structs.ItemUpdateRequest{ParentID: &child.ID})
	assert.True(t, lib.IsInvalidInput(err), "cycle")

	_, err = sm.ItemService.AddChild(ctx, child.ID, parent.ID)
	assert.True(t, lib.IsInvalidInput(err), "cycle through AddChild")

	require.NoError(t, sm.ItemService.Delete(ctx, parent.ID))

	orphan, err := sm.ItemService.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.ParentID)
	assert.False(t, orphan.IsVariant)

	_, err = sm.ItemService.GetByID(ctx, parent.ID)
	assert.True(t, lib.IsNotFound(err))
}

func TestItemService_ChildrenAndCategoryLinks(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	mustCategory(t, sm, "Sale")

	parent := mustItem(t, sm, "Rose Gown", "gowns", nil)
	other := mustItem(t, sm, "Rose Gown Pink", "gowns", nil)

	withChild, err := sm.ItemService.AddChild(ctx, parent.ID, other.ID)
	require.NoError(t, err)
	require.Len(t, withChild.Children, 1)

	withoutChild, err := sm.ItemService.RemoveChild(ctx, parent.ID, other.ID)
	require.NoError(t, err)
	assert.Empty(t, withoutChild.Children)

	_, err = sm.ItemService.RemoveChild(ctx, parent.ID, other.ID)
	assert.True(t, lib.IsInvalidInput(err))

	linked, err := sm.ItemService.AddCategory(ctx, parent.ID, "sale")
	require.NoError(t, err)
	assert.Len(t, linked.Categories, 2)

	unlinked, err := sm.ItemService.RemoveCategory(ctx, parent.ID, "sale")
	require.NoError(t, err)
	assert.Len(t, unlinked.Categories, 1)

	_, err = sm.ItemService.AddCategory(ctx, parent.ID, "unknown")
	assert.True(t, lib.IsNotFound(err))
}

func TestItemService_GetAllFilters(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	mustCategory(t, sm, "Casual")

	cheap := itemRequest("Cotton Sundress", "40", "casual")
	_, err := sm.ItemService.Create(ctx, cheap)
	require.NoError(t, err)
	_, err = sm.ItemService.Create(ctx, itemRequest("Velvet Gown", "300", "gowns"))
	require.NoError(t, err)
	_, err = sm.ItemService.Create(ctx, itemRequest("Satin Gown", "150", "gowns"))
	require.NoError(t, err)

	byCategory, err := sm.ItemService.GetByCategorySlug(ctx, "gowns", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, byCategory.Pagination.Total)

	byPrice, err := sm.ItemService.GetAll(ctx, &ItemListOptions{SortBy: "price", SortDirection: "asc"})
	require.NoError(t, err)
	require.Len(t, byPrice.Data, 3)
	assert.Equal(t, "Cotton Sundress", byPrice.Data[0].Name)
	assert.Equal(t, "Velvet Gown", byPrice.Data[2].Name)

	searched, err := sm.ItemService.GetAll(ctx, &ItemListOptions{SearchTerm: "satin"})
	require.NoError(t, err)
	require.Len(t, searched.Data, 1)
	assert.Equal(t, "Satin Gown", searched.Data[0].Name)

	ranged, err := sm.ItemService.GetAll(ctx, &ItemListOptions{MinPrice: dec("100"), MaxPrice: dec("200")})
	require.NoError(t, err)
	assert.Equal(t, 1, ranged.Pagination.Total)

	paged, err := sm.ItemService.GetAll(ctx, &ItemListOptions{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Data, 1)
	assert.Equal(t, 2, paged.Pagination.TotalPages)

	_, err = sm.ItemService.GetAll(ctx, &ItemListOptions{SortBy: "colour"})
	assert.True(t, lib.IsInvalidInput(err))

	_, err = sm.ItemService.GetAll(ctx, &ItemListOptions{MinPrice: dec("10"), MaxPrice: dec("5")})
	assert.True(t, lib.IsInvalidInput(err))

	_, err = sm.ItemService.GetByCategorySlug(ctx, "missing", 1, 10)
	assert.True(t, lib.IsNotFound(err))
}

func TestItemVariantService(t *testing.T) {
	sm := newTestServices(t)
	ctx := context.Background()
	mustCategory(t, sm, "Gowns")
	item := mustItem(t, sm, "Emerald Gown", "gowns", nil)
	other := mustItem(t, sm, "Onyx Gown", "gowns", nil)

	medium, err := sm.VariantService.Create(ctx, item.ID, &structs.ItemVariantCreateRequest{
		Color: "green", Size: structs.SizeM, Price: dec("120"), Stock: ptr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Emerald Gown", medium.ItemName)

	_, err = sm.VariantService.Create(ctx, item.ID, &structs.ItemVariantCreateRequest{
		Color: "green", Size: structs.SizeM, Price: dec("130"), Stock: ptr(1),
	})
	assert.True(t, lib.IsConflict(err))

	// the same color and size is fine on another item
	_, err = sm.VariantService.Create(ctx, other.ID, &structs.ItemVariantCreateRequest{
		Color: "green", Size: structs.SizeM, Price: dec("90"), Stock: ptr(1),
	})
	require.NoError(t, err)

	large, err := sm.VariantService.Create(ctx, item.ID, &structs.ItemVariantCreateRequest{
		Color: "green", Size: structs.SizeL, Price: dec("125"), Stock: ptr(1),
	})
	require.NoError(t, err)

	_, err = sm.VariantService.Update(ctx, item.ID, large.ID, &structs.ItemVariantUpdateRequest{Size: ptr(structs.SizeM)})
	assert.True(t, lib.IsConflict(err))

	restocked, err := sm.VariantService.Update(ctx, item.ID, large.ID, &structs.ItemVariantUpdateRequest{Stock: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, 8, restocked.Stock)

	_, err = sm.VariantService.GetByID(ctx, other.ID, medium.ID)
	assert.True(t, lib.IsNotFound(err), "variant looked up under the wrong item")

	listed, err := sm.VariantService.GetByItem(ctx, item.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, listed.Pagination.Total)

	got, err := sm.ItemService.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, got.Variants, 2)

	require.NoError(t, sm.VariantService.Delete(ctx, item.ID, medium.ID))
	assert.True(t, lib.IsNotFound(sm.VariantService.Delete(ctx, item.ID, medium.ID)))

	_, err = sm.VariantService.Create(ctx, 999, &structs.ItemVariantCreateRequest{
		Color: "green", Size: structs.SizeS, Price: dec("1"), Stock: ptr(1),
	})
	assert.True(t, lib.IsNotFound(err))
}
