package services

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ItemService manages items together with the collections they own (images,
// variants, children) and their share of the item <-> category relation
type ItemService struct {
	logger     *gecho.Logger
	store      *repository.Store
	categories *CategoryService
}

func NewItemService(logger *gecho.Logger, store *repository.Store, categories *CategoryService) *ItemService {
	return &ItemService{logger: logger, store: store, categories: categories}
}

// ItemListOptions contains filtering and pagination options for item queries
type ItemListOptions struct {
	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	SearchTerm    string           `json:"search_term,omitempty"`    // Search in name, description, color
	CategorySlug  string           `json:"category_slug,omitempty"`  // Only items linked to this category
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`      // Minimum base price
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`      // Maximum base price
	ParentID      *int64           `json:"parent_id,omitempty"`      // Only children of this item
	OnlyParents   bool             `json:"only_parents,omitempty"`   // Only top-level items
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`  // Items created after this date
	CreatedBefore *time.Time       `json:"created_before,omitempty"` // Items created before this date

	// Sorting
	SortBy        string `json:"sort_by"`        // created_at, price, name, average_rating
	SortDirection string `json:"sort_direction"` // ASC or DESC
}

// applyDefaultOptions sets default values for unspecified options
func (is *ItemService) applyDefaultOptions(opts *ItemListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	opts.SortDirection = strings.ToUpper(opts.SortDirection)
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
}

// validateOptions validates the provided options
func (is *ItemService) validateOptions(opts *ItemListOptions) error {
	validSortFields := map[string]bool{
		"created_at":     true,
		"price":          true,
		"name":           true,
		"average_rating": true,
	}
	if !validSortFields[opts.SortBy] {
		return lib.Invalid("item", fmt.Sprintf("invalid sort field: %s", opts.SortBy))
	}

	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return lib.Invalid("item", fmt.Sprintf("invalid sort direction: %s (must be ASC or DESC)", opts.SortDirection))
	}

	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return lib.Invalid("item", "min_price cannot be greater than max_price")
	}

	return nil
}

// GetAll lists items with filtering, sorting and pagination
func (is *ItemService) GetAll(ctx context.Context, opts *ItemListOptions) (*structs.Page[structs.ItemDto], error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ItemListOptions{}
	}
	is.applyDefaultOptions(opts)
	if err := is.validateOptions(opts); err != nil {
		is.logger.Warn("Invalid item list options", gecho.Field("error", err))
		return nil, err
	}

	rows, total, err := is.store.Items.List(ctx, repository.ItemFilter{
		Page:          opts.Page,
		PageSize:      opts.PageSize,
		Search:        opts.SearchTerm,
		CategorySlug:  opts.CategorySlug,
		MinPrice:      opts.MinPrice,
		MaxPrice:      opts.MaxPrice,
		ParentID:      opts.ParentID,
		OnlyRoots:     opts.OnlyParents,
		CreatedAfter:  opts.CreatedAfter,
		CreatedBefore: opts.CreatedBefore,
		SortBy:        opts.SortBy,
		SortDirection: opts.SortDirection,
	})
	if err != nil {
		is.logger.Error("Failed to fetch items",
			gecho.Field("error", err),
			gecho.Field("page", opts.Page),
			gecho.Field("pageSize", opts.PageSize),
			gecho.Field("duration", time.Since(startTime)))
		return nil, storeErr("item", err)
	}

	dtos, err := is.project(ctx, rows)
	if err != nil {
		return nil, err
	}

	is.logger.Debug("Items fetched successfully",
		gecho.Field("count", len(dtos)),
		gecho.Field("total", total),
		gecho.Field("page", opts.Page),
		gecho.Field("duration", time.Since(startTime)),
	)
	return &structs.Page[structs.ItemDto]{
		Data:       dtos,
		Pagination: database.NewPagination(opts.Page, opts.PageSize, total),
	}, nil
}

// GetByCategorySlug lists the items of one category
func (is *ItemService) GetByCategorySlug(ctx context.Context, slug string, page, pageSize int) (*structs.Page[structs.ItemDto], error) {
	if _, err := is.categories.GetBySlug(ctx, slug); err != nil {
		return nil, err
	}
	return is.GetAll(ctx, &ItemListOptions{
		Page:         page,
		PageSize:     pageSize,
		CategorySlug: strings.ToLower(strings.TrimSpace(slug)),
	})
}

func (is *ItemService) GetByID(ctx context.Context, id int64) (*structs.ItemDto, error) {
	item, err := is.findItem(ctx, id)
	if err != nil {
		return nil, err
	}
	dtos, err := is.project(ctx, []tables.Item{*item})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (is *ItemService) findItem(ctx context.Context, id int64) (*tables.Item, error) {
	item, err := is.store.Items.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("item", err)
	}
	if item == nil {
		return nil, lib.NotFound("item", "id", id)
	}
	return item, nil
}

// ValidateDiscount checks a discount against the price it applies to.
// Without a discount type the value must be empty or zero, a percentage
// lies within [0,100] and a fixed amount never exceeds the price.
func ValidateDiscount(price decimal.Decimal, discountType structs.DiscountType, value *decimal.Decimal) error {
	if price.IsNegative() {
		return lib.Invalid("item", "price cannot be negative")
	}

	if !discountType.IsSet() {
		if value != nil && !value.IsZero() {
			return lib.Invalid("item", "discount value must be empty or zero when no discount type is set")
		}
		return nil
	}

	if value == nil {
		return lib.Invalid("item", "discount value is required when a discount type is set")
	}
	if value.IsNegative() {
		return lib.Invalid("item", "discount value cannot be negative")
	}

	switch discountType {
	case structs.DiscountPercentage:
		if value.GreaterThan(hundred) {
			return lib.Invalid("item", "percentage discount must be between 0 and 100")
		}
	case structs.DiscountFixed:
		if value.GreaterThan(price) {
			return lib.Invalid("item", "fixed discount cannot exceed the price")
		}
	default:
		return lib.Invalid("item", fmt.Sprintf("unknown discount type %q", discountType))
	}
	return nil
}

// FinalPrice applies the discount to price, never going below zero
func FinalPrice(price decimal.Decimal, discountType structs.DiscountType, value decimal.Decimal) decimal.Decimal {
	final := price
	switch discountType {
	case structs.DiscountPercentage:
		final = price.Sub(price.Mul(value).Div(hundred))
	case structs.DiscountFixed:
		final = price.Sub(value)
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	return final.Round(2)
}

// Create stores an item with its categories and images in one transaction
func (is *ItemService) Create(ctx context.Context, req *structs.ItemCreateRequest) (*structs.ItemDto, error) {
	startTime := time.Now()

	if req == nil {
		return nil, lib.Invalid("item", "request body is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, lib.Invalid("item", "item name is required")
	}
	if req.Price == nil {
		return nil, lib.Invalid("item", "price is required")
	}
	if req.Stock == nil || *req.Stock < 0 {
		return nil, lib.Invalid("item", "stock must be zero or more")
	}
	if req.Size != "" && !req.Size.Valid() {
		return nil, lib.Invalid("item", fmt.Sprintf("unknown size %q", req.Size))
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = structs.DiscountNone
	}
	if err := ValidateDiscount(*req.Price, discountType, req.DiscountValue); err != nil {
		return nil, err
	}
	if len(req.Images) == 0 {
		return nil, lib.Invalid("item", "at least one image is required")
	}

	item := &tables.Item{
		Name:         name,
		Description:  req.Description,
		Color:        req.Color,
		Size:         req.Size,
		Stock:        *req.Stock,
		Price:        *req.Price,
		DiscountType: discountType,
		ParentID:     req.ParentID,
	}
	if req.DiscountValue != nil {
		item.DiscountValue = *req.DiscountValue
	}

	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := is.store.Items.ExistsByNamePriceDiscount(ctx, item.Name, item.Price, item.DiscountType, 0)
		if err != nil {
			return storeErr("item", err)
		}
		if exists {
			return lib.Duplicate("item", "name", item.Name)
		}

		categories, err := is.categories.ResolveForItem(ctx, req.CategorySlugs)
		if err != nil {
			return err
		}

		if item.ParentID != nil {
			if _, err := is.findItem(ctx, *item.ParentID); err != nil {
				return err
			}
		}

		if err := is.store.Items.Create(ctx, item); err != nil {
			return storeErr("item", err)
		}
		if err := is.store.ItemCategories.ReplaceForItem(ctx, item.ID, categoryIDs(categories)); err != nil {
			return storeErr("item", err)
		}
		return is.rebuildImages(ctx, item.ID, req.Images)
	})
	if err != nil {
		is.logger.Warn("Failed to create item", gecho.Field("name", name), gecho.Field("error", err))
		return nil, err
	}

	is.logger.Info("Item created",
		gecho.Field("id", item.ID),
		gecho.Field("name", item.Name),
		gecho.Field("duration", time.Since(startTime)),
	)
	return is.GetByID(ctx, item.ID)
}

// Update applies the fields set in req. Categories and images are replaced
// as a whole when supplied; replaced images get new ids.
func (is *ItemService) Update(ctx context.Context, id int64, req *structs.ItemUpdateRequest) (*structs.ItemDto, error) {
	startTime := time.Now()

	if req == nil {
		return nil, lib.Invalid("item", "request body is required")
	}

	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := is.findItem(ctx, id)
		if err != nil {
			return err
		}
		identityChanged := false

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return lib.Invalid("item", "item name cannot be empty")
			}
			identityChanged = identityChanged || name != item.Name
			item.Name = name
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.Color != nil {
			item.Color = *req.Color
		}
		if req.Size != nil {
			if !req.Size.Valid() {
				return lib.Invalid("item", fmt.Sprintf("unknown size %q", *req.Size))
			}
			item.Size = *req.Size
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				return lib.Invalid("item", "stock must be zero or more")
			}
			item.Stock = *req.Stock
		}
		if req.Price != nil {
			identityChanged = identityChanged || !req.Price.Equal(item.Price)
			item.Price = *req.Price
		}
		if req.DiscountType != nil {
			identityChanged = identityChanged || *req.DiscountType != item.DiscountType
			item.DiscountType = *req.DiscountType
			if !item.DiscountType.IsSet() && req.DiscountValue == nil {
				item.DiscountValue = decimal.Zero
			}
		}
		if req.DiscountValue != nil {
			item.DiscountValue = *req.DiscountValue
		}
		if item.DiscountType == "" {
			item.DiscountType = structs.DiscountNone
		}
		if err := ValidateDiscount(item.Price, item.DiscountType, &item.DiscountValue); err != nil {
			return err
		}

		if identityChanged {
			exists, err := is.store.Items.ExistsByNamePriceDiscount(ctx, item.Name, item.Price, item.DiscountType, item.ID)
			if err != nil {
				return storeErr("item", err)
			}
			if exists {
				return lib.Duplicate("item", "name", item.Name)
			}
		}

		switch {
		case req.ClearParent:
			item.ParentID = nil
		case req.ParentID != nil:
			if err := is.checkParent(ctx, item.ID, *req.ParentID); err != nil {
				return err
			}
			parentID := *req.ParentID
			item.ParentID = &parentID
		}

		if err := is.store.Items.Update(ctx, item); err != nil {
			return storeErr("item", err)
		}

		if req.CategorySlugs != nil {
			categories, err := is.categories.ResolveForItem(ctx, req.CategorySlugs)
			if err != nil {
				return err
			}
			if err := is.store.ItemCategories.ReplaceForItem(ctx, item.ID, categoryIDs(categories)); err != nil {
				return storeErr("item", err)
			}
		}

		if req.Images != nil {
			if err := is.store.Images.DeleteByItemID(ctx, item.ID); err != nil {
				return storeErr("item image", err)
			}
			if err := is.rebuildImages(ctx, item.ID, req.Images); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		is.logger.Warn("Failed to update item", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	is.logger.Info("Item updated", gecho.Field("id", id), gecho.Field("duration", time.Since(startTime)))
	return is.GetByID(ctx, id)
}

// checkParent validates making parentID the parent of itemID: the parent
// must exist and must not be the item itself or one of its descendants
func (is *ItemService) checkParent(ctx context.Context, itemID, parentID int64) error {
	if parentID == itemID {
		return lib.Invalid("item", "item cannot be its own parent")
	}

	visited := map[int64]bool{itemID: true}
	current := parentID
	for {
		ancestor, err := is.store.Items.FindByID(ctx, current)
		if err != nil {
			return storeErr("item", err)
		}
		if ancestor == nil {
			if current == parentID {
				return lib.NotFound("item", "id", parentID)
			}
			return nil
		}
		if ancestor.ParentID == nil {
			return nil
		}
		if visited[*ancestor.ParentID] {
			return lib.Invalid("item", fmt.Sprintf("item %d is a descendant of item %d, assignment would create a cycle", parentID, itemID))
		}
		visited[current] = true
		current = *ancestor.ParentID
	}
}

// Delete removes an item. Children are detached and kept; images, variants,
// ratings and category links go with the item.
func (is *ItemService) Delete(ctx context.Context, id int64) error {
	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := is.findItem(ctx, id); err != nil {
			return err
		}
		if err := is.store.Items.DetachChildren(ctx, id); err != nil {
			return storeErr("item", err)
		}
		return storeErr("item", is.store.Items.Delete(ctx, id))
	})
	if err != nil {
		is.logger.Warn("Failed to delete item", gecho.Field("id", id), gecho.Field("error", err))
		return err
	}

	is.logger.Info("Item deleted", gecho.Field("id", id))
	return nil
}

// AddCategory links the item to the category with slug
func (is *ItemService) AddCategory(ctx context.Context, itemID int64, slug string) (*structs.ItemDto, error) {
	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := is.findItem(ctx, itemID); err != nil {
			return err
		}
		categories, err := is.categories.ResolveForItem(ctx, []string{slug})
		if err != nil {
			return err
		}
		return storeErr("item", is.store.ItemCategories.Link(ctx, itemID, categories[0].ID))
	})
	if err != nil {
		return nil, err
	}

	is.logger.Info("Category added to item", gecho.Field("item_id", itemID), gecho.Field("slug", slug))
	return is.GetByID(ctx, itemID)
}

// RemoveCategory unlinks the item from the category with slug
func (is *ItemService) RemoveCategory(ctx context.Context, itemID int64, slug string) (*structs.ItemDto, error) {
	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := is.findItem(ctx, itemID); err != nil {
			return err
		}
		categories, err := is.categories.ResolveForItem(ctx, []string{slug})
		if err != nil {
			return err
		}
		return storeErr("item", is.store.ItemCategories.Unlink(ctx, itemID, categories[0].ID))
	})
	if err != nil {
		return nil, err
	}

	is.logger.Info("Category removed from item", gecho.Field("item_id", itemID), gecho.Field("slug", slug))
	return is.GetByID(ctx, itemID)
}

// AddChild makes childID a child of parentID
func (is *ItemService) AddChild(ctx context.Context, parentID, childID int64) (*structs.ItemDto, error) {
	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := is.findItem(ctx, childID); err != nil {
			return err
		}
		if err := is.checkParent(ctx, childID, parentID); err != nil {
			return err
		}
		return storeErr("item", is.store.Items.SetParent(ctx, childID, &parentID))
	})
	if err != nil {
		return nil, err
	}

	is.logger.Info("Child added to item", gecho.Field("parent_id", parentID), gecho.Field("child_id", childID))
	return is.GetByID(ctx, parentID)
}

// RemoveChild detaches childID from parentID
func (is *ItemService) RemoveChild(ctx context.Context, parentID, childID int64) (*structs.ItemDto, error) {
	err := is.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := is.findItem(ctx, parentID); err != nil {
			return err
		}
		child, err := is.findItem(ctx, childID)
		if err != nil {
			return err
		}
		if child.ParentID == nil || *child.ParentID != parentID {
			return lib.Invalid("item", fmt.Sprintf("item %d is not a child of item %d", childID, parentID))
		}
		return storeErr("item", is.store.Items.SetParent(ctx, childID, nil))
	})
	if err != nil {
		return nil, err
	}

	is.logger.Info("Child removed from item", gecho.Field("parent_id", parentID), gecho.Field("child_id", childID))
	return is.GetByID(ctx, parentID)
}

// rebuildImages stores reqs as the images of an item. Display order
// defaults to the position in the list; exactly one image ends up primary,
// the first flagged one or else the first one.
func (is *ItemService) rebuildImages(ctx context.Context, itemID int64, reqs []structs.ItemImageEmbedRequest) error {
	primary := 0
	for i, r := range reqs {
		if r.IsPrimary != nil && *r.IsPrimary {
			primary = i
			break
		}
	}

	for i, r := range reqs {
		image := &tables.ItemImage{
			ItemID:       itemID,
			URL:          r.URL,
			AltText:      r.AltText,
			DisplayOrder: i,
			IsPrimary:    i == primary,
		}
		if r.DisplayOrder != nil {
			image.DisplayOrder = *r.DisplayOrder
		}
		if err := is.store.Images.Create(ctx, image); err != nil {
			return storeErr("item image", err)
		}
	}
	return nil
}

func categoryIDs(categories []tables.Category) []int64 {
	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// project loads the collections of items in batches and builds their DTOs
func (is *ItemService) project(ctx context.Context, items []tables.Item) ([]structs.ItemDto, error) {
	if len(items) == 0 {
		return []structs.ItemDto{}, nil
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	children, err := is.store.Items.FindChildren(ctx, ids)
	if err != nil {
		return nil, storeErr("item", err)
	}
	categories, err := is.store.ItemCategories.CategoriesForItems(ctx, ids)
	if err != nil {
		return nil, storeErr("category", err)
	}
	images, err := is.store.Images.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("item image", err)
	}
	variants, err := is.store.Variants.FindByItemIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("item variant", err)
	}

	childrenOf := make(map[int64][]structs.ItemSummaryDto)
	for _, c := range children {
		childrenOf[*c.ParentID] = append(childrenOf[*c.ParentID], toItemSummaryDto(&c))
	}
	imagesOf := make(map[int64][]structs.ItemImageDto)
	for i := range images {
		imagesOf[images[i].ItemID] = append(imagesOf[images[i].ItemID], toItemImageDto(&images[i]))
	}
	names := make(map[int64]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}
	variantsOf := make(map[int64][]structs.ItemVariantDto)
	for i := range variants {
		dto := toItemVariantDto(&variants[i])
		dto.ItemName = names[dto.ItemID]
		variantsOf[dto.ItemID] = append(variantsOf[dto.ItemID], dto)
	}

	out := make([]structs.ItemDto, len(items))
	for i := range items {
		it := &items[i]
		out[i] = structs.ItemDto{
			ID:            it.ID,
			Name:          it.Name,
			Description:   it.Description,
			Color:         it.Color,
			Size:          it.Size,
			Stock:         it.Stock,
			Price:         it.Price,
			DiscountType:  it.DiscountType,
			DiscountValue: it.DiscountValue,
			FinalPrice:    FinalPrice(it.Price, it.DiscountType, it.DiscountValue),
			IsParent:      len(childrenOf[it.ID]) > 0,
			IsVariant:     it.ParentID != nil,
			ParentID:      it.ParentID,
			Children:      orEmpty(childrenOf[it.ID]),
			Categories:    orEmpty(toCategoryDtos(categories[it.ID])),
			Images:        orEmpty(imagesOf[it.ID]),
			Variants:      orEmpty(variantsOf[it.ID]),
			AverageRating: it.AverageRating,
			TotalRatings:  it.TotalRatings,
			CreatedAt:     it.CreatedAt,
			UpdatedAt:     it.UpdatedAt,
		}
	}
	return out, nil
}

func toItemSummaryDto(it *tables.Item) structs.ItemSummaryDto {
	return structs.ItemSummaryDto{
		ID:         it.ID,
		Name:       it.Name,
		Color:      it.Color,
		Size:       it.Size,
		Price:      it.Price,
		FinalPrice: FinalPrice(it.Price, it.DiscountType, it.DiscountValue),
		Stock:      it.Stock,
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
