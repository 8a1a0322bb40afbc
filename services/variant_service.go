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

	"github.com/MonkyMars/gecho"
)

type ItemVariantService struct {
	logger *gecho.Logger
	store  *repository.Store
}

func NewItemVariantService(logger *gecho.Logger, store *repository.Store) *ItemVariantService {
	return &ItemVariantService{logger: logger, store: store}
}

func toItemVariantDto(v *tables.ItemVariant) structs.ItemVariantDto {
	return structs.ItemVariantDto{
		ID:     v.ID,
		ItemID: v.ItemID,
		Color:  v.Color,
		Size:   v.Size,
		Price:  v.Price,
		Stock:  v.Stock,
	}
}

func (vs *ItemVariantService) GetAll(ctx context.Context, page, pageSize int) (*structs.Page[structs.ItemVariantDto], error) {
	page, pageSize = database.NormalizePage(page, pageSize)
	rows, total, err := vs.store.Variants.FindAll(ctx, page, pageSize)
	if err != nil {
		vs.logger.Error("Failed to fetch variants", gecho.Field("error", err))
		return nil, storeErr("item variant", err)
	}
	return vs.page(ctx, rows, page, pageSize, total)
}

// GetByItem lists the variants of one item
func (vs *ItemVariantService) GetByItem(ctx context.Context, itemID int64, page, pageSize int) (*structs.Page[structs.ItemVariantDto], error) {
	if _, err := vs.findItem(ctx, itemID); err != nil {
		return nil, err
	}

	page, pageSize = database.NormalizePage(page, pageSize)
	rows, total, err := vs.store.Variants.FindByItemID(ctx, itemID, page, pageSize)
	if err != nil {
		vs.logger.Error("Failed to fetch item variants", gecho.Field("item_id", itemID), gecho.Field("error", err))
		return nil, storeErr("item variant", err)
	}
	return vs.page(ctx, rows, page, pageSize, total)
}

func (vs *ItemVariantService) GetByID(ctx context.Context, itemID, variantID int64) (*structs.ItemVariantDto, error) {
	item, err := vs.findItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	variant, err := vs.findVariant(ctx, itemID, variantID)
	if err != nil {
		return nil, err
	}
	dto := toItemVariantDto(variant)
	dto.ItemName = item.Name
	return &dto, nil
}

// Create adds a variant to an item. Color and size are unique per item.
func (vs *ItemVariantService) Create(ctx context.Context, itemID int64, req *structs.ItemVariantCreateRequest) (*structs.ItemVariantDto, error) {
	if req == nil {
		return nil, lib.Invalid("item variant", "request body is required")
	}
	if req.Price == nil || req.Price.IsNegative() {
		return nil, lib.Invalid("item variant", "price must be zero or more")
	}
	if req.Stock == nil || *req.Stock < 0 {
		return nil, lib.Invalid("item variant", "stock must be zero or more")
	}
	if !req.Size.Valid() {
		return nil, lib.Invalid("item variant", fmt.Sprintf("unknown size %q", req.Size))
	}

	variant := &tables.ItemVariant{
		ItemID: itemID,
		Color:  strings.TrimSpace(req.Color),
		Size:   req.Size,
		Price:  *req.Price,
		Stock:  *req.Stock,
	}
	if variant.Color == "" {
		return nil, lib.Invalid("item variant", "color is required")
	}

	var item *tables.Item
	err := vs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if item, err = vs.findItem(ctx, itemID); err != nil {
			return err
		}
		if err := vs.ensureUnique(ctx, variant); err != nil {
			return err
		}
		return storeErr("item variant", vs.store.Variants.Create(ctx, variant))
	})
	if err != nil {
		vs.logger.Warn("Failed to create variant", gecho.Field("item_id", itemID), gecho.Field("error", err))
		return nil, err
	}

	vs.logger.Info("Variant created", gecho.Field("id", variant.ID), gecho.Field("item_id", itemID))
	dto := toItemVariantDto(variant)
	dto.ItemName = item.Name
	return &dto, nil
}

// Update applies the fields set in req to a variant of itemID
func (vs *ItemVariantService) Update(ctx context.Context, itemID, variantID int64, req *structs.ItemVariantUpdateRequest) (*structs.ItemVariantDto, error) {
	if req == nil {
		return nil, lib.Invalid("item variant", "request body is required")
	}

	var (
		item    *tables.Item
		variant *tables.ItemVariant
	)
	err := vs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if item, err = vs.findItem(ctx, itemID); err != nil {
			return err
		}
		if variant, err = vs.findVariant(ctx, itemID, variantID); err != nil {
			return err
		}

		keyChanged := false
		if req.Color != nil {
			color := strings.TrimSpace(*req.Color)
			if color == "" {
				return lib.Invalid("item variant", "color cannot be empty")
			}
			keyChanged = keyChanged || color != variant.Color
			variant.Color = color
		}
		if req.Size != nil {
			if !req.Size.Valid() {
				return lib.Invalid("item variant", fmt.Sprintf("unknown size %q", *req.Size))
			}
			keyChanged = keyChanged || *req.Size != variant.Size
			variant.Size = *req.Size
		}
		if req.Price != nil {
			if req.Price.IsNegative() {
				return lib.Invalid("item variant", "price must be zero or more")
			}
			variant.Price = *req.Price
		}
		if req.Stock != nil {
			if *req.Stock < 0 {
				return lib.Invalid("item variant", "stock must be zero or more")
			}
			variant.Stock = *req.Stock
		}

		if keyChanged {
			if err := vs.ensureUnique(ctx, variant); err != nil {
				return err
			}
		}
		return storeErr("item variant", vs.store.Variants.Update(ctx, variant))
	})
	if err != nil {
		vs.logger.Warn("Failed to update variant", gecho.Field("id", variantID), gecho.Field("error", err))
		return nil, err
	}

	vs.logger.Info("Variant updated", gecho.Field("id", variantID), gecho.Field("item_id", itemID))
	dto := toItemVariantDto(variant)
	dto.ItemName = item.Name
	return &dto, nil
}

func (vs *ItemVariantService) Delete(ctx context.Context, itemID, variantID int64) error {
	err := vs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := vs.findVariant(ctx, itemID, variantID); err != nil {
			return err
		}
		return storeErr("item variant", vs.store.Variants.Delete(ctx, variantID))
	})
	if err != nil {
		vs.logger.Warn("Failed to delete variant", gecho.Field("id", variantID), gecho.Field("error", err))
		return err
	}

	vs.logger.Info("Variant deleted", gecho.Field("id", variantID), gecho.Field("item_id", itemID))
	return nil
}

func (vs *ItemVariantService) ensureUnique(ctx context.Context, v *tables.ItemVariant) error {
	exists, err := vs.store.Variants.ExistsByItemColorSize(ctx, v.ItemID, v.Color, v.Size, v.ID)
	if err != nil {
		return storeErr("item variant", err)
	}
	if exists {
		return lib.Duplicate("item variant", "color/size", fmt.Sprintf("%s/%s", v.Color, v.Size))
	}
	return nil
}

func (vs *ItemVariantService) findItem(ctx context.Context, id int64) (*tables.Item, error) {
	item, err := vs.store.Items.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("item", err)
	}
	if item == nil {
		return nil, lib.NotFound("item", "id", id)
	}
	return item, nil
}

// findVariant returns the variant only when it belongs to itemID
func (vs *ItemVariantService) findVariant(ctx context.Context, itemID, variantID int64) (*tables.ItemVariant, error) {
	variant, err := vs.store.Variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, storeErr("item variant", err)
	}
	if variant == nil || variant.ItemID != itemID {
		return nil, lib.NotFound("item variant", "id", variantID)
	}
	return variant, nil
}

// page wraps rows with their item names and pagination metadata
func (vs *ItemVariantService) page(ctx context.Context, rows []tables.ItemVariant, page, pageSize, total int) (*structs.Page[structs.ItemVariantDto], error) {
	ids := make([]int64, 0, len(rows))
	for _, v := range rows {
		ids = append(ids, v.ItemID)
	}
	items, err := vs.store.Items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("item", err)
	}
	names := make(map[int64]string, len(items))
	for _, it := range items {
		names[it.ID] = it.Name
	}

	dtos := make([]structs.ItemVariantDto, len(rows))
	for i := range rows {
		dtos[i] = toItemVariantDto(&rows[i])
		dtos[i].ItemName = names[rows[i].ItemID]
	}
	return &structs.Page[structs.ItemVariantDto]{
		Data:       dtos,
		Pagination: database.NewPagination(page, pageSize, total),
	}, nil
}
