package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/structs/tables"
)

type imageRepo struct {
	db *database.DB
}

func (r *imageRepo) FindAll(ctx context.Context, page, pageSize int) ([]tables.ItemImage, int, error) {
	q := database.Query[tables.ItemImage](r.db).
		OrderBy("ii.item_id", database.ASC).
		OrderBy("ii.display_order", database.ASC).
		OrderBy("ii.id", database.ASC)
	return paged(ctx, q, page, pageSize)
}

func (r *imageRepo) FindByID(ctx context.Context, id int64) (*tables.ItemImage, error) {
	image, err := database.FindByID[tables.ItemImage](ctx, r.db, "ii.id", id)
	return image, mapErr(err)
}

func (r *imageRepo) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]tables.ItemImage, error) {
	if len(itemIDs) == 0 {
		return []tables.ItemImage{}, nil
	}
	images, err := database.Query[tables.ItemImage](r.db).
		WhereIn("ii.item_id", itemIDs).
		OrderBy("ii.display_order", database.ASC).
		OrderBy("ii.id", database.ASC).
		All(ctx)
	return images, mapErr(err)
}

func (r *imageRepo) Create(ctx context.Context, image *tables.ItemImage) error {
	image.CreatedAt = now()
	_, err := database.Create[tables.ItemImage](ctx, r.db, image)
	return mapErr(err)
}

func (r *imageRepo) Update(ctx context.Context, image *tables.ItemImage) error {
	_, err := database.UpdateByID[tables.ItemImage](ctx, r.db, "ii.id", image.ID, image)
	return mapErr(err)
}

// ClearPrimary unflags every primary image of the item except exceptID
func (r *imageRepo) ClearPrimary(ctx context.Context, itemID, exceptID int64) error {
	_, err := database.Query[tables.ItemImage](r.db).
		Where("ii.item_id", itemID).
		Where("ii.is_primary", true).
		WhereOp("ii.id", "<>", exceptID).
		Update(ctx, map[string]any{"is_primary": false})
	return mapErr(err)
}

func (r *imageRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.ItemImage](ctx, r.db, "ii.id", id)
	return mapErr(err)
}

func (r *imageRepo) DeleteByItemID(ctx context.Context, itemID int64) error {
	_, err := database.Query[tables.ItemImage](r.db).Where("ii.item_id", itemID).Delete(ctx)
	return mapErr(err)
}
