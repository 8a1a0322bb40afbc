package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
)

type variantRepo struct {
	db *database.DB
}

func (r *variantRepo) FindAll(ctx context.Context, page, pageSize int) ([]tables.ItemVariant, int, error) {
	q := database.Query[tables.ItemVariant](r.db).OrderBy("iv.id", database.ASC)
	return paged(ctx, q, page, pageSize)
}

func (r *variantRepo) FindByID(ctx context.Context, id int64) (*tables.ItemVariant, error) {
	variant, err := database.FindByID[tables.ItemVariant](ctx, r.db, "iv.id", id)
	return variant, mapErr(err)
}

func (r *variantRepo) FindByItemID(ctx context.Context, itemID int64, page, pageSize int) ([]tables.ItemVariant, int, error) {
	q := database.Query[tables.ItemVariant](r.db).
		Where("iv.item_id", itemID).
		OrderBy("iv.id", database.ASC)
	return paged(ctx, q, page, pageSize)
}

func (r *variantRepo) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]tables.ItemVariant, error) {
	if len(itemIDs) == 0 {
		return []tables.ItemVariant{}, nil
	}
	variants, err := database.Query[tables.ItemVariant](r.db).
		WhereIn("iv.item_id", itemIDs).
		OrderBy("iv.id", database.ASC).
		All(ctx)
	return variants, mapErr(err)
}

func (r *variantRepo) ExistsByItemColorSize(ctx context.Context, itemID int64, color string, size structs.Size, excludeID int64) (bool, error) {
	q := database.Query[tables.ItemVariant](r.db).
		Where("iv.item_id", itemID).
		Where("iv.color", color).
		Where("iv.size", size)
	if excludeID > 0 {
		q = q.WhereOp("iv.id", "<>", excludeID)
	}
	exists, err := q.Exists(ctx)
	return exists, mapErr(err)
}

func (r *variantRepo) Create(ctx context.Context, variant *tables.ItemVariant) error {
	variant.CreatedAt = now()
	variant.UpdatedAt = variant.CreatedAt
	_, err := database.Create[tables.ItemVariant](ctx, r.db, variant)
	return mapErr(err)
}

func (r *variantRepo) Update(ctx context.Context, variant *tables.ItemVariant) error {
	variant.UpdatedAt = now()
	_, err := database.UpdateByID[tables.ItemVariant](ctx, r.db, "iv.id", variant.ID, variant)
	return mapErr(err)
}

func (r *variantRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.ItemVariant](ctx, r.db, "iv.id", id)
	return mapErr(err)
}
