package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"strings"

	"github.com/shopspring/decimal"
)

type itemRepo struct {
	db *database.DB
}

var itemSortColumns = map[string]string{
	"created_at":     "i.created_at",
	"price":          "i.price",
	"name":           "i.name",
	"average_rating": "i.average_rating",
}

func (r *itemRepo) FindByID(ctx context.Context, id int64) (*tables.Item, error) {
	item, err := database.FindByID[tables.Item](ctx, r.db, "i.id", id)
	return item, mapErr(err)
}

func (r *itemRepo) FindByIDs(ctx context.Context, ids []int64) ([]tables.Item, error) {
	if len(ids) == 0 {
		return []tables.Item{}, nil
	}
	items, err := database.Query[tables.Item](r.db).WhereIn("i.id", ids).OrderBy("i.id", database.ASC).All(ctx)
	return items, mapErr(err)
}

func (r *itemRepo) List(ctx context.Context, f repository.ItemFilter) ([]tables.Item, int, error) {
	q := database.Query[tables.Item](r.db)

	if f.CategorySlug != "" {
		q = q.Join("item_categories", "ic").On("ic.item_id", "=", "i.id").End().
			Join("categories", "c").On("c.id", "=", "ic.category_id").End().
			Where("c.slug", f.CategorySlug)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		pattern := "%" + search + "%"
		q = q.Or().
			WhereOp("i.name", "ILIKE", pattern).
			WhereOp("i.description", "ILIKE", pattern).
			WhereOp("i.color", "ILIKE", pattern).
			End()
	}
	if f.MinPrice != nil {
		q = q.WhereOp("i.price", ">=", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.WhereOp("i.price", "<=", *f.MaxPrice)
	}
	if f.ParentID != nil {
		q = q.Where("i.parent_id", *f.ParentID)
	}
	if f.OnlyRoots {
		q = q.WhereNull("i.parent_id")
	}
	if f.CreatedAfter != nil {
		q = q.WhereOp("i.created_at", ">=", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		q = q.WhereOp("i.created_at", "<=", *f.CreatedBefore)
	}

	column, ok := itemSortColumns[f.SortBy]
	if !ok {
		column = itemSortColumns["created_at"]
	}
	q = q.OrderBy(column, database.ParseOrderDirection(f.SortDirection, database.DESC)).
		OrderBy("i.id", database.ASC)

	return paged(ctx, q, f.Page, f.PageSize)
}

func (r *itemRepo) FindChildren(ctx context.Context, parentIDs []int64) ([]tables.Item, error) {
	if len(parentIDs) == 0 {
		return []tables.Item{}, nil
	}
	items, err := database.Query[tables.Item](r.db).
		WhereIn("i.parent_id", parentIDs).
		OrderBy("i.id", database.ASC).
		All(ctx)
	return items, mapErr(err)
}

func (r *itemRepo) ExistsByNamePriceDiscount(ctx context.Context, name string, price decimal.Decimal, discountType structs.DiscountType, excludeID int64) (bool, error) {
	q := database.Query[tables.Item](r.db).
		Where("i.name", name).
		Where("i.price", price).
		Where("i.discount_type", discountType)
	if excludeID > 0 {
		q = q.WhereOp("i.id", "<>", excludeID)
	}
	exists, err := q.Exists(ctx)
	return exists, mapErr(err)
}

func (r *itemRepo) Create(ctx context.Context, item *tables.Item) error {
	item.CreatedAt = now()
	item.UpdatedAt = item.CreatedAt
	if item.DiscountType == "" {
		item.DiscountType = structs.DiscountNone
	}
	_, err := database.Create[tables.Item](ctx, r.db, item)
	return mapErr(err)
}

func (r *itemRepo) Update(ctx context.Context, item *tables.Item) error {
	item.UpdatedAt = now()
	_, err := database.UpdateByID[tables.Item](ctx, r.db, "i.id", item.ID, item)
	return mapErr(err)
}

func (r *itemRepo) SetParent(ctx context.Context, id int64, parentID *int64) error {
	_, err := database.Query[tables.Item](r.db).Where("i.id", id).Update(ctx, map[string]any{
		"parent_id":  parentID,
		"updated_at": now(),
	})
	return mapErr(err)
}

func (r *itemRepo) DetachChildren(ctx context.Context, parentID int64) error {
	_, err := database.Query[tables.Item](r.db).Where("i.parent_id", parentID).Update(ctx, map[string]any{
		"parent_id":  nil,
		"updated_at": now(),
	})
	return mapErr(err)
}

func (r *itemRepo) UpdateRatingAggregates(ctx context.Context, id int64, average float64, total int) error {
	_, err := database.Query[tables.Item](r.db).Where("i.id", id).Update(ctx, map[string]any{
		"average_rating": average,
		"total_ratings":  total,
	})
	return mapErr(err)
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.Item](ctx, r.db, "i.id", id)
	return mapErr(err)
}
