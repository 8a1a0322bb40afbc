package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/structs/tables"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type categoryRepo struct {
	db *database.DB
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]tables.Category, error) {
	categories, err := database.Query[tables.Category](r.db).OrderBy("c.name", database.ASC).All(ctx)
	return categories, mapErr(err)
}

func (r *categoryRepo) FindByID(ctx context.Context, id int64) (*tables.Category, error) {
	category, err := database.FindByID[tables.Category](ctx, r.db, "c.id", id)
	return category, mapErr(err)
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	category, err := database.Query[tables.Category](r.db).Where("c.slug", slug).First(ctx)
	return category, mapErr(err)
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*tables.Category, error) {
	category, err := database.Query[tables.Category](r.db).
		WhereRaw("lower(c.name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(ctx)
	return category, mapErr(err)
}

func (r *categoryRepo) FindBySlugs(ctx context.Context, slugs []string) ([]tables.Category, error) {
	if len(slugs) == 0 {
		return []tables.Category{}, nil
	}
	categories, err := database.Query[tables.Category](r.db).WhereIn("c.slug", slugs).All(ctx)
	return categories, mapErr(err)
}

func (r *categoryRepo) Create(ctx context.Context, category *tables.Category) error {
	category.CreatedAt = now()
	_, err := database.Create[tables.Category](ctx, r.db, category)
	return mapErr(err)
}

func (r *categoryRepo) Update(ctx context.Context, category *tables.Category) error {
	_, err := database.Query[tables.Category](r.db).Where("c.id", category.ID).Update(ctx, map[string]any{
		"name": category.Name,
		"slug": category.Slug,
	})
	return mapErr(err)
}

// Delete removes the category; the join rows go with it through the foreign key
func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.Category](ctx, r.db, "c.id", id)
	return mapErr(err)
}

type itemCategoryRepo struct {
	db *database.DB
}

func (r *itemCategoryRepo) Link(ctx context.Context, itemID, categoryID int64) error {
	_, err := r.db.Conn(ctx).NewInsert().
		Model(&tables.ItemCategory{ItemID: itemID, CategoryID: categoryID}).
		On("CONFLICT DO NOTHING").
		Exec(ctx)
	return mapErr(err)
}

func (r *itemCategoryRepo) Unlink(ctx context.Context, itemID, categoryID int64) error {
	_, err := database.Query[tables.ItemCategory](r.db).
		Where("ic.item_id", itemID).
		Where("ic.category_id", categoryID).
		Delete(ctx)
	return mapErr(err)
}

func (r *itemCategoryRepo) ReplaceForItem(ctx context.Context, itemID int64, categoryIDs []int64) error {
	return r.db.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := database.Query[tables.ItemCategory](r.db).Where("ic.item_id", itemID).Delete(ctx); err != nil {
			return mapErr(err)
		}
		if len(categoryIDs) == 0 {
			return nil
		}

		rows := make([]tables.ItemCategory, 0, len(categoryIDs))
		seen := make(map[int64]bool, len(categoryIDs))
		for _, id := range categoryIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			rows = append(rows, tables.ItemCategory{ItemID: itemID, CategoryID: id})
		}
		_, err := database.Query[tables.ItemCategory](r.db).InsertMany(ctx, rows)
		return mapErr(err)
	})
}

type itemCategoryRow struct {
	ItemID    int64     `bun:"item_id"`
	ID        int64     `bun:"id"`
	Name      string    `bun:"name"`
	Slug      string    `bun:"slug"`
	CreatedAt time.Time `bun:"created_at"`
}

func (r *itemCategoryRepo) CategoriesForItems(ctx context.Context, itemIDs []int64) (map[int64][]tables.Category, error) {
	result := make(map[int64][]tables.Category, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	rows, err := database.RawQuery[itemCategoryRow](ctx, r.db,
		`SELECT ic.item_id, c.id, c.name, c.slug, c.created_at
		   FROM item_categories AS ic
		   JOIN categories AS c ON c.id = ic.category_id
		  WHERE ic.item_id IN (?)
		  ORDER BY c.name`,
		bun.In(itemIDs),
	)
	if err != nil {
		return nil, mapErr(err)
	}

	for _, row := range rows {
		result[row.ItemID] = append(result[row.ItemID], tables.Category{
			ID:        row.ID,
			Name:      row.Name,
			Slug:      row.Slug,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

func (r *itemCategoryRepo) ItemIDsForCategory(ctx context.Context, categoryID int64) ([]int64, error) {
	rows, err := database.Query[tables.ItemCategory](r.db).
		Where("ic.category_id", categoryID).
		OrderBy("ic.item_id", database.ASC).
		All(ctx)
	if err != nil {
		return nil, mapErr(err)
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ItemID
	}
	return ids, nil
}
