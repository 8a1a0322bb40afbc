package database

import (
	"context"
	"dallasdresses_server/structs/tables"
	"fmt"
	"time"

	"github.com/MonkyMars/gecho"
)

type tableSpec struct {
	model       any
	foreignKeys []string
}

type indexSpec struct {
	model   any
	name    string
	unique  bool
	columns []string
}

type checkSpec struct {
	table, name, expr string
}

var schemaTables = []tableSpec{
	{model: (*tables.User)(nil)},
	{model: (*tables.Category)(nil)},
	{
		model:       (*tables.Item)(nil),
		foreignKeys: []string{`("parent_id") REFERENCES "items" ("id") ON DELETE SET NULL`},
	},
	{
		model: (*tables.ItemCategory)(nil),
		foreignKeys: []string{
			`("item_id") REFERENCES "items" ("id") ON DELETE CASCADE`,
			`("category_id") REFERENCES "categories" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model:       (*tables.ItemImage)(nil),
		foreignKeys: []string{`("item_id") REFERENCES "items" ("id") ON DELETE CASCADE`},
	},
	{
		model:       (*tables.ItemVariant)(nil),
		foreignKeys: []string{`("item_id") REFERENCES "items" ("id") ON DELETE CASCADE`},
	},
	{
		model: (*tables.ItemRating)(nil),
		foreignKeys: []string{
			`("item_id") REFERENCES "items" ("id") ON DELETE CASCADE`,
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model: (*tables.RatingHelpfulVote)(nil),
		foreignKeys: []string{
			`("rating_id") REFERENCES "item_ratings" ("id") ON DELETE CASCADE`,
			`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`,
		},
	},
	{
		model:       (*tables.Address)(nil),
		foreignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
	},
	{
		model:       (*tables.Credential)(nil),
		foreignKeys: []string{`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`},
	},
}

var schemaIndexes = []indexSpec{
	{model: (*tables.Category)(nil), name: "categories_name_lower_key", unique: true, columns: []string{"lower(name)"}},
	{model: (*tables.Item)(nil), name: "items_parent_id_idx", columns: []string{"parent_id"}},
	{model: (*tables.Item)(nil), name: "items_name_price_discount_idx", columns: []string{"name", "price", "discount_type"}},
	{model: (*tables.ItemCategory)(nil), name: "item_categories_category_id_idx", columns: []string{"category_id"}},
	{model: (*tables.ItemImage)(nil), name: "item_images_item_id_idx", columns: []string{"item_id", "display_order"}},
	{model: (*tables.ItemVariant)(nil), name: "item_variants_item_color_size_key", unique: true, columns: []string{"item_id", "color", "size"}},
	{model: (*tables.ItemRating)(nil), name: "item_ratings_item_user_key", unique: true, columns: []string{"item_id", "user_id"}},
	{model: (*tables.ItemRating)(nil), name: "item_ratings_user_id_idx", columns: []string{"user_id"}},
	{model: (*tables.RatingHelpfulVote)(nil), name: "rating_helpful_votes_user_id_idx", columns: []string{"user_id"}},
	{model: (*tables.Address)(nil), name: "addresses_user_tuple_key", unique: true, columns: []string{"user_id", "address_line1", "city", "state", "postal_code"}},
	{model: (*tables.Credential)(nil), name: "credentials_provider_key", unique: true, columns: []string{"provider", "provider_key"}},
	{model: (*tables.Credential)(nil), name: "credentials_user_id_idx", columns: []string{"user_id"}},
}

var schemaChecks = []checkSpec{
	{"items", "items_stock_check", "stock >= 0"},
	{"items", "items_price_check", "price >= 0"},
	{"items", "items_discount_value_check", "discount_value >= 0"},
	{"items", "items_parent_self_check", "parent_id IS NULL OR parent_id <> id"},
	{"item_variants", "item_variants_stock_check", "stock >= 0"},
	{"item_variants", "item_variants_price_check", "price >= 0"},
	{"item_ratings", "item_ratings_rating_check", "rating BETWEEN 1 AND 5"},
}

// Migrate creates every table, index and check constraint that is missing.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *DB) error {
	start := time.Now()

	return db.RunInTx(ctx, func(ctx context.Context) error {
		conn := db.Conn(ctx)

		for _, t := range schemaTables {
			q := conn.NewCreateTable().Model(t.model).IfNotExists()
			for _, fk := range t.foreignKeys {
				q = q.ForeignKey(fk)
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", t.model, err)
			}
		}

		for _, idx := range schemaIndexes {
			q := conn.NewCreateIndex().Model(idx.model).Index(idx.name).IfNotExists()
			if idx.unique {
				q = q.Unique()
			}
			for _, col := range idx.columns {
				q = q.ColumnExpr(col)
			}
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("failed to create index %s: %w", idx.name, err)
			}
		}

		for _, c := range schemaChecks {
			drop := fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", c.table, c.name)
			add := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", c.table, c.name, c.expr)
			if _, err := conn.ExecContext(ctx, drop); err != nil {
				return fmt.Errorf("failed to drop constraint %s: %w", c.name, err)
			}
			if _, err := conn.ExecContext(ctx, add); err != nil {
				return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
			}
		}

		db.logger.Info("Database schema is up to date",
			gecho.Field("tables", len(schemaTables)),
			gecho.Field("indexes", len(schemaIndexes)),
			gecho.Field("duration", time.Since(start)),
		)
		return nil
	})
}
