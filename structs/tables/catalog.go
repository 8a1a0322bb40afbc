package tables

import (
	"dallasdresses_server/structs"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Item is a dress in the catalog. Children point back at their parent
// through ParentID; isParent is derived from the children count and never stored.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID            int64                `bun:"id,pk,autoincrement" json:"id"`
	Name          string               `bun:"name,notnull" json:"name"`
	Description   string               `bun:"description" json:"description"`
	Color         string               `bun:"color" json:"color"`
	Size          structs.Size         `bun:"size" json:"size"`
	Stock         int                  `bun:"stock,notnull,default:0" json:"stock"`
	Price         decimal.Decimal      `bun:"price,type:numeric(12,2),notnull" json:"price"`
	DiscountType  structs.DiscountType `bun:"discount_type,notnull,default:'NONE'" json:"discount_type"`
	DiscountValue decimal.Decimal      `bun:"discount_value,type:numeric(12,2),notnull,default:0" json:"discount_value"`
	ParentID      *int64               `bun:"parent_id" json:"parent_id,omitempty"`
	AverageRating float64              `bun:"average_rating,notnull,default:0" json:"average_rating"`
	TotalRatings  int                  `bun:"total_ratings,notnull,default:0" json:"total_ratings"`
	CreatedAt     time.Time            `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time            `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Slug      string    `bun:"slug,notnull,unique" json:"slug"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// ItemCategory is the join row of the shared item <-> category relation
type ItemCategory struct {
	bun.BaseModel `bun:"table:item_categories,alias:ic"`

	ItemID     int64 `bun:"item_id,pk" json:"item_id"`
	CategoryID int64 `bun:"category_id,pk" json:"category_id"`
}

type ItemImage struct {
	bun.BaseModel `bun:"table:item_images,alias:ii"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	ItemID       int64     `bun:"item_id,notnull" json:"item_id"`
	URL          string    `bun:"url,notnull" json:"url"`
	AltText      string    `bun:"alt_text" json:"alt_text,omitempty"`
	DisplayOrder int       `bun:"display_order,notnull,default:0" json:"display_order"`
	IsPrimary    bool      `bun:"is_primary,notnull,default:false" json:"is_primary"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

type ItemVariant struct {
	bun.BaseModel `bun:"table:item_variants,alias:iv"`

	ID        int64           `bun:"id,pk,autoincrement" json:"id"`
	ItemID    int64           `bun:"item_id,notnull" json:"item_id"`
	Color     string          `bun:"color,notnull" json:"color"`
	Size      structs.Size    `bun:"size,notnull" json:"size"`
	Price     decimal.Decimal `bun:"price,type:numeric(12,2),notnull" json:"price"`
	Stock     int             `bun:"stock,notnull,default:0" json:"stock"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type ItemRating struct {
	bun.BaseModel `bun:"table:item_ratings,alias:ir"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	ItemID           int64     `bun:"item_id,notnull" json:"item_id"`
	UserID           int64     `bun:"user_id,notnull" json:"user_id"`
	Rating           int       `bun:"rating,notnull" json:"rating"`
	Title            string    `bun:"title" json:"title,omitempty"`
	ReviewText       string    `bun:"review_text" json:"review_text,omitempty"`
	VerifiedPurchase bool      `bun:"verified_purchase,notnull,default:false" json:"verified_purchase"`
	HelpfulVotes     int       `bun:"helpful_votes,notnull,default:0" json:"helpful_votes"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// RatingHelpfulVote records that a user found a rating helpful. The composite
// key allows one vote per user and rating.
type RatingHelpfulVote struct {
	bun.BaseModel `bun:"table:rating_helpful_votes,alias:rhv"`

	RatingID  int64     `bun:"rating_id,pk" json:"rating_id"`
	UserID    int64     `bun:"user_id,pk" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
