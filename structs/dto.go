package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CategoryDto struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ItemImageDto struct {
	ID           int64  `json:"id"`
	ItemID       int64  `json:"item_id"`
	URL          string `json:"url"`
	AltText      string `json:"alt_text,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

type ItemVariantDto struct {
	ID       int64           `json:"id"`
	ItemID   int64           `json:"item_id"`
	ItemName string          `json:"item_name,omitempty"`
	Color    string          `json:"color"`
	Size     Size            `json:"size"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// ItemSummaryDto is the short form used for an item's children
type ItemSummaryDto struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Size       Size            `json:"size"`
	Price      decimal.Decimal `json:"price"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Stock      int             `json:"stock"`
}

type ItemDto struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Color         string           `json:"color"`
	Size          Size             `json:"size"`
	Stock         int              `json:"stock"`
	Price         decimal.Decimal  `json:"price"`
	DiscountType  DiscountType     `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	FinalPrice    decimal.Decimal  `json:"final_price"`
	IsParent      bool             `json:"is_parent"`
	IsVariant     bool             `json:"is_variant"`
	ParentID      *int64           `json:"parent_id,omitempty"`
	Children      []ItemSummaryDto `json:"children"`
	Categories    []CategoryDto    `json:"categories"`
	Images        []ItemImageDto   `json:"images"`
	Variants      []ItemVariantDto `json:"variants"`
	AverageRating float64          `json:"average_rating"`
	TotalRatings  int              `json:"total_ratings"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type ItemRatingDto struct {
	ID               int64     `json:"id"`
	ItemID           int64     `json:"item_id"`
	UserID           int64     `json:"user_id"`
	UserFirstName    string    `json:"user_first_name,omitempty"`
	UserLastName     string    `json:"user_last_name,omitempty"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title,omitempty"`
	ReviewText       string    `json:"review_text,omitempty"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulVotes     int       `json:"helpful_votes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RatingBreakdownDto struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
	FiveStars     int     `json:"five_stars"`
	FourStars     int     `json:"four_stars"`
	ThreeStars    int     `json:"three_stars"`
	TwoStars      int     `json:"two_stars"`
	OneStar       int     `json:"one_star"`
}

type AddressDto struct {
	ID           int64       `json:"id"`
	UserID       int64       `json:"user_id"`
	AddressType  AddressType `json:"address_type"`
	AddressLine1 string      `json:"address_line1"`
	AddressLine2 string      `json:"address_line2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	Country      string      `json:"country"`
	PostalCode   string      `json:"postal_code"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

type UserDto struct {
	ID            int64        `json:"id"`
	Email         string       `json:"email"`
	Role          UserRole     `json:"role"`
	Locale        string       `json:"locale"`
	EmailVerified bool         `json:"email_verified"`
	FirstName     string       `json:"first_name,omitempty"`
	LastName      string       `json:"last_name,omitempty"`
	Telephone     string       `json:"telephone,omitempty"`
	Avatar        string       `json:"avatar,omitempty"`
	Addresses     []AddressDto `json:"addresses"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Pagination mirrors the page window returned by list endpoints
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is a paginated list response
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}
