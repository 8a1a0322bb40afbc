package structs

import "github.com/shopspring/decimal"

// Category

type CategoryCreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,min=2,max=100,slug"`
}

type CategoryUpdateRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Slug *string `json:"slug,omitempty" validate:"omitempty,min=2,max=100,slug"`
}

// Item

// ItemImageEmbedRequest is an image supplied inline with an item create/update
type ItemImageEmbedRequest struct {
	URL          string `json:"url" validate:"required,http_url"`
	AltText      string `json:"alt_text,omitempty" validate:"max=500"`
	DisplayOrder *int   `json:"display_order,omitempty" validate:"omitempty,gte=0"`
	IsPrimary    *bool  `json:"is_primary,omitempty"`
}

type ItemCreateRequest struct {
	Name          string                  `json:"name" validate:"required,max=255"`
	Description   string                  `json:"description" validate:"required,max=5000"`
	Color         string                  `json:"color" validate:"required,max=50"`
	Size          Size                    `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Stock         *int                    `json:"stock" validate:"required,gte=0"`
	Price         *decimal.Decimal        `json:"price" validate:"required"`
	DiscountType  DiscountType            `json:"discount_type,omitempty" validate:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal        `json:"discount_value,omitempty"`
	ParentID      *int64                  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	CategorySlugs []string                `json:"category_slugs" validate:"required,min=1,dive,required"`
	Images        []ItemImageEmbedRequest `json:"images" validate:"required,min=1,dive"`
}

// ItemUpdateRequest applies only the fields that are set. Categories and
// images replace the whole current set when supplied.
type ItemUpdateRequest struct {
	Name          *string                 `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description   *string                 `json:"description,omitempty" validate:"omitempty,max=5000"`
	Color         *string                 `json:"color,omitempty" validate:"omitempty,max=50"`
	Size          *Size                   `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL"`
	Stock         *int                    `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Price         *decimal.Decimal        `json:"price,omitempty"`
	DiscountType  *DiscountType           `json:"discount_type,omitempty" validate:"omitempty,oneof=NONE PERCENTAGE FIXED"`
	DiscountValue *decimal.Decimal        `json:"discount_value,omitempty"`
	ParentID      *int64                  `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	ClearParent   bool                    `json:"clear_parent,omitempty"`
	CategorySlugs []string                `json:"category_slugs,omitempty" validate:"omitempty,dive,required"`
	Images        []ItemImageEmbedRequest `json:"images,omitempty" validate:"omitempty,dive"`
}

// Variants

type ItemVariantCreateRequest struct {
	Color string           `json:"color" validate:"required,max=50"`
	Size  Size             `json:"size" validate:"required,oneof=XS S M L XL XXL"`
	Price *decimal.Decimal `json:"price" validate:"required"`
	Stock *int             `json:"stock" validate:"required,gte=0"`
}

type ItemVariantUpdateRequest struct {
	Color *string          `json:"color,omitempty" validate:"omitempty,min=1,max=50"`
	Size  *Size            `json:"size,omitempty" validate:"omitempty,oneof=XS S M L XL XXL"`
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
}

// Images

type ItemImageCreateRequest struct {
	ItemID       int64  `json:"item_id" validate:"required,gt=0"`
	URL          string `json:"url" validate:"required,http_url"`
	AltText      string `json:"alt_text,omitempty" validate:"max=500"`
	DisplayOrder *int   `json:"display_order,omitempty" validate:"omitempty,gte=0"`
	IsPrimary    *bool  `json:"is_primary,omitempty"`
}

type ItemImageUpdateRequest struct {
	URL          *string `json:"url,omitempty" validate:"omitempty,http_url"`
	AltText      *string `json:"alt_text,omitempty" validate:"omitempty,max=500"`
	DisplayOrder *int    `json:"display_order,omitempty" validate:"omitempty,gte=0"`
	IsPrimary    *bool   `json:"is_primary,omitempty"`
}

// Ratings

// ItemRatingCreateRequest takes the item id from the route when posted under
// an item
type ItemRatingCreateRequest struct {
	ItemID     int64  `json:"item_id,omitempty" validate:"omitempty,gt=0"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Title      string `json:"title,omitempty" validate:"max=100"`
	ReviewText string `json:"review_text,omitempty" validate:"max=2000"`
}

type ItemRatingUpdateRequest struct {
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Title      *string `json:"title,omitempty" validate:"omitempty,max=100"`
	ReviewText *string `json:"review_text,omitempty" validate:"omitempty,max=2000"`
}

// Addresses

type AddressEmbedRequest struct {
	AddressType  AddressType `json:"address_type" validate:"required,oneof=SHIPPING BILLING HOME WORK"`
	AddressLine1 string      `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string      `json:"address_line2,omitempty" validate:"max=255"`
	City         string      `json:"city" validate:"required,max=100"`
	State        string      `json:"state" validate:"required,max=100"`
	Country      string      `json:"country" validate:"required,max=100"`
	PostalCode   string      `json:"postal_code" validate:"required,min=5,max=10,postal"`
}

type AddressCreateRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
	AddressEmbedRequest
}

type AddressUpdateRequest struct {
	AddressType  *AddressType `json:"address_type,omitempty" validate:"omitempty,oneof=SHIPPING BILLING HOME WORK"`
	AddressLine1 *string      `json:"address_line1,omitempty" validate:"omitempty,min=1,max=255"`
	AddressLine2 *string      `json:"address_line2,omitempty" validate:"omitempty,max=255"`
	City         *string      `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	State        *string      `json:"state,omitempty" validate:"omitempty,min=1,max=100"`
	Country      *string      `json:"country,omitempty" validate:"omitempty,min=1,max=100"`
	PostalCode   *string      `json:"postal_code,omitempty" validate:"omitempty,min=5,max=10,postal"`
}

// UserAddressRequest is one entry of a user update's address list. Entries
// with an id update that address, entries without one are created.
type UserAddressRequest struct {
	ID *int64 `json:"id,omitempty" validate:"omitempty,gt=0"`
	AddressEmbedRequest
}

// Users

type UserCreateRequest struct {
	Email     string                `json:"email" validate:"required,email"`
	Password  string                `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Role      UserRole              `json:"role,omitempty" validate:"omitempty,oneof=CUSTOMER ADMIN"`
	Locale    string                `json:"locale" validate:"required,len=2"`
	FirstName string                `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  string                `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Telephone string                `json:"telephone,omitempty" validate:"omitempty,phone"`
	Avatar    string                `json:"avatar,omitempty" validate:"omitempty,url"`
	Addresses []AddressEmbedRequest `json:"addresses,omitempty" validate:"omitempty,max=3,dive"`
}

// UserUpdateRequest applies the fields that are set. A nil address list
// leaves addresses untouched, a supplied list is reconciled against the
// stored set.
type UserUpdateRequest struct {
	Email     *string              `json:"email,omitempty" validate:"omitempty,email"`
	Role      *UserRole            `json:"role,omitempty" validate:"omitempty,oneof=CUSTOMER ADMIN"`
	Locale    *string              `json:"locale,omitempty" validate:"omitempty,len=2"`
	FirstName *string              `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName  *string              `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	Telephone *string              `json:"telephone,omitempty" validate:"omitempty,phone"`
	Avatar    *string              `json:"avatar,omitempty" validate:"omitempty,url"`
	Addresses []UserAddressRequest `json:"addresses" validate:"omitempty,max=3,dive"`
}
