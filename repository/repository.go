// Package repository declares the persistence contracts of the catalog and
// user domain. Lookups return (nil, nil) when the row does not exist; every
// other failure is returned as an error.
package repository

import (
	"context"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"time"

	"github.com/shopspring/decimal"
)

// Transactor runs fn as one unit of work. Repository calls made with the
// context handed to fn take part in the same transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// ItemFilter narrows and orders an item listing
type ItemFilter struct {
	Page          int
	PageSize      int
	Search        string
	CategorySlug  string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	ParentID      *int64
	OnlyRoots     bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SortBy        string // created_at, price, name, average_rating
	SortDirection string // asc, desc
}

type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*tables.Item, error)
	FindByIDs(ctx context.Context, ids []int64) ([]tables.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]tables.Item, int, error)
	FindChildren(ctx context.Context, parentIDs []int64) ([]tables.Item, error)
	ExistsByNamePriceDiscount(ctx context.Context, name string, price decimal.Decimal, discountType structs.DiscountType, excludeID int64) (bool, error)
	Create(ctx context.Context, item *tables.Item) error
	Update(ctx context.Context, item *tables.Item) error
	SetParent(ctx context.Context, id int64, parentID *int64) error
	DetachChildren(ctx context.Context, parentID int64) error
	UpdateRatingAggregates(ctx context.Context, id int64, average float64, total int) error
	Delete(ctx context.Context, id int64) error
}

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]tables.Category, error)
	FindByID(ctx context.Context, id int64) (*tables.Category, error)
	FindBySlug(ctx context.Context, slug string) (*tables.Category, error)
	FindByName(ctx context.Context, name string) (*tables.Category, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]tables.Category, error)
	Create(ctx context.Context, category *tables.Category) error
	Update(ctx context.Context, category *tables.Category) error
	Delete(ctx context.Context, id int64) error
}

// ItemCategoryRepository owns the join rows of the item <-> category relation.
// Both sides of the association are read from these rows.
type ItemCategoryRepository interface {
	Link(ctx context.Context, itemID, categoryID int64) error
	Unlink(ctx context.Context, itemID, categoryID int64) error
	ReplaceForItem(ctx context.Context, itemID int64, categoryIDs []int64) error
	CategoriesForItems(ctx context.Context, itemIDs []int64) (map[int64][]tables.Category, error)
	ItemIDsForCategory(ctx context.Context, categoryID int64) ([]int64, error)
}

type ItemImageRepository interface {
	FindAll(ctx context.Context, page, pageSize int) ([]tables.ItemImage, int, error)
	FindByID(ctx context.Context, id int64) (*tables.ItemImage, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]tables.ItemImage, error)
	Create(ctx context.Context, image *tables.ItemImage) error
	Update(ctx context.Context, image *tables.ItemImage) error
	ClearPrimary(ctx context.Context, itemID, exceptID int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByItemID(ctx context.Context, itemID int64) error
}

type ItemVariantRepository interface {
	FindAll(ctx context.Context, page, pageSize int) ([]tables.ItemVariant, int, error)
	FindByID(ctx context.Context, id int64) (*tables.ItemVariant, error)
	FindByItemID(ctx context.Context, itemID int64, page, pageSize int) ([]tables.ItemVariant, int, error)
	FindByItemIDs(ctx context.Context, itemIDs []int64) ([]tables.ItemVariant, error)
	ExistsByItemColorSize(ctx context.Context, itemID int64, color string, size structs.Size, excludeID int64) (bool, error)
	Create(ctx context.Context, variant *tables.ItemVariant) error
	Update(ctx context.Context, variant *tables.ItemVariant) error
	Delete(ctx context.Context, id int64) error
}

type ItemRatingRepository interface {
	FindByID(ctx context.Context, id int64) (*tables.ItemRating, error)
	FindByItemID(ctx context.Context, itemID int64) ([]tables.ItemRating, error)
	FindByUserID(ctx context.Context, userID int64) ([]tables.ItemRating, error)
	FindByItemAndUser(ctx context.Context, itemID, userID int64) (*tables.ItemRating, error)
	// CountByStars returns the number of ratings per star value (1-5)
	CountByStars(ctx context.Context, itemID int64) (map[int]int, error)
	Create(ctx context.Context, rating *tables.ItemRating) error
	Update(ctx context.Context, rating *tables.ItemRating) error
	IncrementHelpful(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type RatingHelpfulVoteRepository interface {
	// Add records userID's vote on ratingID; a repeated vote is a conflict
	Add(ctx context.Context, ratingID, userID int64) error
}

type UserRepository interface {
	FindAll(ctx context.Context, page, pageSize int) ([]tables.User, int, error)
	FindByID(ctx context.Context, id int64) (*tables.User, error)
	FindByIDs(ctx context.Context, ids []int64) ([]tables.User, error)
	FindByEmail(ctx context.Context, email string) (*tables.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, user *tables.User) error
	Update(ctx context.Context, user *tables.User) error
	Delete(ctx context.Context, id int64) error
}

type AddressRepository interface {
	FindAll(ctx context.Context, page, pageSize int) ([]tables.Address, int, error)
	FindByID(ctx context.Context, id int64) (*tables.Address, error)
	FindByUserIDs(ctx context.Context, userIDs []int64) ([]tables.Address, error)
	ExistsByTuple(ctx context.Context, userID int64, line1, city, state, postalCode string, excludeID int64) (bool, error)
	Create(ctx context.Context, address *tables.Address) error
	Update(ctx context.Context, address *tables.Address) error
	Delete(ctx context.Context, id int64) error
}

type CredentialRepository interface {
	FindByProviderKey(ctx context.Context, provider, key string) (*tables.Credential, error)
	FindByUserID(ctx context.Context, userID int64) ([]tables.Credential, error)
	Create(ctx context.Context, credential *tables.Credential) error
	UpdateProviderKey(ctx context.Context, userID int64, provider, key string) error
}

// Store bundles every repository of one backend
type Store struct {
	Tx             Transactor
	Health         Pinger
	Items          ItemRepository
	Categories     CategoryRepository
	ItemCategories ItemCategoryRepository
	Images         ItemImageRepository
	Variants       ItemVariantRepository
	Ratings        ItemRatingRepository
	HelpfulVotes   RatingHelpfulVoteRepository
	Users          UserRepository
	Addresses      AddressRepository
	Credentials    CredentialRepository
}
