package tables

import (
	"dallasdresses_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID            int64            `bun:"id,pk,autoincrement" json:"id"`
	Email         string           `bun:"email,notnull,unique" json:"email"`
	Role          structs.UserRole `bun:"role,notnull,default:'CUSTOMER'" json:"role"`
	Locale        string           `bun:"locale,notnull" json:"locale"`
	EmailVerified bool             `bun:"email_verified,notnull,default:false" json:"email_verified"`
	FirstName     string           `bun:"first_name" json:"first_name,omitempty"`
	LastName      string           `bun:"last_name" json:"last_name,omitempty"`
	Telephone     string           `bun:"telephone" json:"telephone,omitempty"`
	Avatar        string           `bun:"avatar" json:"avatar,omitempty"`
	CreatedAt     time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time        `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`

	ID           int64               `bun:"id,pk,autoincrement" json:"id"`
	UserID       int64               `bun:"user_id,notnull" json:"user_id"`
	AddressType  structs.AddressType `bun:"address_type,notnull" json:"address_type"`
	AddressLine1 string              `bun:"address_line1,notnull" json:"address_line1"`
	AddressLine2 string              `bun:"address_line2" json:"address_line2,omitempty"`
	City         string              `bun:"city,notnull" json:"city"`
	State        string              `bun:"state,notnull" json:"state"`
	Country      string              `bun:"country,notnull" json:"country"`
	PostalCode   string              `bun:"postal_code,notnull" json:"postal_code"`
	CreatedAt    time.Time           `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time           `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// SameTuple reports whether both addresses share the per-user unique tuple
func (a *Address) SameTuple(line1, city, state, postalCode string) bool {
	return a.AddressLine1 == line1 && a.City == city && a.State == state && a.PostalCode == postalCode
}

// Credential is a login secret owned by a user. Provider "local" means an
// argon2id password keyed by the user's email.
type Credential struct {
	bun.BaseModel `bun:"table:credentials,alias:cr"`

	ID           uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	UserID       int64          `bun:"user_id,notnull" json:"user_id"`
	Provider     string         `bun:"provider,notnull,default:'local'" json:"provider"`
	ProviderKey  string         `bun:"provider_key,notnull" json:"provider_key"`
	Hasher       structs.Hasher `bun:"hasher,notnull" json:"-"`
	PasswordHash string         `bun:"password_hash,notnull" json:"-"`
	PasswordSalt string         `bun:"password_salt,notnull" json:"-"`
	CreatedAt    time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

const ProviderLocal = "local"
