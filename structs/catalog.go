package structs

import "strings"

// Size of a dress or of one of its variants
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// Valid reports whether the size is one of the known sizes
func (s Size) Valid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// DiscountType enum
type DiscountType string

const (
	DiscountNone       DiscountType = "NONE"
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// IsSet reports whether a discount applies at all
func (d DiscountType) IsSet() bool {
	return d != "" && d != DiscountNone
}

// AddressType enum
type AddressType string

const (
	AddressShipping AddressType = "SHIPPING"
	AddressBilling  AddressType = "BILLING"
	AddressHome     AddressType = "HOME"
	AddressWork     AddressType = "WORK"
)

// UserRole enum
type UserRole string

const (
	RoleCustomer UserRole = "CUSTOMER"
	RoleAdmin    UserRole = "ADMIN"
)

// Hasher names the password hashing scheme stored with a credential
type Hasher string

const (
	HasherArgon2id Hasher = "ARGON2ID"
)

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
