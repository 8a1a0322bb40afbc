package services

import (
	"context"
	"dallasdresses_server/config"
	"dallasdresses_server/repository/memstore"
	"dallasdresses_server/structs"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *structs.Config {
	return &structs.Config{
		Server:    &structs.ServerConfig{AppName: "Dallas Dresses", BasePath: "/api/v1"},
		Storage:   &structs.StorageConfig{Driver: "memory"},
		Cache:     &structs.CacheConfig{Enabled: false},
		RateLimit: &structs.RateLimitConfig{Enabled: false},
		Auth: &structs.AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			BlacklistTTL:      time.Hour,
		},
		Email: &structs.EmailConfig{},
	}
}

// newTestServices wires every service against an empty in-memory store
func newTestServices(t *testing.T) *ServiceManager {
	t.Helper()
	cfg := newTestConfig()
	logger := config.NewLogger(false)
	return NewServiceManager(logger, cfg, memstore.New(), NewCacheService(logger, cfg), NewEmailService(logger, cfg))
}

func ptr[T any](v T) *T {
	return &v
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func mustCategory(t *testing.T, sm *ServiceManager, name string) *structs.CategoryDto {
	t.Helper()
	category, err := sm.CategoryService.Create(context.Background(), &structs.CategoryCreateRequest{Name: name})
	require.NoError(t, err)
	return category
}

func itemRequest(name, price, slug string) *structs.ItemCreateRequest {
	return &structs.ItemCreateRequest{
		Name:          name,
		Description:   name + " description",
		Color:         "red",
		Size:          structs.SizeM,
		Stock:         ptr(5),
		Price:         dec(price),
		CategorySlugs: []string{slug},
		Images: []structs.ItemImageEmbedRequest{
			{URL: "https://cdn.dallasdresses.test/" + GenerateSlug(name) + ".jpg"},
		},
	}
}

func mustItem(t *testing.T, sm *ServiceManager, name, slug string, parentID *int64) *structs.ItemDto {
	t.Helper()
	req := itemRequest(name, "100.00", slug)
	req.ParentID = parentID
	item, err := sm.ItemService.Create(context.Background(), req)
	require.NoError(t, err)
	return item
}

func homeAddress(line1 string) structs.AddressEmbedRequest {
	return structs.AddressEmbedRequest{
		AddressType:  structs.AddressHome,
		AddressLine1: line1,
		City:         "Dallas",
		State:        "TX",
		Country:      "US",
		PostalCode:   "75201",
	}
}

func mustUser(t *testing.T, sm *ServiceManager, email string, addresses ...structs.AddressEmbedRequest) *structs.UserDto {
	t.Helper()
	user, err := sm.UserService.Create(context.Background(), &structs.UserCreateRequest{
		Email:     email,
		Locale:    "en",
		FirstName: "Test",
		Addresses: addresses,
	})
	require.NoError(t, err)
	return user
}
