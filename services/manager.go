package services

import (
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CategoryService *CategoryService
	ItemService     *ItemService
	VariantService  *ItemVariantService
	ImageService    *ItemImageService
	RatingService   *RatingService
	AddressService  *AddressService
	UserService     *UserService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, store *repository.Store, cache *CacheService, email *EmailService) *ServiceManager {
	healthService := NewHealthService(logger, cfg.Storage.Driver, store.Health, cache)
	categoryService := NewCategoryService(logger, store)
	itemService := NewItemService(logger, store, categoryService)
	variantService := NewItemVariantService(logger, store)
	imageService := NewItemImageService(logger, store)
	ratingService := NewRatingService(logger, store)
	addressService := NewAddressService(logger, store)
	userService := NewUserService(logger, store, addressService, ratingService, email)
	authService := NewAuthService(logger, cfg, store, userService, cache)

	return &ServiceManager{
		AuthService:     authService,
		EmailService:    email,
		CacheService:    cache,
		HealthService:   healthService,
		CategoryService: categoryService,
		ItemService:     itemService,
		VariantService:  variantService,
		ImageService:    imageService,
		RatingService:   ratingService,
		AddressService:  addressService,
		UserService:     userService,
	}
}
