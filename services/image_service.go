package services

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"

	"github.com/MonkyMars/gecho"
)

// ItemImageService manages single images. An item keeps at most one
// primary image and gets a new one when its primary is deleted.
type ItemImageService struct {
	logger *gecho.Logger
	store  *repository.Store
}

func NewItemImageService(logger *gecho.Logger, store *repository.Store) *ItemImageService {
	return &ItemImageService{logger: logger, store: store}
}

func toItemImageDto(img *tables.ItemImage) structs.ItemImageDto {
	return structs.ItemImageDto{
		ID:           img.ID,
		ItemID:       img.ItemID,
		URL:          img.URL,
		AltText:      img.AltText,
		DisplayOrder: img.DisplayOrder,
		IsPrimary:    img.IsPrimary,
	}
}

func (ims *ItemImageService) GetAll(ctx context.Context, page, pageSize int) (*structs.Page[structs.ItemImageDto], error) {
	page, pageSize = database.NormalizePage(page, pageSize)
	rows, total, err := ims.store.Images.FindAll(ctx, page, pageSize)
	if err != nil {
		ims.logger.Error("Failed to fetch images", gecho.Field("error", err))
		return nil, storeErr("item image", err)
	}

	dtos := make([]structs.ItemImageDto, len(rows))
	for i := range rows {
		dtos[i] = toItemImageDto(&rows[i])
	}
	return &structs.Page[structs.ItemImageDto]{
		Data:       dtos,
		Pagination: database.NewPagination(page, pageSize, total),
	}, nil
}

// GetByItem returns the images of an item ordered by display order
func (ims *ItemImageService) GetByItem(ctx context.Context, itemID int64) ([]structs.ItemImageDto, error) {
	item, err := ims.store.Items.FindByID(ctx, itemID)
	if err != nil {
		return nil, storeErr("item", err)
	}
	if item == nil {
		return nil, lib.NotFound("item", "id", itemID)
	}

	rows, err := ims.store.Images.FindByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return nil, storeErr("item image", err)
	}
	dtos := make([]structs.ItemImageDto, len(rows))
	for i := range rows {
		dtos[i] = toItemImageDto(&rows[i])
	}
	return dtos, nil
}

func (ims *ItemImageService) GetByID(ctx context.Context, id int64) (*structs.ItemImageDto, error) {
	image, err := ims.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toItemImageDto(image)
	return &dto, nil
}

func (ims *ItemImageService) find(ctx context.Context, id int64) (*tables.ItemImage, error) {
	image, err := ims.store.Images.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("item image", err)
	}
	if image == nil {
		return nil, lib.NotFound("item image", "id", id)
	}
	return image, nil
}

// Create adds an image to an item. The first image of an item always
// becomes primary; flagging a later one primary moves the flag.
func (ims *ItemImageService) Create(ctx context.Context, req *structs.ItemImageCreateRequest) (*structs.ItemImageDto, error) {
	if req == nil {
		return nil, lib.Invalid("item image", "request body is required")
	}
	if req.URL == "" {
		return nil, lib.Invalid("item image", "url is required")
	}

	image := &tables.ItemImage{
		ItemID:  req.ItemID,
		URL:     req.URL,
		AltText: req.AltText,
	}
	err := ims.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		item, err := ims.store.Items.FindByID(ctx, req.ItemID)
		if err != nil {
			return storeErr("item", err)
		}
		if item == nil {
			return lib.NotFound("item", "id", req.ItemID)
		}

		existing, err := ims.store.Images.FindByItemIDs(ctx, []int64{req.ItemID})
		if err != nil {
			return storeErr("item image", err)
		}
		image.DisplayOrder = len(existing)
		if req.DisplayOrder != nil {
			image.DisplayOrder = *req.DisplayOrder
		}
		image.IsPrimary = len(existing) == 0 || (req.IsPrimary != nil && *req.IsPrimary)

		if err := ims.store.Images.Create(ctx, image); err != nil {
			return storeErr("item image", err)
		}
		if image.IsPrimary {
			return storeErr("item image", ims.store.Images.ClearPrimary(ctx, image.ItemID, image.ID))
		}
		return nil
	})
	if err != nil {
		ims.logger.Warn("Failed to create image", gecho.Field("item_id", req.ItemID), gecho.Field("error", err))
		return nil, err
	}

	ims.logger.Info("Image created", gecho.Field("id", image.ID), gecho.Field("item_id", image.ItemID))
	dto := toItemImageDto(image)
	return &dto, nil
}

func (ims *ItemImageService) Update(ctx context.Context, id int64, req *structs.ItemImageUpdateRequest) (*structs.ItemImageDto, error) {
	if req == nil {
		return nil, lib.Invalid("item image", "request body is required")
	}

	var image *tables.ItemImage
	err := ims.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if image, err = ims.find(ctx, id); err != nil {
			return err
		}
		wasPrimary := image.IsPrimary

		if req.URL != nil {
			if *req.URL == "" {
				return lib.Invalid("item image", "url cannot be empty")
			}
			image.URL = *req.URL
		}
		if req.AltText != nil {
			image.AltText = *req.AltText
		}
		if req.DisplayOrder != nil {
			image.DisplayOrder = *req.DisplayOrder
		}
		if req.IsPrimary != nil {
			image.IsPrimary = *req.IsPrimary
		}

		if err := ims.store.Images.Update(ctx, image); err != nil {
			return storeErr("item image", err)
		}
		switch {
		case image.IsPrimary && !wasPrimary:
			return storeErr("item image", ims.store.Images.ClearPrimary(ctx, image.ItemID, image.ID))
		case wasPrimary && !image.IsPrimary:
			return ims.promotePrimary(ctx, image.ItemID, image.ID)
		}
		return nil
	})
	if err != nil {
		ims.logger.Warn("Failed to update image", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	ims.logger.Info("Image updated", gecho.Field("id", id))
	dto := toItemImageDto(image)
	return &dto, nil
}

// Delete removes an image. When it was the primary one, the remaining image
// with the lowest display order takes over.
func (ims *ItemImageService) Delete(ctx context.Context, id int64) error {
	err := ims.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		image, err := ims.find(ctx, id)
		if err != nil {
			return err
		}
		if err := ims.store.Images.Delete(ctx, id); err != nil {
			return storeErr("item image", err)
		}
		if image.IsPrimary {
			return ims.promotePrimary(ctx, image.ItemID, 0)
		}
		return nil
	})
	if err != nil {
		ims.logger.Warn("Failed to delete image", gecho.Field("id", id), gecho.Field("error", err))
		return err
	}

	ims.logger.Info("Image deleted", gecho.Field("id", id))
	return nil
}

// promotePrimary flags the first image by display order, skipping skipID,
// as the item's primary image
func (ims *ItemImageService) promotePrimary(ctx context.Context, itemID, skipID int64) error {
	images, err := ims.store.Images.FindByItemIDs(ctx, []int64{itemID})
	if err != nil {
		return storeErr("item image", err)
	}
	for i := range images {
		if images[i].ID == skipID {
			continue
		}
		images[i].IsPrimary = true
		return storeErr("item image", ims.store.Images.Update(ctx, &images[i]))
	}
	return nil
}
