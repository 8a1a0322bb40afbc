package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/structs/tables"
	"slices"
)

type imageRepo struct {
	db *memDB
}

func compareImages(a, b tables.ItemImage) int {
	if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (r *imageRepo) FindAll(_ context.Context, pageNum, pageSize int) ([]tables.ItemImage, int, error) {
	var rows []tables.ItemImage
	r.db.read(func(s *state) {
		for _, img := range s.images {
			rows = append(rows, img)
		}
	})
	slices.SortFunc(rows, func(a, b tables.ItemImage) int {
		if c := cmp.Compare(a.ItemID, b.ItemID); c != 0 {
			return c
		}
		return compareImages(a, b)
	})
	data, total := page(rows, pageNum, pageSize)
	return data, total, nil
}

func (r *imageRepo) FindByID(_ context.Context, id int64) (*tables.ItemImage, error) {
	var out *tables.ItemImage
	r.db.read(func(s *state) {
		if img, ok := s.images[id]; ok {
			out = &img
		}
	})
	return out, nil
}

func (r *imageRepo) FindByItemIDs(_ context.Context, itemIDs []int64) ([]tables.ItemImage, error) {
	out := []tables.ItemImage{}
	r.db.read(func(s *state) {
		for _, img := range s.images {
			if slices.Contains(itemIDs, img.ItemID) {
				out = append(out, img)
			}
		}
	})
	slices.SortFunc(out, compareImages)
	return out, nil
}

func (r *imageRepo) Create(ctx context.Context, image *tables.ItemImage) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.items[image.ItemID]; !ok {
			return missing("item %d", image.ItemID)
		}
		image.ID = s.nextID("item_images")
		image.CreatedAt = now()
		s.images[image.ID] = *image
		return nil
	})
}

func (r *imageRepo) Update(ctx context.Context, image *tables.ItemImage) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.images[image.ID]
		if !ok {
			return nil
		}
		image.CreatedAt = current.CreatedAt
		s.images[image.ID] = *image
		return nil
	})
}

func (r *imageRepo) ClearPrimary(ctx context.Context, itemID, exceptID int64) error {
	return r.db.write(ctx, func(s *state) error {
		for id, img := range s.images {
			if img.ItemID == itemID && img.IsPrimary && id != exceptID {
				img.IsPrimary = false
				s.images[id] = img
			}
		}
		return nil
	})
}

func (r *imageRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.images, id)
		return nil
	})
}

func (r *imageRepo) DeleteByItemID(ctx context.Context, itemID int64) error {
	return r.db.write(ctx, func(s *state) error {
		for id, img := range s.images {
			if img.ItemID == itemID {
				delete(s.images, id)
			}
		}
		return nil
	})
}
