package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"slices"
)

type variantRepo struct {
	db *memDB
}

func byVariantID(a, b tables.ItemVariant) int {
	return cmp.Compare(a.ID, b.ID)
}

func (r *variantRepo) FindAll(_ context.Context, pageNum, pageSize int) ([]tables.ItemVariant, int, error) {
	var rows []tables.ItemVariant
	r.db.read(func(s *state) {
		for _, v := range s.variants {
			rows = append(rows, v)
		}
	})
	slices.SortFunc(rows, byVariantID)
	data, total := page(rows, pageNum, pageSize)
	return data, total, nil
}

func (r *variantRepo) FindByID(_ context.Context, id int64) (*tables.ItemVariant, error) {
	var out *tables.ItemVariant
	r.db.read(func(s *state) {
		if v, ok := s.variants[id]; ok {
			out = &v
		}
	})
	return out, nil
}

func (r *variantRepo) FindByItemID(ctx context.Context, itemID int64, pageNum, pageSize int) ([]tables.ItemVariant, int, error) {
	rows, _ := r.FindByItemIDs(ctx, []int64{itemID})
	data, total := page(rows, pageNum, pageSize)
	return data, total, nil
}

func (r *variantRepo) FindByItemIDs(_ context.Context, itemIDs []int64) ([]tables.ItemVariant, error) {
	out := []tables.ItemVariant{}
	r.db.read(func(s *state) {
		for _, v := range s.variants {
			if slices.Contains(itemIDs, v.ItemID) {
				out = append(out, v)
			}
		}
	})
	slices.SortFunc(out, byVariantID)
	return out, nil
}

func variantTaken(s *state, itemID int64, color string, size structs.Size, excludeID int64) bool {
	for _, v := range s.variants {
		if v.ID != excludeID && v.ItemID == itemID && v.Color == color && v.Size == size {
			return true
		}
	}
	return false
}

func (r *variantRepo) ExistsByItemColorSize(_ context.Context, itemID int64, color string, size structs.Size, excludeID int64) (bool, error) {
	found := false
	r.db.read(func(s *state) {
		found = variantTaken(s, itemID, color, size, excludeID)
	})
	return found, nil
}

func (r *variantRepo) Create(ctx context.Context, variant *tables.ItemVariant) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.items[variant.ItemID]; !ok {
			return missing("item %d", variant.ItemID)
		}
		if variantTaken(s, variant.ItemID, variant.Color, variant.Size, 0) {
			return conflict("variant (%d, %s, %s)", variant.ItemID, variant.Color, variant.Size)
		}
		variant.ID = s.nextID("item_variants")
		variant.CreatedAt = now()
		variant.UpdatedAt = variant.CreatedAt
		s.variants[variant.ID] = *variant
		return nil
	})
}

func (r *variantRepo) Update(ctx context.Context, variant *tables.ItemVariant) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.variants[variant.ID]
		if !ok {
			return nil
		}
		if variantTaken(s, variant.ItemID, variant.Color, variant.Size, variant.ID) {
			return conflict("variant (%d, %s, %s)", variant.ItemID, variant.Color, variant.Size)
		}
		variant.CreatedAt = current.CreatedAt
		variant.UpdatedAt = now()
		s.variants[variant.ID] = *variant
		return nil
	})
}

func (r *variantRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.variants, id)
		return nil
	})
}
