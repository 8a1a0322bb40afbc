package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

type itemRepo struct {
	db *memDB
}

func storedItem(it tables.Item) tables.Item {
	it.ParentID = copyID(it.ParentID)
	return it
}

func (r *itemRepo) FindByID(_ context.Context, id int64) (*tables.Item, error) {
	var out *tables.Item
	r.db.read(func(s *state) {
		if it, ok := s.items[id]; ok {
			it = storedItem(it)
			out = &it
		}
	})
	return out, nil
}

func (r *itemRepo) FindByIDs(_ context.Context, ids []int64) ([]tables.Item, error) {
	out := []tables.Item{}
	r.db.read(func(s *state) {
		for _, id := range ids {
			if it, ok := s.items[id]; ok {
				out = append(out, storedItem(it))
			}
		}
	})
	slices.SortFunc(out, func(a, b tables.Item) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *itemRepo) List(_ context.Context, f repository.ItemFilter) ([]tables.Item, int, error) {
	var rows []tables.Item
	search := strings.ToLower(strings.TrimSpace(f.Search))

	r.db.read(func(s *state) {
		var categoryID int64 = -1
		if f.CategorySlug != "" {
			for _, c := range s.categories {
				if c.Slug == f.CategorySlug {
					categoryID = c.ID
				}
			}
		}

		for _, it := range s.items {
			if f.CategorySlug != "" {
				if _, ok := s.itemCategories[linkKey{it.ID, categoryID}]; !ok {
					continue
				}
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(it.Name), search) &&
				!strings.Contains(strings.ToLower(it.Description), search) &&
				!strings.Contains(strings.ToLower(it.Color), search) {
				continue
			}
			if f.MinPrice != nil && it.Price.LessThan(*f.MinPrice) {
				continue
			}
			if f.MaxPrice != nil && it.Price.GreaterThan(*f.MaxPrice) {
				continue
			}
			if f.ParentID != nil && (it.ParentID == nil || *it.ParentID != *f.ParentID) {
				continue
			}
			if f.OnlyRoots && it.ParentID != nil {
				continue
			}
			if f.CreatedAfter != nil && it.CreatedAt.Before(*f.CreatedAfter) {
				continue
			}
			if f.CreatedBefore != nil && it.CreatedAt.After(*f.CreatedBefore) {
				continue
			}
			rows = append(rows, storedItem(it))
		}
	})

	desc := !strings.EqualFold(f.SortDirection, "asc")
	slices.SortStableFunc(rows, func(a, b tables.Item) int {
		var c int
		switch f.SortBy {
		case "price":
			c = a.Price.Cmp(b.Price)
		case "name":
			c = strings.Compare(a.Name, b.Name)
		case "average_rating":
			c = cmp.Compare(a.AverageRating, b.AverageRating)
		default:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		if desc {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	data, total := page(rows, f.Page, f.PageSize)
	return data, total, nil
}

func (r *itemRepo) FindChildren(_ context.Context, parentIDs []int64) ([]tables.Item, error) {
	out := []tables.Item{}
	r.db.read(func(s *state) {
		for _, it := range s.items {
			if it.ParentID != nil && slices.Contains(parentIDs, *it.ParentID) {
				out = append(out, storedItem(it))
			}
		}
	})
	slices.SortFunc(out, func(a, b tables.Item) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *itemRepo) ExistsByNamePriceDiscount(_ context.Context, name string, price decimal.Decimal, discountType structs.DiscountType, excludeID int64) (bool, error) {
	found := false
	r.db.read(func(s *state) {
		for _, it := range s.items {
			if it.ID != excludeID && it.Name == name && it.Price.Equal(price) && it.DiscountType == discountType {
				found = true
				return
			}
		}
	})
	return found, nil
}

func checkParent(s *state, id int64, parentID *int64) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return invalid("item %d cannot be its own parent", id)
	}
	if _, ok := s.items[*parentID]; !ok {
		return missing("parent item %d", *parentID)
	}
	return nil
}

func (r *itemRepo) Create(ctx context.Context, item *tables.Item) error {
	return r.db.write(ctx, func(s *state) error {
		if err := checkParent(s, 0, item.ParentID); err != nil {
			return err
		}
		item.ID = s.nextID("items")
		item.CreatedAt = now()
		item.UpdatedAt = item.CreatedAt
		if item.DiscountType == "" {
			item.DiscountType = structs.DiscountNone
		}
		s.items[item.ID] = storedItem(*item)
		return nil
	})
}

func (r *itemRepo) Update(ctx context.Context, item *tables.Item) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.items[item.ID]
		if !ok {
			return nil
		}
		if err := checkParent(s, item.ID, item.ParentID); err != nil {
			return err
		}
		item.CreatedAt = current.CreatedAt
		item.UpdatedAt = now()
		s.items[item.ID] = storedItem(*item)
		return nil
	})
}

func (r *itemRepo) SetParent(ctx context.Context, id int64, parentID *int64) error {
	return r.db.write(ctx, func(s *state) error {
		it, ok := s.items[id]
		if !ok {
			return nil
		}
		if err := checkParent(s, id, parentID); err != nil {
			return err
		}
		it.ParentID = copyID(parentID)
		it.UpdatedAt = now()
		s.items[id] = it
		return nil
	})
}

func (r *itemRepo) DetachChildren(ctx context.Context, parentID int64) error {
	return r.db.write(ctx, func(s *state) error {
		detachChildren(s, parentID)
		return nil
	})
}

func detachChildren(s *state, parentID int64) {
	for id, it := range s.items {
		if it.ParentID != nil && *it.ParentID == parentID {
			it.ParentID = nil
			it.UpdatedAt = now()
			s.items[id] = it
		}
	}
}

func (r *itemRepo) UpdateRatingAggregates(ctx context.Context, id int64, average float64, total int) error {
	return r.db.write(ctx, func(s *state) error {
		if it, ok := s.items[id]; ok {
			it.AverageRating = average
			it.TotalRatings = total
			s.items[id] = it
		}
		return nil
	})
}

// Delete removes the item with the cascades of the schema: children are
// detached, owned rows and category links are removed.
func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.items[id]; !ok {
			return nil
		}
		delete(s.items, id)
		detachChildren(s, id)

		for key := range s.itemCategories {
			if key.itemID == id {
				delete(s.itemCategories, key)
			}
		}
		for imgID, img := range s.images {
			if img.ItemID == id {
				delete(s.images, imgID)
			}
		}
		for varID, v := range s.variants {
			if v.ItemID == id {
				delete(s.variants, varID)
			}
		}
		for ratingID, rt := range s.ratings {
			if rt.ItemID == id {
				s.dropRating(ratingID)
			}
		}
		return nil
	})
}
