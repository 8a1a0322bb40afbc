package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/structs/tables"
	"slices"
	"strings"
)

type categoryRepo struct {
	db *memDB
}

func sortCategories(rows []tables.Category) {
	slices.SortFunc(rows, func(a, b tables.Category) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func (r *categoryRepo) FindAll(_ context.Context) ([]tables.Category, error) {
	out := []tables.Category{}
	r.db.read(func(s *state) {
		for _, c := range s.categories {
			out = append(out, c)
		}
	})
	sortCategories(out)
	return out, nil
}

func (r *categoryRepo) FindByID(_ context.Context, id int64) (*tables.Category, error) {
	var out *tables.Category
	r.db.read(func(s *state) {
		if c, ok := s.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r *categoryRepo) FindBySlug(_ context.Context, slug string) (*tables.Category, error) {
	var out *tables.Category
	r.db.read(func(s *state) {
		for _, c := range s.categories {
			if c.Slug == slug {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *categoryRepo) FindByName(_ context.Context, name string) (*tables.Category, error) {
	var out *tables.Category
	r.db.read(func(s *state) {
		for _, c := range s.categories {
			if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *categoryRepo) FindBySlugs(_ context.Context, slugs []string) ([]tables.Category, error) {
	out := []tables.Category{}
	r.db.read(func(s *state) {
		for _, c := range s.categories {
			if slices.Contains(slugs, c.Slug) {
				out = append(out, c)
			}
		}
	})
	sortCategories(out)
	return out, nil
}

func checkCategoryUnique(s *state, c *tables.Category) error {
	for _, other := range s.categories {
		if other.ID == c.ID {
			continue
		}
		if other.Slug == c.Slug {
			return conflict("category slug %q", c.Slug)
		}
		if strings.EqualFold(other.Name, c.Name) {
			return conflict("category name %q", c.Name)
		}
	}
	return nil
}

func (r *categoryRepo) Create(ctx context.Context, category *tables.Category) error {
	return r.db.write(ctx, func(s *state) error {
		if err := checkCategoryUnique(s, category); err != nil {
			return err
		}
		category.ID = s.nextID("categories")
		category.CreatedAt = now()
		s.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepo) Update(ctx context.Context, category *tables.Category) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.categories[category.ID]
		if !ok {
			return nil
		}
		if err := checkCategoryUnique(s, category); err != nil {
			return err
		}
		current.Name = category.Name
		current.Slug = category.Slug
		s.categories[category.ID] = current
		return nil
	})
}

func (r *categoryRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.categories, id)
		for key := range s.itemCategories {
			if key.categoryID == id {
				delete(s.itemCategories, key)
			}
		}
		return nil
	})
}

type itemCategoryRepo struct {
	db *memDB
}

func (r *itemCategoryRepo) Link(ctx context.Context, itemID, categoryID int64) error {
	return r.db.write(ctx, func(s *state) error {
		return link(s, itemID, categoryID)
	})
}

func link(s *state, itemID, categoryID int64) error {
	if _, ok := s.items[itemID]; !ok {
		return missing("item %d", itemID)
	}
	if _, ok := s.categories[categoryID]; !ok {
		return missing("category %d", categoryID)
	}
	s.itemCategories[linkKey{itemID, categoryID}] = struct{}{}
	return nil
}

func (r *itemCategoryRepo) Unlink(ctx context.Context, itemID, categoryID int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.itemCategories, linkKey{itemID, categoryID})
		return nil
	})
}

func (r *itemCategoryRepo) ReplaceForItem(ctx context.Context, itemID int64, categoryIDs []int64) error {
	return r.db.write(ctx, func(s *state) error {
		for _, id := range categoryIDs {
			if _, ok := s.categories[id]; !ok {
				return missing("category %d", id)
			}
		}
		for key := range s.itemCategories {
			if key.itemID == itemID {
				delete(s.itemCategories, key)
			}
		}
		for _, id := range categoryIDs {
			if err := link(s, itemID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *itemCategoryRepo) CategoriesForItems(_ context.Context, itemIDs []int64) (map[int64][]tables.Category, error) {
	out := make(map[int64][]tables.Category, len(itemIDs))
	r.db.read(func(s *state) {
		for key := range s.itemCategories {
			if !slices.Contains(itemIDs, key.itemID) {
				continue
			}
			if c, ok := s.categories[key.categoryID]; ok {
				out[key.itemID] = append(out[key.itemID], c)
			}
		}
	})
	for _, rows := range out {
		sortCategories(rows)
	}
	return out, nil
}

func (r *itemCategoryRepo) ItemIDsForCategory(_ context.Context, categoryID int64) ([]int64, error) {
	ids := []int64{}
	r.db.read(func(s *state) {
		for key := range s.itemCategories {
			if key.categoryID == categoryID {
				ids = append(ids, key.itemID)
			}
		}
	})
	slices.Sort(ids)
	return ids, nil
}
