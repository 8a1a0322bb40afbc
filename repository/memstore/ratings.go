package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/structs/tables"
	"slices"
)

type ratingRepo struct {
	db *memDB
}

// newestFirst orders ratings by creation time, newest first
func newestFirst(a, b tables.ItemRating) int {
	if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(b.ID, a.ID)
}

func (r *ratingRepo) filter(keep func(tables.ItemRating) bool) []tables.ItemRating {
	out := []tables.ItemRating{}
	r.db.read(func(s *state) {
		for _, rt := range s.ratings {
			if keep(rt) {
				out = append(out, rt)
			}
		}
	})
	slices.SortFunc(out, newestFirst)
	return out
}

func (r *ratingRepo) FindByID(_ context.Context, id int64) (*tables.ItemRating, error) {
	var out *tables.ItemRating
	r.db.read(func(s *state) {
		if rt, ok := s.ratings[id]; ok {
			out = &rt
		}
	})
	return out, nil
}

func (r *ratingRepo) FindByItemID(_ context.Context, itemID int64) ([]tables.ItemRating, error) {
	return r.filter(func(rt tables.ItemRating) bool { return rt.ItemID == itemID }), nil
}

func (r *ratingRepo) FindByUserID(_ context.Context, userID int64) ([]tables.ItemRating, error) {
	return r.filter(func(rt tables.ItemRating) bool { return rt.UserID == userID }), nil
}

func (r *ratingRepo) FindByItemAndUser(_ context.Context, itemID, userID int64) (*tables.ItemRating, error) {
	rows := r.filter(func(rt tables.ItemRating) bool { return rt.ItemID == itemID && rt.UserID == userID })
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *ratingRepo) CountByStars(_ context.Context, itemID int64) (map[int]int, error) {
	counts := make(map[int]int, 5)
	r.db.read(func(s *state) {
		for _, rt := range s.ratings {
			if rt.ItemID == itemID {
				counts[rt.Rating]++
			}
		}
	})
	return counts, nil
}

func (r *ratingRepo) Create(ctx context.Context, rating *tables.ItemRating) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.items[rating.ItemID]; !ok {
			return missing("item %d", rating.ItemID)
		}
		if _, ok := s.users[rating.UserID]; !ok {
			return missing("user %d", rating.UserID)
		}
		if rating.Rating < 1 || rating.Rating > 5 {
			return invalid("rating %d out of range", rating.Rating)
		}
		for _, other := range s.ratings {
			if other.ItemID == rating.ItemID && other.UserID == rating.UserID {
				return conflict("rating (%d, %d)", rating.ItemID, rating.UserID)
			}
		}
		rating.ID = s.nextID("item_ratings")
		rating.CreatedAt = now()
		rating.UpdatedAt = rating.CreatedAt
		s.ratings[rating.ID] = *rating
		return nil
	})
}

func (r *ratingRepo) Update(ctx context.Context, rating *tables.ItemRating) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.ratings[rating.ID]
		if !ok {
			return nil
		}
		if rating.Rating < 1 || rating.Rating > 5 {
			return invalid("rating %d out of range", rating.Rating)
		}
		rating.CreatedAt = current.CreatedAt
		rating.UpdatedAt = now()
		s.ratings[rating.ID] = *rating
		return nil
	})
}

func (r *ratingRepo) IncrementHelpful(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		if rt, ok := s.ratings[id]; ok {
			rt.HelpfulVotes++
			s.ratings[id] = rt
		}
		return nil
	})
}

func (r *ratingRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		s.dropRating(id)
		return nil
	})
}

type helpfulVoteRepo struct {
	db *memDB
}

func (r *helpfulVoteRepo) Add(ctx context.Context, ratingID, userID int64) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.ratings[ratingID]; !ok {
			return missing("rating %d", ratingID)
		}
		if _, ok := s.users[userID]; !ok {
			return missing("user %d", userID)
		}
		key := voteKey{ratingID: ratingID, userID: userID}
		if _, ok := s.helpfulVotes[key]; ok {
			return conflict("helpful vote (%d, %d)", ratingID, userID)
		}
		s.helpfulVotes[key] = now()
		return nil
	})
}
