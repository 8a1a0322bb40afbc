package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/structs/tables"
)

type ratingRepo struct {
	db *database.DB
}

func (r *ratingRepo) FindByID(ctx context.Context, id int64) (*tables.ItemRating, error) {
	rating, err := database.FindByID[tables.ItemRating](ctx, r.db, "ir.id", id)
	return rating, mapErr(err)
}

func (r *ratingRepo) FindByItemID(ctx context.Context, itemID int64) ([]tables.ItemRating, error) {
	ratings, err := database.Query[tables.ItemRating](r.db).
		Where("ir.item_id", itemID).
		OrderBy("ir.created_at", database.DESC).
		OrderBy("ir.id", database.DESC).
		All(ctx)
	return ratings, mapErr(err)
}

func (r *ratingRepo) FindByUserID(ctx context.Context, userID int64) ([]tables.ItemRating, error) {
	ratings, err := database.Query[tables.ItemRating](r.db).
		Where("ir.user_id", userID).
		OrderBy("ir.created_at", database.DESC).
		OrderBy("ir.id", database.DESC).
		All(ctx)
	return ratings, mapErr(err)
}

func (r *ratingRepo) FindByItemAndUser(ctx context.Context, itemID, userID int64) (*tables.ItemRating, error) {
	rating, err := database.Query[tables.ItemRating](r.db).
		Where("ir.item_id", itemID).
		Where("ir.user_id", userID).
		First(ctx)
	return rating, mapErr(err)
}

type starCount struct {
	Rating int `bun:"rating"`
	Count  int `bun:"count"`
}

func (r *ratingRepo) CountByStars(ctx context.Context, itemID int64) (map[int]int, error) {
	rows, err := database.RawQuery[starCount](ctx, r.db,
		`SELECT rating, count(*) AS count
		   FROM item_ratings
		  WHERE item_id = ?
		  GROUP BY rating`,
		itemID,
	)
	if err != nil {
		return nil, mapErr(err)
	}

	counts := make(map[int]int, 5)
	for _, row := range rows {
		counts[row.Rating] = row.Count
	}
	return counts, nil
}

func (r *ratingRepo) Create(ctx context.Context, rating *tables.ItemRating) error {
	rating.CreatedAt = now()
	rating.UpdatedAt = rating.CreatedAt
	_, err := database.Create[tables.ItemRating](ctx, r.db, rating)
	return mapErr(err)
}

func (r *ratingRepo) Update(ctx context.Context, rating *tables.ItemRating) error {
	rating.UpdatedAt = now()
	_, err := database.UpdateByID[tables.ItemRating](ctx, r.db, "ir.id", rating.ID, rating)
	return mapErr(err)
}

func (r *ratingRepo) IncrementHelpful(ctx context.Context, id int64) error {
	_, err := database.RawExec(ctx, r.db,
		"UPDATE item_ratings SET helpful_votes = helpful_votes + 1 WHERE id = ?", id)
	return mapErr(err)
}

func (r *ratingRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.ItemRating](ctx, r.db, "ir.id", id)
	return mapErr(err)
}

type helpfulVoteRepo struct {
	db *database.DB
}

func (r *helpfulVoteRepo) Add(ctx context.Context, ratingID, userID int64) error {
	vote := &tables.RatingHelpfulVote{RatingID: ratingID, UserID: userID, CreatedAt: now()}
	_, err := database.Create[tables.RatingHelpfulVote](ctx, r.db, vote)
	return mapErr(err)
}
