package services

import (
	"context"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// RecomputeAggregates derives an item's rating aggregates from its current
// ratings: the mean of the star values and their count, or zero for both
// when there are none
func RecomputeAggregates(ratings []tables.ItemRating) (average float64, total int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}

// RatingService keeps item rating aggregates in step with the rating set.
// Every mutation recomputes them inside the same transaction.
type RatingService struct {
	logger *gecho.Logger
	store  *repository.Store
}

func NewRatingService(logger *gecho.Logger, store *repository.Store) *RatingService {
	return &RatingService{logger: logger, store: store}
}

func toItemRatingDto(r *tables.ItemRating, author *tables.User) structs.ItemRatingDto {
	dto := structs.ItemRatingDto{
		ID:               r.ID,
		ItemID:           r.ItemID,
		UserID:           r.UserID,
		Rating:           r.Rating,
		Title:            r.Title,
		ReviewText:       r.ReviewText,
		VerifiedPurchase: r.VerifiedPurchase,
		HelpfulVotes:     r.HelpfulVotes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
	if author != nil {
		dto.UserFirstName = author.FirstName
		dto.UserLastName = author.LastName
	}
	return dto
}

func (rs *RatingService) toDtos(ctx context.Context, rows []tables.ItemRating) ([]structs.ItemRatingDto, error) {
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	users, err := rs.store.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("user", err)
	}
	authors := make(map[int64]*tables.User, len(users))
	for i := range users {
		authors[users[i].ID] = &users[i]
	}

	dtos := make([]structs.ItemRatingDto, len(rows))
	for i := range rows {
		dtos[i] = toItemRatingDto(&rows[i], authors[rows[i].UserID])
	}
	return dtos, nil
}

func (rs *RatingService) toDto(ctx context.Context, r *tables.ItemRating) (*structs.ItemRatingDto, error) {
	dtos, err := rs.toDtos(ctx, []tables.ItemRating{*r})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

// GetByItem lists the ratings of an item, newest first
func (rs *RatingService) GetByItem(ctx context.Context, itemID int64) ([]structs.ItemRatingDto, error) {
	if _, err := rs.findItem(ctx, itemID); err != nil {
		return nil, err
	}
	rows, err := rs.store.Ratings.FindByItemID(ctx, itemID)
	if err != nil {
		rs.logger.Error("Failed to fetch ratings", gecho.Field("item_id", itemID), gecho.Field("error", err))
		return nil, storeErr("rating", err)
	}
	return rs.toDtos(ctx, rows)
}

func (rs *RatingService) GetByID(ctx context.Context, id int64) (*structs.ItemRatingDto, error) {
	rating, err := rs.findRating(ctx, id)
	if err != nil {
		return nil, err
	}
	return rs.toDto(ctx, rating)
}

func (rs *RatingService) GetByUser(ctx context.Context, userID int64) ([]structs.ItemRatingDto, error) {
	user, err := rs.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("user", err)
	}
	if user == nil {
		return nil, lib.NotFound("user", "id", userID)
	}
	rows, err := rs.store.Ratings.FindByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr("rating", err)
	}
	return rs.toDtos(ctx, rows)
}

// Breakdown reports the star distribution of an item next to its aggregates
func (rs *RatingService) Breakdown(ctx context.Context, itemID int64) (*structs.RatingBreakdownDto, error) {
	if _, err := rs.findItem(ctx, itemID); err != nil {
		return nil, err
	}
	rows, err := rs.store.Ratings.FindByItemID(ctx, itemID)
	if err != nil {
		return nil, storeErr("rating", err)
	}
	counts, err := rs.store.Ratings.CountByStars(ctx, itemID)
	if err != nil {
		return nil, storeErr("rating", err)
	}

	average, total := RecomputeAggregates(rows)
	return &structs.RatingBreakdownDto{
		AverageRating: average,
		TotalRatings:  total,
		FiveStars:     counts[5],
		FourStars:     counts[4],
		ThreeStars:    counts[3],
		TwoStars:      counts[2],
		OneStar:       counts[1],
	}, nil
}

// Create records userID's rating of an item. A user rates an item once;
// a second rating is rejected and leaves the aggregates untouched.
func (rs *RatingService) Create(ctx context.Context, userID int64, req *structs.ItemRatingCreateRequest) (*structs.ItemRatingDto, error) {
	startTime := time.Now()

	if req == nil {
		return nil, lib.Invalid("rating", "request body is required")
	}
	if req.ItemID <= 0 {
		return nil, lib.Invalid("rating", "item id is required")
	}
	if err := validateStars(req.Rating); err != nil {
		return nil, err
	}

	rating := &tables.ItemRating{
		ItemID:     req.ItemID,
		UserID:     userID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		ReviewText: strings.TrimSpace(req.ReviewText),
	}
	err := rs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := rs.findItem(ctx, req.ItemID); err != nil {
			return err
		}
		user, err := rs.store.Users.FindByID(ctx, userID)
		if err != nil {
			return storeErr("user", err)
		}
		if user == nil {
			return lib.NotFound("user", "id", userID)
		}

		existing, err := rs.store.Ratings.FindByItemAndUser(ctx, req.ItemID, userID)
		if err != nil {
			return storeErr("rating", err)
		}
		if existing != nil {
			return lib.Duplicate("rating", "item/user", fmt.Sprintf("%d/%d", req.ItemID, userID))
		}

		if err := rs.store.Ratings.Create(ctx, rating); err != nil {
			return storeErr("rating", err)
		}
		return rs.refreshAggregates(ctx, rating.ItemID)
	})
	if err != nil {
		rs.logger.Warn("Failed to create rating",
			gecho.Field("item_id", req.ItemID),
			gecho.Field("user_id", userID),
			gecho.Field("error", err))
		return nil, err
	}

	rs.logger.Info("Rating created",
		gecho.Field("id", rating.ID),
		gecho.Field("item_id", rating.ItemID),
		gecho.Field("duration", time.Since(startTime)))
	return rs.toDto(ctx, rating)
}

// Update overwrites the mutable fields of a rating. Only its author or an
// admin may change it.
func (rs *RatingService) Update(ctx context.Context, actor *structs.AuthClaims, ratingID int64, req *structs.ItemRatingUpdateRequest) (*structs.ItemRatingDto, error) {
	if req == nil {
		return nil, lib.Invalid("rating", "request body is required")
	}
	if err := validateStars(req.Rating); err != nil {
		return nil, err
	}

	var rating *tables.ItemRating
	err := rs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if rating, err = rs.findRating(ctx, ratingID); err != nil {
			return err
		}
		if !actor.CanActFor(rating.UserID) {
			return lib.Unauthorized("rating", "only the author or an admin can change a rating")
		}

		rating.Rating = req.Rating
		if req.Title != nil {
			rating.Title = strings.TrimSpace(*req.Title)
		}
		if req.ReviewText != nil {
			rating.ReviewText = strings.TrimSpace(*req.ReviewText)
		}
		if err := rs.store.Ratings.Update(ctx, rating); err != nil {
			return storeErr("rating", err)
		}
		return rs.refreshAggregates(ctx, rating.ItemID)
	})
	if err != nil {
		rs.logger.Warn("Failed to update rating", gecho.Field("id", ratingID), gecho.Field("error", err))
		return nil, err
	}

	rs.logger.Info("Rating updated", gecho.Field("id", ratingID), gecho.Field("item_id", rating.ItemID))
	return rs.toDto(ctx, rating)
}

// Delete removes userID's own rating
func (rs *RatingService) Delete(ctx context.Context, ratingID, userID int64) error {
	var itemID int64
	err := rs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		rating, err := rs.findRating(ctx, ratingID)
		if err != nil {
			return err
		}
		if rating.UserID != userID {
			return lib.Unauthorized("rating", "only the author can delete a rating")
		}
		itemID = rating.ItemID

		if err := rs.store.Ratings.Delete(ctx, ratingID); err != nil {
			return storeErr("rating", err)
		}
		return rs.refreshAggregates(ctx, itemID)
	})
	if err != nil {
		rs.logger.Warn("Failed to delete rating", gecho.Field("id", ratingID), gecho.Field("error", err))
		return err
	}

	rs.logger.Info("Rating deleted", gecho.Field("id", ratingID), gecho.Field("item_id", itemID))
	return nil
}

// MarkHelpful records userID's helpful vote on a rating. Each user votes once.
func (rs *RatingService) MarkHelpful(ctx context.Context, ratingID, userID int64) (*structs.ItemRatingDto, error) {
	var rating *tables.ItemRating
	err := rs.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := rs.findRating(ctx, ratingID); err != nil {
			return err
		}
		if err := rs.store.HelpfulVotes.Add(ctx, ratingID, userID); err != nil {
			if lib.IsConflict(err) {
				return lib.Duplicate("helpful vote", "user_id", userID)
			}
			return storeErr("rating", err)
		}
		if err := rs.store.Ratings.IncrementHelpful(ctx, ratingID); err != nil {
			return storeErr("rating", err)
		}
		var err error
		rating, err = rs.findRating(ctx, ratingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rs.toDto(ctx, rating)
}

// refreshAggregates recomputes and stores the aggregates of itemID from the
// ratings currently visible in ctx
func (rs *RatingService) refreshAggregates(ctx context.Context, itemID int64) error {
	rows, err := rs.store.Ratings.FindByItemID(ctx, itemID)
	if err != nil {
		return storeErr("rating", err)
	}
	average, total := RecomputeAggregates(rows)
	if err := rs.store.Items.UpdateRatingAggregates(ctx, itemID, average, total); err != nil {
		return storeErr("item", err)
	}
	rs.logger.Debug("Rating aggregates refreshed",
		gecho.Field("item_id", itemID),
		gecho.Field("average", average),
		gecho.Field("total", total))
	return nil
}

func (rs *RatingService) findItem(ctx context.Context, id int64) (*tables.Item, error) {
	item, err := rs.store.Items.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("item", err)
	}
	if item == nil {
		return nil, lib.NotFound("item", "id", id)
	}
	return item, nil
}

func (rs *RatingService) findRating(ctx context.Context, id int64) (*tables.ItemRating, error) {
	rating, err := rs.store.Ratings.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("rating", err)
	}
	if rating == nil {
		return nil, lib.NotFound("rating", "id", id)
	}
	return rating, nil
}

func validateStars(stars int) error {
	if stars < 1 || stars > 5 {
		return lib.Invalid("rating", "rating must be between 1 and 5")
	}
	return nil
}
