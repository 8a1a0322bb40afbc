package ratings

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (rm *RatingRoutesManager) ListItemRatings(w http.ResponseWriter, r *http.Request) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", rm.logger, w)
		return
	}

	ratings, err := rm.ratingService.GetByItem(r.Context(), itemID)
	if err != nil {
		handling.WriteError(err, "list ratings", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(ratings), gecho.Send())
}

func (rm *RatingRoutesManager) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", rm.logger, w)
		return
	}

	breakdown, err := rm.ratingService.Breakdown(r.Context(), itemID)
	if err != nil {
		handling.WriteError(err, "rating breakdown", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(breakdown), gecho.Send())
}

func (rm *RatingRoutesManager) GetRating(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse rating id", rm.logger, w)
		return
	}

	rating, err := rm.ratingService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get rating", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(rating), gecho.Send())
}

func (rm *RatingRoutesManager) ListMyRatings(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	ratings, err := rm.ratingService.GetByUser(r.Context(), claims.Sub)
	if err != nil {
		handling.WriteError(err, "list user ratings", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(ratings), gecho.Send())
}

func (rm *RatingRoutesManager) CreateRating(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", rm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemRatingCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode rating", rm.logger, w)
		return
	}
	body.ItemID = itemID

	rating, err := rm.ratingService.Create(r.Context(), claims.Sub, body)
	if err != nil {
		handling.WriteError(err, "create rating", rm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(rating),
		gecho.WithMessage("Rating created successfully"),
		gecho.Send(),
	)
}

func (rm *RatingRoutesManager) UpdateRating(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse rating id", rm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemRatingUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode rating update", rm.logger, w)
		return
	}

	rating, err := rm.ratingService.Update(r.Context(), claims, id, body)
	if err != nil {
		handling.WriteError(err, "update rating", rm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(rating),
		gecho.WithMessage("Rating updated successfully"),
		gecho.Send(),
	)
}

func (rm *RatingRoutesManager) DeleteRating(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse rating id", rm.logger, w)
		return
	}

	if err := rm.ratingService.Delete(r.Context(), id, claims.Sub); err != nil {
		handling.WriteError(err, "delete rating", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Rating deleted successfully"), gecho.Send())
}

func (rm *RatingRoutesManager) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())

	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse rating id", rm.logger, w)
		return
	}

	rating, err := rm.ratingService.MarkHelpful(r.Context(), id, claims.Sub)
	if err != nil {
		handling.WriteError(err, "mark rating helpful", rm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(rating), gecho.Send())
}
