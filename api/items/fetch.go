package items

import (
	"dallasdresses_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ir *ItemRoutesManager) ListItems(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseItemListOptions(r)
	if err != nil {
		handling.WriteError(err, "parse item list options", ir.logger, w)
		return
	}

	page, err := ir.itemService.GetAll(r.Context(), opts)
	if err != nil {
		handling.WriteError(err, "list items", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(page),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) ListItemsByCategory(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.WriteError(err, "parse page", ir.logger, w)
		return
	}

	result, err := ir.itemService.GetByCategorySlug(r.Context(), chi.URLParam(r, "slug"), page, pageSize)
	if err != nil {
		handling.WriteError(err, "list items by category", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}

	item, err := ir.itemService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get item", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.Send(),
	)
}
