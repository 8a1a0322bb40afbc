package items

import (
	"context"
	"dallasdresses_server/handling"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (ir *ItemRoutesManager) AddCategory(w http.ResponseWriter, r *http.Request) {
	ir.changeCategory(w, r, ir.itemService.AddCategory, "Category added to item")
}

func (ir *ItemRoutesManager) RemoveCategory(w http.ResponseWriter, r *http.Request) {
	ir.changeCategory(w, r, ir.itemService.RemoveCategory, "Category removed from item")
}

func (ir *ItemRoutesManager) AddChild(w http.ResponseWriter, r *http.Request) {
	ir.changeChild(w, r, ir.itemService.AddChild, "Child added to item")
}

func (ir *ItemRoutesManager) RemoveChild(w http.ResponseWriter, r *http.Request) {
	ir.changeChild(w, r, ir.itemService.RemoveChild, "Child removed from item")
}

func (ir *ItemRoutesManager) changeCategory(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, itemID int64, slug string) (*structs.ItemDto, error),
	message string,
) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}

	item, err := change(r.Context(), id, chi.URLParam(r, "slug"))
	if err != nil {
		handling.WriteError(err, "change item category", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.WithMessage(message),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) changeChild(
	w http.ResponseWriter,
	r *http.Request,
	change func(ctx context.Context, parentID, childID int64) (*structs.ItemDto, error),
	message string,
) {
	parentID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}
	childID, err := handling.ParseID(r, "childId")
	if err != nil {
		handling.WriteError(err, "parse child id", ir.logger, w)
		return
	}

	item, err := change(r.Context(), parentID, childID)
	if err != nil {
		handling.WriteError(err, "change item child", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.WithMessage(message),
		gecho.Send(),
	)
}
