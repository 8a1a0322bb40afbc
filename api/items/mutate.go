package items

import (
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ir *ItemRoutesManager) CreateItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ItemCreateRequest](r)
	if err != nil {
		ir.logger.Debug("Failed to extract and validate body", gecho.Field("error", err))
		handling.WriteError(err, "decode item", ir.logger, w)
		return
	}

	ir.logger.Debug("CreateItem request received",
		gecho.Field("name", body.Name),
		gecho.Field("images_count", len(body.Images)),
		gecho.Field("categories", body.CategorySlugs),
	)

	item, err := ir.itemService.Create(r.Context(), body)
	if err != nil {
		handling.WriteError(err, "create item", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.WithMessage("Item created successfully"),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode item update", ir.logger, w)
		return
	}

	item, err := ir.itemService.Update(r.Context(), id, body)
	if err != nil {
		handling.WriteError(err, "update item", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(item),
		gecho.WithMessage("Item updated successfully"),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}

	if err := ir.itemService.Delete(r.Context(), id); err != nil {
		handling.WriteError(err, "delete item", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Item deleted successfully"),
		gecho.Send(),
	)
}
