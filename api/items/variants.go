package items

import (
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ir *ItemRoutesManager) ListVariants(w http.ResponseWriter, r *http.Request) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.WriteError(err, "parse page", ir.logger, w)
		return
	}

	variants, err := ir.variantService.GetByItem(r.Context(), itemID, page, pageSize)
	if err != nil {
		handling.WriteError(err, "list variants", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(variants),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) GetVariant(w http.ResponseWriter, r *http.Request) {
	itemID, variantID, ok := ir.variantIDs(w, r)
	if !ok {
		return
	}

	variant, err := ir.variantService.GetByID(r.Context(), itemID, variantID)
	if err != nil {
		handling.WriteError(err, "get variant", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(variant),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) CreateVariant(w http.ResponseWriter, r *http.Request) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemVariantCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode variant", ir.logger, w)
		return
	}

	variant, err := ir.variantService.Create(r.Context(), itemID, body)
	if err != nil {
		handling.WriteError(err, "create variant", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(variant),
		gecho.WithMessage("Variant created successfully"),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	itemID, variantID, ok := ir.variantIDs(w, r)
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemVariantUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode variant update", ir.logger, w)
		return
	}

	variant, err := ir.variantService.Update(r.Context(), itemID, variantID, body)
	if err != nil {
		handling.WriteError(err, "update variant", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(variant),
		gecho.WithMessage("Variant updated successfully"),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	itemID, variantID, ok := ir.variantIDs(w, r)
	if !ok {
		return
	}

	if err := ir.variantService.Delete(r.Context(), itemID, variantID); err != nil {
		handling.WriteError(err, "delete variant", ir.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Variant deleted successfully"),
		gecho.Send(),
	)
}

func (ir *ItemRoutesManager) variantIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", ir.logger, w)
		return 0, 0, false
	}
	variantID, err := handling.ParseID(r, "variantId")
	if err != nil {
		handling.WriteError(err, "parse variant id", ir.logger, w)
		return 0, 0, false
	}
	return itemID, variantID, true
}
