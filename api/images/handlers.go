package images

import (
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (im *ImageRoutesManager) ListImages(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.WriteError(err, "parse page", im.logger, w)
		return
	}

	images, err := im.imageService.GetAll(r.Context(), page, pageSize)
	if err != nil {
		handling.WriteError(err, "list images", im.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(images), gecho.Send())
}

func (im *ImageRoutesManager) ListItemImages(w http.ResponseWriter, r *http.Request) {
	itemID, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse item id", im.logger, w)
		return
	}

	images, err := im.imageService.GetByItem(r.Context(), itemID)
	if err != nil {
		handling.WriteError(err, "list item images", im.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(images), gecho.Send())
}

func (im *ImageRoutesManager) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse image id", im.logger, w)
		return
	}

	image, err := im.imageService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get image", im.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(image), gecho.Send())
}

func (im *ImageRoutesManager) CreateImage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ItemImageCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode image", im.logger, w)
		return
	}

	image, err := im.imageService.Create(r.Context(), body)
	if err != nil {
		handling.WriteError(err, "create image", im.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(image),
		gecho.WithMessage("Image created successfully"),
		gecho.Send(),
	)
}

func (im *ImageRoutesManager) UpdateImage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse image id", im.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ItemImageUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode image update", im.logger, w)
		return
	}

	image, err := im.imageService.Update(r.Context(), id, body)
	if err != nil {
		handling.WriteError(err, "update image", im.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(image),
		gecho.WithMessage("Image updated successfully"),
		gecho.Send(),
	)
}

func (im *ImageRoutesManager) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse image id", im.logger, w)
		return
	}

	if err := im.imageService.Delete(r.Context(), id); err != nil {
		handling.WriteError(err, "delete image", im.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Image deleted successfully"), gecho.Send())
}
