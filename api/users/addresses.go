package users

import (
	"dallasdresses_server/api/middleware"
	"dallasdresses_server/handling"
	"dallasdresses_server/lib"
	"dallasdresses_server/structs"
	"net/http"
	"strconv"

	"github.com/MonkyMars/gecho"
)

func (ur *UserRoutesManager) ListAddresses(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := handling.ParsePage(r)
	if err != nil {
		handling.WriteError(err, "parse page", ur.logger, w)
		return
	}

	addresses, err := ur.addressService.GetAll(r.Context(), page, pageSize)
	if err != nil {
		handling.WriteError(err, "list addresses", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(addresses), gecho.Send())
}

func (ur *UserRoutesManager) ListUserAddresses(w http.ResponseWriter, r *http.Request) {
	userID, ok := ur.ownUserID(w, r, "userId")
	if !ok {
		return
	}

	addresses, err := ur.addressService.GetByUser(r.Context(), userID)
	if err != nil {
		handling.WriteError(err, "list user addresses", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(addresses), gecho.Send())
}

func (ur *UserRoutesManager) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse address id", ur.logger, w)
		return
	}

	address, err := ur.addressService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get address", ur.logger, w)
		return
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if !claims.CanActFor(address.UserID) {
		// hide other users' addresses entirely
		gecho.NotFound(w, gecho.WithMessage("address not found"), gecho.Send())
		return
	}

	gecho.Success(w, gecho.WithData(address), gecho.Send())
}

func (ur *UserRoutesManager) CreateAddress(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddressCreateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode address", ur.logger, w)
		return
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if !claims.CanActFor(body.UserID) {
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return
	}

	address, err := ur.addressService.Create(r.Context(), body)
	if err != nil {
		handling.WriteError(err, "create address", ur.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(address),
		gecho.WithMessage("Address created successfully"),
		gecho.Send(),
	)
}

// UpdateAddress changes an address of the caller. Administrators act for
// another user through the user_id query parameter.
func (ur *UserRoutesManager) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse address id", ur.logger, w)
		return
	}

	claims, _ := middleware.GetClaimsFromContext(r.Context())
	userID := claims.Sub
	if raw := r.URL.Query().Get("user_id"); raw != "" && claims.IsAdmin() {
		if userID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			gecho.BadRequest(w, gecho.WithMessage("user_id must be an integer"), gecho.Send())
			return
		}
	}

	body, err := lib.ExtractAndValidateBody[structs.AddressUpdateRequest](r)
	if err != nil {
		handling.WriteError(err, "decode address update", ur.logger, w)
		return
	}

	address, err := ur.addressService.Update(r.Context(), id, userID, body)
	if err != nil {
		handling.WriteError(err, "update address", ur.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(address),
		gecho.WithMessage("Address updated successfully"),
		gecho.Send(),
	)
}

func (ur *UserRoutesManager) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(r, "id")
	if err != nil {
		handling.WriteError(err, "parse address id", ur.logger, w)
		return
	}

	address, err := ur.addressService.GetByID(r.Context(), id)
	if err != nil {
		handling.WriteError(err, "get address", ur.logger, w)
		return
	}
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	if !claims.CanActFor(address.UserID) {
		gecho.Forbidden(w, gecho.WithMessage("Access denied"), gecho.Send())
		return
	}

	if err := ur.addressService.Delete(r.Context(), id); err != nil {
		handling.WriteError(err, "delete address", ur.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Address deleted successfully"), gecho.Send())
}
