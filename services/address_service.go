package services

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs"
	"dallasdresses_server/structs/tables"
	"fmt"
	"strings"

	"github.com/MonkyMars/gecho"
)

// AddressService keeps every user's addresses unique on
// (line1, city, state, postal code) and checks ownership on change
type AddressService struct {
	logger *gecho.Logger
	store  *repository.Store
}

func NewAddressService(logger *gecho.Logger, store *repository.Store) *AddressService {
	return &AddressService{logger: logger, store: store}
}

func toAddressDto(a *tables.Address) structs.AddressDto {
	return structs.AddressDto{
		ID:           a.ID,
		UserID:       a.UserID,
		AddressType:  a.AddressType,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Country:      a.Country,
		PostalCode:   a.PostalCode,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAddressDtos(rows []tables.Address) []structs.AddressDto {
	out := make([]structs.AddressDto, len(rows))
	for i := range rows {
		out[i] = toAddressDto(&rows[i])
	}
	return out
}

func (as *AddressService) GetAll(ctx context.Context, page, pageSize int) (*structs.Page[structs.AddressDto], error) {
	page, pageSize = database.NormalizePage(page, pageSize)
	rows, total, err := as.store.Addresses.FindAll(ctx, page, pageSize)
	if err != nil {
		as.logger.Error("Failed to fetch addresses", gecho.Field("error", err))
		return nil, storeErr("address", err)
	}
	return &structs.Page[structs.AddressDto]{
		Data:       toAddressDtos(rows),
		Pagination: database.NewPagination(page, pageSize, total),
	}, nil
}

func (as *AddressService) GetByID(ctx context.Context, id int64) (*structs.AddressDto, error) {
	address, err := as.find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toAddressDto(address)
	return &dto, nil
}

func (as *AddressService) GetByUser(ctx context.Context, userID int64) ([]structs.AddressDto, error) {
	if err := as.userExists(ctx, userID); err != nil {
		return nil, err
	}
	rows, err := as.store.Addresses.FindByUserIDs(ctx, []int64{userID})
	if err != nil {
		return nil, storeErr("address", err)
	}
	return toAddressDtos(rows), nil
}

// Create adds an address for req.UserID
func (as *AddressService) Create(ctx context.Context, req *structs.AddressCreateRequest) (*structs.AddressDto, error) {
	if req == nil {
		return nil, lib.Invalid("address", "request body is required")
	}

	var address *tables.Address
	err := as.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := as.userExists(ctx, req.UserID); err != nil {
			return err
		}
		var err error
		address, err = as.createFor(ctx, req.UserID, &req.AddressEmbedRequest)
		return err
	})
	if err != nil {
		as.logger.Warn("Failed to create address", gecho.Field("user_id", req.UserID), gecho.Field("error", err))
		return nil, err
	}

	as.logger.Info("Address created", gecho.Field("id", address.ID), gecho.Field("user_id", address.UserID))
	dto := toAddressDto(address)
	return &dto, nil
}

// createFor stores an address for a user known to exist
func (as *AddressService) createFor(ctx context.Context, userID int64, req *structs.AddressEmbedRequest) (*tables.Address, error) {
	address := &tables.Address{
		UserID:       userID,
		AddressType:  req.AddressType,
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		Country:      strings.TrimSpace(req.Country),
		PostalCode:   strings.TrimSpace(req.PostalCode),
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if err := as.ensureUnique(ctx, address); err != nil {
		return nil, err
	}
	if err := as.store.Addresses.Create(ctx, address); err != nil {
		return nil, storeErr("address", err)
	}
	return address, nil
}

// Update applies the fields set in req to an address owned by userID
func (as *AddressService) Update(ctx context.Context, id, userID int64, req *structs.AddressUpdateRequest) (*structs.AddressDto, error) {
	if req == nil {
		return nil, lib.Invalid("address", "request body is required")
	}

	var address *tables.Address
	err := as.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if address, err = as.find(ctx, id); err != nil {
			return err
		}
		if err := as.userExists(ctx, userID); err != nil {
			return err
		}
		if address.UserID != userID {
			return lib.Unauthorized("address", fmt.Sprintf("address %d does not belong to user %d", id, userID))
		}
		return as.apply(ctx, address, req)
	})
	if err != nil {
		as.logger.Warn("Failed to update address", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	as.logger.Info("Address updated", gecho.Field("id", id))
	dto := toAddressDto(address)
	return &dto, nil
}

// apply merges req into address, checks the tuple when it changed and saves
func (as *AddressService) apply(ctx context.Context, address *tables.Address, req *structs.AddressUpdateRequest) error {
	before := *address

	if req.AddressType != nil {
		address.AddressType = *req.AddressType
	}
	if req.AddressLine1 != nil {
		address.AddressLine1 = strings.TrimSpace(*req.AddressLine1)
	}
	if req.AddressLine2 != nil {
		address.AddressLine2 = strings.TrimSpace(*req.AddressLine2)
	}
	if req.City != nil {
		address.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		address.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		address.Country = strings.TrimSpace(*req.Country)
	}
	if req.PostalCode != nil {
		address.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if err := validateAddress(address); err != nil {
		return err
	}

	if !before.SameTuple(address.AddressLine1, address.City, address.State, address.PostalCode) {
		if err := as.ensureUnique(ctx, address); err != nil {
			return err
		}
	}
	return storeErr("address", as.store.Addresses.Update(ctx, address))
}

// Delete removes an address. A user may end up without any address.
func (as *AddressService) Delete(ctx context.Context, id int64) error {
	if _, err := as.find(ctx, id); err != nil {
		return err
	}
	if err := as.store.Addresses.Delete(ctx, id); err != nil {
		as.logger.Error("Failed to delete address", gecho.Field("id", id), gecho.Field("error", err))
		return storeErr("address", err)
	}

	as.logger.Info("Address deleted", gecho.Field("id", id))
	return nil
}

func (as *AddressService) ensureUnique(ctx context.Context, a *tables.Address) error {
	exists, err := as.store.Addresses.ExistsByTuple(ctx, a.UserID, a.AddressLine1, a.City, a.State, a.PostalCode, a.ID)
	if err != nil {
		return storeErr("address", err)
	}
	if exists {
		return lib.Duplicate("address", "address", fmt.Sprintf("%s, %s, %s %s", a.AddressLine1, a.City, a.State, a.PostalCode))
	}
	return nil
}

func (as *AddressService) find(ctx context.Context, id int64) (*tables.Address, error) {
	address, err := as.store.Addresses.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("address", err)
	}
	if address == nil {
		return nil, lib.NotFound("address", "id", id)
	}
	return address, nil
}

func (as *AddressService) userExists(ctx context.Context, userID int64) error {
	user, err := as.store.Users.FindByID(ctx, userID)
	if err != nil {
		return storeErr("user", err)
	}
	if user == nil {
		return lib.NotFound("user", "id", userID)
	}
	return nil
}

func validateAddress(a *tables.Address) error {
	switch {
	case a.AddressLine1 == "":
		return lib.Invalid("address", "address line 1 is required")
	case a.City == "", a.State == "", a.Country == "":
		return lib.Invalid("address", "city, state and country are required")
	case len(a.PostalCode) < 5 || len(a.PostalCode) > 10:
		return lib.Invalid("address", "postal code must be 5 to 10 characters")
	}
	switch a.AddressType {
	case structs.AddressShipping, structs.AddressBilling, structs.AddressHome, structs.AddressWork:
		return nil
	}
	return lib.Invalid("address", fmt.Sprintf("unknown address type %q", a.AddressType))
}
