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
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// UserService keeps emails globally unique and hands address handling to
// the AddressService
type UserService struct {
	logger    *gecho.Logger
	store     *repository.Store
	addresses *AddressService
	ratings   *RatingService
	email     *EmailService
}

func NewUserService(logger *gecho.Logger, store *repository.Store, addresses *AddressService, ratings *RatingService, email *EmailService) *UserService {
	return &UserService{logger: logger, store: store, addresses: addresses, ratings: ratings, email: email}
}

func toUserDto(u *tables.User, addresses []tables.Address) structs.UserDto {
	return structs.UserDto{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Locale:        u.Locale,
		EmailVerified: u.EmailVerified,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Telephone:     u.Telephone,
		Avatar:        u.Avatar,
		Addresses:     toAddressDtos(addresses),
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// project loads the addresses of users in one batch
func (us *UserService) project(ctx context.Context, users []tables.User) ([]structs.UserDto, error) {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	addresses, err := us.store.Addresses.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, storeErr("address", err)
	}
	byUser := make(map[int64][]tables.Address, len(users))
	for _, a := range addresses {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	out := make([]structs.UserDto, len(users))
	for i := range users {
		out[i] = toUserDto(&users[i], byUser[users[i].ID])
	}
	return out, nil
}

func (us *UserService) projectOne(ctx context.Context, user *tables.User) (*structs.UserDto, error) {
	dtos, err := us.project(ctx, []tables.User{*user})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (us *UserService) GetAll(ctx context.Context, page, pageSize int) (*structs.Page[structs.UserDto], error) {
	page, pageSize = database.NormalizePage(page, pageSize)
	rows, total, err := us.store.Users.FindAll(ctx, page, pageSize)
	if err != nil {
		us.logger.Error("Failed to fetch users", gecho.Field("error", err))
		return nil, storeErr("user", err)
	}
	dtos, err := us.project(ctx, rows)
	if err != nil {
		return nil, err
	}
	return &structs.Page[structs.UserDto]{
		Data:       dtos,
		Pagination: database.NewPagination(page, pageSize, total),
	}, nil
}

func (us *UserService) GetByID(ctx context.Context, id int64) (*structs.UserDto, error) {
	user, err := us.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return us.projectOne(ctx, user)
}

func (us *UserService) GetByEmail(ctx context.Context, email string) (*structs.UserDto, error) {
	normalized := structs.NormalizeEmail(email)
	user, err := us.store.Users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, storeErr("user", err)
	}
	if user == nil {
		return nil, lib.NotFound("user", "email", normalized)
	}
	return us.projectOne(ctx, user)
}

func (us *UserService) find(ctx context.Context, id int64) (*tables.User, error) {
	user, err := us.store.Users.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("user", err)
	}
	if user == nil {
		return nil, lib.NotFound("user", "id", id)
	}
	return user, nil
}

// Create registers a user with its optional password and addresses. Either
// everything is stored or nothing is.
func (us *UserService) Create(ctx context.Context, req *structs.UserCreateRequest) (*structs.UserDto, error) {
	startTime := time.Now()

	if req == nil {
		return nil, lib.Invalid("user", "request body is required")
	}

	email := structs.NormalizeEmail(req.Email)
	if email == "" {
		return nil, lib.Invalid("user", "email is required")
	}
	role := req.Role
	if role == "" {
		role = structs.RoleCustomer
	}
	if err := validateRole(role); err != nil {
		return nil, err
	}
	locale, err := normalizeLocale(req.Locale)
	if err != nil {
		return nil, err
	}

	user := &tables.User{
		Email:     email,
		Role:      role,
		Locale:    locale,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Telephone: strings.TrimSpace(req.Telephone),
		Avatar:    strings.TrimSpace(req.Avatar),
	}

	var credential *tables.Credential
	if req.Password != "" {
		hash, salt, err := lib.HashPassword(req.Password, lib.DefaultArgonParams)
		if err != nil {
			us.logger.Error("Failed to hash password", gecho.Field("error", err))
			return nil, lib.Persistence("credential", err)
		}
		credential = &tables.Credential{
			ID:           uuid.New(),
			Provider:     tables.ProviderLocal,
			ProviderKey:  email,
			Hasher:       structs.HasherArgon2id,
			PasswordHash: hash,
			PasswordSalt: salt,
		}
	}

	var addresses []tables.Address
	err = us.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		exists, err := us.store.Users.ExistsByEmail(ctx, email, 0)
		if err != nil {
			return storeErr("user", err)
		}
		if exists {
			return lib.Duplicate("user", "email", email)
		}

		if err := us.store.Users.Create(ctx, user); err != nil {
			return storeErr("user", err)
		}

		if credential != nil {
			credential.UserID = user.ID
			if err := us.store.Credentials.Create(ctx, credential); err != nil {
				return storeErr("credential", err)
			}
		}

		for i := range req.Addresses {
			address, err := us.addresses.createFor(ctx, user.ID, &req.Addresses[i])
			if err != nil {
				return err
			}
			addresses = append(addresses, *address)
		}
		return nil
	})
	if err != nil {
		us.logger.Warn("Failed to create user", gecho.Field("email", email), gecho.Field("error", err))
		return nil, err
	}

	us.logger.Info("User created",
		gecho.Field("id", user.ID),
		gecho.Field("addresses", len(addresses)),
		gecho.Field("duration", time.Since(startTime)))

	welcome := *user
	go func() {
		if err := us.email.SendWelcomeEmail(&welcome); err != nil {
			us.logger.Warn("Failed to send welcome email", gecho.Field("user_id", welcome.ID), gecho.Field("error", err))
		}
	}()

	dto := toUserDto(user, addresses)
	return &dto, nil
}

// Update applies the fields set in req. A supplied address list replaces the
// user's addresses: entries with an id update that address, entries without
// one are created, stored addresses left out are deleted.
func (us *UserService) Update(ctx context.Context, id int64, req *structs.UserUpdateRequest) (*structs.UserDto, error) {
	if req == nil {
		return nil, lib.Invalid("user", "request body is required")
	}

	var user *tables.User
	err := us.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if user, err = us.find(ctx, id); err != nil {
			return err
		}

		if req.Email != nil {
			email := structs.NormalizeEmail(*req.Email)
			if email == "" {
				return lib.Invalid("user", "email cannot be empty")
			}
			if email != user.Email {
				exists, err := us.store.Users.ExistsByEmail(ctx, email, user.ID)
				if err != nil {
					return storeErr("user", err)
				}
				if exists {
					return lib.Duplicate("user", "email", email)
				}
				if err := us.store.Credentials.UpdateProviderKey(ctx, user.ID, tables.ProviderLocal, email); err != nil {
					return storeErr("credential", err)
				}
				user.Email = email
			}
		}
		if req.Role != nil {
			if err := validateRole(*req.Role); err != nil {
				return err
			}
			user.Role = *req.Role
		}
		if req.Locale != nil {
			locale, err := normalizeLocale(*req.Locale)
			if err != nil {
				return err
			}
			user.Locale = locale
		}
		if req.FirstName != nil {
			user.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			user.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Telephone != nil {
			user.Telephone = strings.TrimSpace(*req.Telephone)
		}
		if req.Avatar != nil {
			user.Avatar = strings.TrimSpace(*req.Avatar)
		}

		if err := us.store.Users.Update(ctx, user); err != nil {
			return storeErr("user", err)
		}

		if req.Addresses != nil {
			return us.reconcileAddresses(ctx, user.ID, req.Addresses)
		}
		return nil
	})
	if err != nil {
		us.logger.Warn("Failed to update user", gecho.Field("id", id), gecho.Field("error", err))
		return nil, err
	}

	us.logger.Info("User updated", gecho.Field("id", id))
	return us.projectOne(ctx, user)
}

// reconcileAddresses brings the stored addresses of userID in line with reqs.
// Tuples are checked against the final set. Removals run first, then kept
// addresses whose tuple changes are parked on a placeholder line so that two
// addresses may swap tuples without colliding half way.
func (us *UserService) reconcileAddresses(ctx context.Context, userID int64, reqs []structs.UserAddressRequest) error {
	current, err := us.store.Addresses.FindByUserIDs(ctx, []int64{userID})
	if err != nil {
		return storeErr("address", err)
	}
	owned := make(map[int64]tables.Address, len(current))
	for _, a := range current {
		owned[a.ID] = a
	}

	keep := make(map[int64]bool, len(reqs))
	for _, r := range reqs {
		if r.ID == nil {
			continue
		}
		if _, ok := owned[*r.ID]; !ok {
			address, err := us.store.Addresses.FindByID(ctx, *r.ID)
			if err != nil {
				return storeErr("address", err)
			}
			if address == nil {
				return lib.NotFound("address", "id", *r.ID)
			}
			return lib.Unauthorized("address", fmt.Sprintf("address %d does not belong to user %d", *r.ID, userID))
		}
		keep[*r.ID] = true
	}

	if err := uniqueTuples(reqs); err != nil {
		return err
	}

	for id := range owned {
		if keep[id] {
			continue
		}
		if err := us.store.Addresses.Delete(ctx, id); err != nil {
			return storeErr("address", err)
		}
	}

	for _, r := range reqs {
		if r.ID == nil {
			continue
		}
		address := owned[*r.ID]
		line1, city, state, postal := embedTuple(&r.AddressEmbedRequest)
		if address.SameTuple(line1, city, state, postal) {
			continue
		}
		parked := address
		parked.AddressLine1 = fmt.Sprintf("~reconcile-%d", address.ID)
		if err := us.store.Addresses.Update(ctx, &parked); err != nil {
			return storeErr("address", err)
		}
	}

	for i := range reqs {
		r := &reqs[i]
		if r.ID == nil {
			if _, err := us.addresses.createFor(ctx, userID, &r.AddressEmbedRequest); err != nil {
				return err
			}
			continue
		}
		address := owned[*r.ID]
		if err := us.addresses.apply(ctx, &address, embedToUpdate(&r.AddressEmbedRequest)); err != nil {
			return err
		}
	}
	return nil
}

func embedTuple(e *structs.AddressEmbedRequest) (line1, city, state, postalCode string) {
	return strings.TrimSpace(e.AddressLine1), strings.TrimSpace(e.City), strings.TrimSpace(e.State), strings.TrimSpace(e.PostalCode)
}

// uniqueTuples rejects a request whose addresses repeat a tuple
func uniqueTuples(reqs []structs.UserAddressRequest) error {
	seen := make(map[[4]string]bool, len(reqs))
	for i := range reqs {
		line1, city, state, postal := embedTuple(&reqs[i].AddressEmbedRequest)
		key := [4]string{line1, city, state, postal}
		if seen[key] {
			return lib.Duplicate("address", "address", fmt.Sprintf("%s, %s, %s %s", line1, city, state, postal))
		}
		seen[key] = true
	}
	return nil
}

func embedToUpdate(e *structs.AddressEmbedRequest) *structs.AddressUpdateRequest {
	return &structs.AddressUpdateRequest{
		AddressType:  &e.AddressType,
		AddressLine1: &e.AddressLine1,
		AddressLine2: &e.AddressLine2,
		City:         &e.City,
		State:        &e.State,
		Country:      &e.Country,
		PostalCode:   &e.PostalCode,
	}
}

// Delete removes a user together with its addresses, credentials and
// ratings. Items the user rated get their aggregates recomputed.
func (us *UserService) Delete(ctx context.Context, id int64) error {
	err := us.store.Tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := us.find(ctx, id); err != nil {
			return err
		}
		rated, err := us.store.Ratings.FindByUserID(ctx, id)
		if err != nil {
			return storeErr("rating", err)
		}
		if err := us.store.Users.Delete(ctx, id); err != nil {
			return storeErr("user", err)
		}
		for _, r := range rated {
			if err := us.ratings.refreshAggregates(ctx, r.ItemID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		us.logger.Warn("Failed to delete user", gecho.Field("id", id), gecho.Field("error", err))
		return err
	}

	us.logger.Info("User deleted", gecho.Field("id", id))
	return nil
}

func validateRole(role structs.UserRole) error {
	switch role {
	case structs.RoleCustomer, structs.RoleAdmin:
		return nil
	}
	return lib.Invalid("user", fmt.Sprintf("unknown role %q", role))
}

func normalizeLocale(locale string) (string, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if len(locale) != 2 {
		return "", lib.Invalid("user", "locale must be a two letter code")
	}
	return locale, nil
}
