package pgstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/structs/tables"
)

type userRepo struct {
	db *database.DB
}

func (r *userRepo) FindAll(ctx context.Context, page, pageSize int) ([]tables.User, int, error) {
	q := database.Query[tables.User](r.db).OrderBy("u.id", database.ASC)
	return paged(ctx, q, page, pageSize)
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*tables.User, error) {
	user, err := database.FindByID[tables.User](ctx, r.db, "u.id", id)
	return user, mapErr(err)
}

func (r *userRepo) FindByIDs(ctx context.Context, ids []int64) ([]tables.User, error) {
	if len(ids) == 0 {
		return []tables.User{}, nil
	}
	users, err := database.Query[tables.User](r.db).WhereIn("u.id", ids).All(ctx)
	return users, mapErr(err)
}

// FindByEmail expects an already normalized address
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*tables.User, error) {
	user, err := database.Query[tables.User](r.db).Where("u.email", email).First(ctx)
	return user, mapErr(err)
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	q := database.Query[tables.User](r.db).Where("u.email", email)
	if excludeID > 0 {
		q = q.WhereOp("u.id", "<>", excludeID)
	}
	exists, err := q.Exists(ctx)
	return exists, mapErr(err)
}

func (r *userRepo) Create(ctx context.Context, user *tables.User) error {
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	_, err := database.Create[tables.User](ctx, r.db, user)
	return mapErr(err)
}

func (r *userRepo) Update(ctx context.Context, user *tables.User) error {
	user.UpdatedAt = now()
	_, err := database.UpdateByID[tables.User](ctx, r.db, "u.id", user.ID, user)
	return mapErr(err)
}

// Delete removes the user; addresses, credentials and ratings cascade
func (r *userRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.User](ctx, r.db, "u.id", id)
	return mapErr(err)
}

type addressRepo struct {
	db *database.DB
}

func (r *addressRepo) FindAll(ctx context.Context, page, pageSize int) ([]tables.Address, int, error) {
	q := database.Query[tables.Address](r.db).OrderBy("a.id", database.ASC)
	return paged(ctx, q, page, pageSize)
}

func (r *addressRepo) FindByID(ctx context.Context, id int64) (*tables.Address, error) {
	address, err := database.FindByID[tables.Address](ctx, r.db, "a.id", id)
	return address, mapErr(err)
}

func (r *addressRepo) FindByUserIDs(ctx context.Context, userIDs []int64) ([]tables.Address, error) {
	if len(userIDs) == 0 {
		return []tables.Address{}, nil
	}
	addresses, err := database.Query[tables.Address](r.db).
		WhereIn("a.user_id", userIDs).
		OrderBy("a.id", database.ASC).
		All(ctx)
	return addresses, mapErr(err)
}

func (r *addressRepo) ExistsByTuple(ctx context.Context, userID int64, line1, city, state, postalCode string, excludeID int64) (bool, error) {
	q := database.Query[tables.Address](r.db).
		Where("a.user_id", userID).
		Where("a.address_line1", line1).
		Where("a.city", city).
		Where("a.state", state).
		Where("a.postal_code", postalCode)
	if excludeID > 0 {
		q = q.WhereOp("a.id", "<>", excludeID)
	}
	exists, err := q.Exists(ctx)
	return exists, mapErr(err)
}

func (r *addressRepo) Create(ctx context.Context, address *tables.Address) error {
	address.CreatedAt = now()
	address.UpdatedAt = address.CreatedAt
	_, err := database.Create[tables.Address](ctx, r.db, address)
	return mapErr(err)
}

func (r *addressRepo) Update(ctx context.Context, address *tables.Address) error {
	address.UpdatedAt = now()
	_, err := database.UpdateByID[tables.Address](ctx, r.db, "a.id", address.ID, address)
	return mapErr(err)
}

func (r *addressRepo) Delete(ctx context.Context, id int64) error {
	_, err := database.DeleteByID[tables.Address](ctx, r.db, "a.id", id)
	return mapErr(err)
}

type credentialRepo struct {
	db *database.DB
}

func (r *credentialRepo) FindByProviderKey(ctx context.Context, provider, key string) (*tables.Credential, error) {
	credential, err := database.Query[tables.Credential](r.db).
		Where("cr.provider", provider).
		Where("cr.provider_key", key).
		First(ctx)
	return credential, mapErr(err)
}

func (r *credentialRepo) FindByUserID(ctx context.Context, userID int64) ([]tables.Credential, error) {
	credentials, err := database.Query[tables.Credential](r.db).Where("cr.user_id", userID).All(ctx)
	return credentials, mapErr(err)
}

func (r *credentialRepo) Create(ctx context.Context, credential *tables.Credential) error {
	credential.CreatedAt = now()
	_, err := database.Create[tables.Credential](ctx, r.db, credential)
	return mapErr(err)
}

func (r *credentialRepo) UpdateProviderKey(ctx context.Context, userID int64, provider, key string) error {
	_, err := database.Query[tables.Credential](r.db).
		Where("cr.user_id", userID).
		Where("cr.provider", provider).
		Update(ctx, map[string]any{"provider_key": key})
	return mapErr(err)
}
