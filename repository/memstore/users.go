package memstore

import (
	"cmp"
	"context"
	"dallasdresses_server/structs/tables"
	"slices"

	"github.com/google/uuid"
)

type userRepo struct {
	db *memDB
}

func byUserID(a, b tables.User) int {
	return cmp.Compare(a.ID, b.ID)
}

func (r *userRepo) FindAll(_ context.Context, pageNum, pageSize int) ([]tables.User, int, error) {
	var rows []tables.User
	r.db.read(func(s *state) {
		for _, u := range s.users {
			rows = append(rows, u)
		}
	})
	slices.SortFunc(rows, byUserID)
	data, total := page(rows, pageNum, pageSize)
	return data, total, nil
}

func (r *userRepo) FindByID(_ context.Context, id int64) (*tables.User, error) {
	var out *tables.User
	r.db.read(func(s *state) {
		if u, ok := s.users[id]; ok {
			out = &u
		}
	})
	return out, nil
}

func (r *userRepo) FindByIDs(_ context.Context, ids []int64) ([]tables.User, error) {
	out := []tables.User{}
	r.db.read(func(s *state) {
		for _, id := range ids {
			if u, ok := s.users[id]; ok {
				out = append(out, u)
			}
		}
	})
	slices.SortFunc(out, byUserID)
	return slices.CompactFunc(out, func(a, b tables.User) bool { return a.ID == b.ID }), nil
}

func (r *userRepo) FindByEmail(_ context.Context, email string) (*tables.User, error) {
	var out *tables.User
	r.db.read(func(s *state) {
		for _, u := range s.users {
			if u.Email == email {
				out = &u
				return
			}
		}
	})
	return out, nil
}

func emailTaken(s *state, email string, excludeID int64) bool {
	for _, u := range s.users {
		if u.ID != excludeID && u.Email == email {
			return true
		}
	}
	return false
}

func (r *userRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	found := false
	r.db.read(func(s *state) {
		found = emailTaken(s, email, excludeID)
	})
	return found, nil
}

func (r *userRepo) Create(ctx context.Context, user *tables.User) error {
	return r.db.write(ctx, func(s *state) error {
		if emailTaken(s, user.Email, 0) {
			return conflict("user email %q", user.Email)
		}
		user.ID = s.nextID("users")
		user.CreatedAt = now()
		user.UpdatedAt = user.CreatedAt
		s.users[user.ID] = *user
		return nil
	})
}

func (r *userRepo) Update(ctx context.Context, user *tables.User) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.users[user.ID]
		if !ok {
			return nil
		}
		if emailTaken(s, user.Email, user.ID) {
			return conflict("user email %q", user.Email)
		}
		user.CreatedAt = current.CreatedAt
		user.UpdatedAt = now()
		s.users[user.ID] = *user
		return nil
	})
}

// Delete removes the user together with the rows it owns
func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.users, id)
		for addrID, a := range s.addresses {
			if a.UserID == id {
				delete(s.addresses, addrID)
			}
		}
		for credID, c := range s.credentials {
			if c.UserID == id {
				delete(s.credentials, credID)
			}
		}
		for ratingID, rt := range s.ratings {
			if rt.UserID == id {
				s.dropRating(ratingID)
			}
		}
		for k := range s.helpfulVotes {
			if k.userID == id {
				delete(s.helpfulVotes, k)
			}
		}
		return nil
	})
}

type addressRepo struct {
	db *memDB
}

func byAddressID(a, b tables.Address) int {
	return cmp.Compare(a.ID, b.ID)
}

func (r *addressRepo) FindAll(_ context.Context, pageNum, pageSize int) ([]tables.Address, int, error) {
	var rows []tables.Address
	r.db.read(func(s *state) {
		for _, a := range s.addresses {
			rows = append(rows, a)
		}
	})
	slices.SortFunc(rows, byAddressID)
	data, total := page(rows, pageNum, pageSize)
	return data, total, nil
}

func (r *addressRepo) FindByID(_ context.Context, id int64) (*tables.Address, error) {
	var out *tables.Address
	r.db.read(func(s *state) {
		if a, ok := s.addresses[id]; ok {
			out = &a
		}
	})
	return out, nil
}

func (r *addressRepo) FindByUserIDs(_ context.Context, userIDs []int64) ([]tables.Address, error) {
	out := []tables.Address{}
	r.db.read(func(s *state) {
		for _, a := range s.addresses {
			if slices.Contains(userIDs, a.UserID) {
				out = append(out, a)
			}
		}
	})
	slices.SortFunc(out, byAddressID)
	return out, nil
}

func addressTaken(s *state, userID int64, line1, city, region, postalCode string, excludeID int64) bool {
	for _, a := range s.addresses {
		if a.ID != excludeID && a.UserID == userID && a.SameTuple(line1, city, region, postalCode) {
			return true
		}
	}
	return false
}

func (r *addressRepo) ExistsByTuple(_ context.Context, userID int64, line1, city, region, postalCode string, excludeID int64) (bool, error) {
	found := false
	r.db.read(func(s *state) {
		found = addressTaken(s, userID, line1, city, region, postalCode, excludeID)
	})
	return found, nil
}

func (r *addressRepo) Create(ctx context.Context, address *tables.Address) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.users[address.UserID]; !ok {
			return missing("user %d", address.UserID)
		}
		if addressTaken(s, address.UserID, address.AddressLine1, address.City, address.State, address.PostalCode, 0) {
			return conflict("address of user %d", address.UserID)
		}
		address.ID = s.nextID("addresses")
		address.CreatedAt = now()
		address.UpdatedAt = address.CreatedAt
		s.addresses[address.ID] = *address
		return nil
	})
}

func (r *addressRepo) Update(ctx context.Context, address *tables.Address) error {
	return r.db.write(ctx, func(s *state) error {
		current, ok := s.addresses[address.ID]
		if !ok {
			return nil
		}
		if addressTaken(s, address.UserID, address.AddressLine1, address.City, address.State, address.PostalCode, address.ID) {
			return conflict("address of user %d", address.UserID)
		}
		address.CreatedAt = current.CreatedAt
		address.UpdatedAt = now()
		s.addresses[address.ID] = *address
		return nil
	})
}

func (r *addressRepo) Delete(ctx context.Context, id int64) error {
	return r.db.write(ctx, func(s *state) error {
		delete(s.addresses, id)
		return nil
	})
}

type credentialRepo struct {
	db *memDB
}

func (r *credentialRepo) FindByProviderKey(_ context.Context, provider, key string) (*tables.Credential, error) {
	var out *tables.Credential
	r.db.read(func(s *state) {
		for _, c := range s.credentials {
			if c.Provider == provider && c.ProviderKey == key {
				out = &c
				return
			}
		}
	})
	return out, nil
}

func (r *credentialRepo) FindByUserID(_ context.Context, userID int64) ([]tables.Credential, error) {
	out := []tables.Credential{}
	r.db.read(func(s *state) {
		for _, c := range s.credentials {
			if c.UserID == userID {
				out = append(out, c)
			}
		}
	})
	slices.SortFunc(out, func(a, b tables.Credential) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r *credentialRepo) Create(ctx context.Context, credential *tables.Credential) error {
	return r.db.write(ctx, func(s *state) error {
		if _, ok := s.users[credential.UserID]; !ok {
			return missing("user %d", credential.UserID)
		}
		for _, c := range s.credentials {
			if c.Provider == credential.Provider && c.ProviderKey == credential.ProviderKey {
				return conflict("credential %s/%s", credential.Provider, credential.ProviderKey)
			}
		}
		if credential.ID == uuid.Nil {
			return invalid("credential id is required")
		}
		credential.CreatedAt = now()
		s.credentials[credential.ID] = *credential
		return nil
	})
}

func (r *credentialRepo) UpdateProviderKey(ctx context.Context, userID int64, provider, key string) error {
	return r.db.write(ctx, func(s *state) error {
		for id, c := range s.credentials {
			if c.UserID == userID && c.Provider == provider {
				c.ProviderKey = key
				s.credentials[id] = c
			}
		}
		return nil
	})
}
