// Package memstore is an in-memory implementation of the repositories. It
// keeps rows in ID-keyed maps, enforces the same unique and foreign key rules
// as the Postgres schema and rolls a failed transaction back from a snapshot.
// It backs STORAGE_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"dallasdresses_server/database"
	"dallasdresses_server/lib"
	"dallasdresses_server/repository"
	"dallasdresses_server/structs/tables"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

type linkKey struct {
	itemID     int64
	categoryID int64
}

type voteKey struct {
	ratingID int64
	userID   int64
}

// state holds every table. Rows are stored by value so callers never share
// memory with the store.
type state struct {
	items          map[int64]tables.Item
	categories     map[int64]tables.Category
	itemCategories map[linkKey]struct{}
	images         map[int64]tables.ItemImage
	variants       map[int64]tables.ItemVariant
	ratings        map[int64]tables.ItemRating
	helpfulVotes   map[voteKey]time.Time
	users          map[int64]tables.User
	addresses      map[int64]tables.Address
	credentials    map[uuid.UUID]tables.Credential
	sequences      map[string]int64
}

func newState() *state {
	return &state{
		items:          map[int64]tables.Item{},
		categories:     map[int64]tables.Category{},
		itemCategories: map[linkKey]struct{}{},
		images:         map[int64]tables.ItemImage{},
		variants:       map[int64]tables.ItemVariant{},
		ratings:        map[int64]tables.ItemRating{},
		helpfulVotes:   map[voteKey]time.Time{},
		users:          map[int64]tables.User{},
		addresses:      map[int64]tables.Address{},
		credentials:    map[uuid.UUID]tables.Credential{},
		sequences:      map[string]int64{},
	}
}

func (s *state) clone() *state {
	return &state{
		items:          maps.Clone(s.items),
		categories:     maps.Clone(s.categories),
		itemCategories: maps.Clone(s.itemCategories),
		images:         maps.Clone(s.images),
		variants:       maps.Clone(s.variants),
		ratings:        maps.Clone(s.ratings),
		helpfulVotes:   maps.Clone(s.helpfulVotes),
		users:          maps.Clone(s.users),
		addresses:      maps.Clone(s.addresses),
		credentials:    maps.Clone(s.credentials),
		sequences:      maps.Clone(s.sequences),
	}
}

// dropRating deletes a rating together with its helpful votes
func (s *state) dropRating(id int64) {
	delete(s.ratings, id)
	for k := range s.helpfulVotes {
		if k.ratingID == id {
			delete(s.helpfulVotes, k)
		}
	}
}

func (s *state) nextID(table string) int64 {
	s.sequences[table]++
	return s.sequences[table]
}

// memDB is shared by every repository of one store
type memDB struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// New builds an empty in-memory store
func New() *repository.Store {
	db := &memDB{st: newState()}
	return &repository.Store{
		Tx:             db,
		Health:         db,
		Items:          &itemRepo{db: db},
		Categories:     &categoryRepo{db: db},
		ItemCategories: &itemCategoryRepo{db: db},
		Images:         &imageRepo{db: db},
		Variants:       &variantRepo{db: db},
		Ratings:        &ratingRepo{db: db},
		HelpfulVotes:   &helpfulVoteRepo{db: db},
		Users:          &userRepo{db: db},
		Addresses:      &addressRepo{db: db},
		Credentials:    &credentialRepo{db: db},
	}
}

type txKey struct{}

// RunInTx serializes transactions and restores the snapshot taken at the
// start when fn fails. Writes outside a transaction wait for txMu too, so the
// snapshot only ever covers the transaction's own changes. Nested calls join
// the outer transaction.
func (db *memDB) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	db.txMu.Lock()
	defer db.txMu.Unlock()

	db.mu.RLock()
	snapshot := db.st.clone()
	db.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		db.mu.Lock()
		db.st = snapshot
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (db *memDB) read(fn func(s *state)) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	fn(db.st)
}

// write applies fn under the state lock. Outside a transaction it also takes
// txMu, so a rollback never restores a snapshot over a write it did not make.
func (db *memDB) write(ctx context.Context, fn func(s *state) error) error {
	if ctx.Value(txKey{}) == nil {
		db.txMu.Lock()
		defer db.txMu.Unlock()
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn(db.st)
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", lib.ErrConflict, fmt.Sprintf(format, args...))
}

func missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", lib.ErrNotFound, fmt.Sprintf(format, args...))
}

// page cuts one page out of rows that are already ordered
func page[T any](rows []T, pageNum, pageSize int) ([]T, int) {
	pageNum, pageSize = database.NormalizePage(pageNum, pageSize)
	total := len(rows)

	start := (pageNum - 1) * pageSize
	if start >= total {
		return []T{}, total
	}
	end := min(start+pageSize, total)
	return rows[start:end], total
}

func now() time.Time {
	return time.Now().UTC()
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", lib.ErrInvalidInput, fmt.Sprintf(format, args...))
}
