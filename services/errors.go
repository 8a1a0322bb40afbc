package services

import (
	"dallasdresses_server/lib"
	"errors"
)

// storeErr passes entity errors through and wraps anything else coming from
// a repository as a persistence failure of entity
func storeErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	var entityErr *lib.EntityError
	if errors.As(err, &entityErr) {
		return err
	}
	return lib.Persistence(entity, err)
}
