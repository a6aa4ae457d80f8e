//go:build !sqlite

package storage

import "errors"

func newSQLiteStore(string) (Store, error) {
	return nil, errors.New("sqlite backend unavailable in this build; rebuild with -tags sqlite")
}
