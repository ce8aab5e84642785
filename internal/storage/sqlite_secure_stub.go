//go:build !sqlcipher

package storage

import (
	"database/sql"
	"errors"
)

var errSecureUnsupported = errors.New("this build has no sqlcipher support")

func openSecureSQLite(string, string) (*sql.DB, error) {
	return nil, errSecureUnsupported
}

func secureSQLiteSupported() bool { return false }
