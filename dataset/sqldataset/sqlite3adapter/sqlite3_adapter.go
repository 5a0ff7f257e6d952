/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database.
*/
package sqlite3adapter

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/pbanos/sapling/dataset/sqldataset"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

/*
New takes a path to an SQLite3 database file and returns an Adapter that works
on the file's database or an error if it fails to open as an sqlite3 database.
The file must exist: New does not create databases.
*/
func New(path string) (sqldataset.Adapter, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening sqlite3 database %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	return sqldataset.NewAdapter(db), nil
}
