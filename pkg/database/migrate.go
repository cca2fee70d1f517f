package database

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"go-procurement-backend/db/migrations"
)

// Migrate applies the embedded goose migrations before the pool is opened.
func Migrate(connString string) error {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}
