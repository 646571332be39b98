package db

import (
	"github.com/pkg/errors"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/store"
	"github.com/saudeviva/agenda/store/db/postgres"
	"github.com/saudeviva/agenda/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// SQLite is the default and fits the single-clinic, single-writer model.
// PostgreSQL is supported for deployments that already run one.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
