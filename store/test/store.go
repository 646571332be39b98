package test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/saudeviva/agenda/internal/profile"
	"github.com/saudeviva/agenda/store"
	"github.com/saudeviva/agenda/store/db"
)

// NewTestingStore creates a migrated store backed by a throwaway database.
// The driver defaults to sqlite in a temp directory; set DRIVER=postgres and
// DSN to run against a real PostgreSQL instance.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	testingProfile := getTestingProfile(t)

	dbDriver, err := db.NewDBDriver(testingProfile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	testingStore := store.New(dbDriver, testingProfile)
	if err := testingStore.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		_ = testingStore.Close()
	})
	return testingStore
}

func getTestingProfile(t *testing.T) *profile.Profile {
	dir := t.TempDir()
	mode := "dev"
	driver := getDriverFromEnv()
	testingProfile := &profile.Profile{
		Mode:         mode,
		Data:         dir,
		Driver:       driver,
		DSN:          fmt.Sprintf("%s/agenda_%s.db", dir, mode),
		Practitioner: "Dr. Carlos (General Practice)",
	}
	if driver == "postgres" {
		testingProfile.DSN = os.Getenv("DSN")
	}
	return testingProfile
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}
