package migrate

import (
	"context"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db"
)

func TestValidateEmbeddedMigrations(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("embedded migrations invalid: %v", err)
	}
}

func TestUpCreatesCartStorageTable(t *testing.T) {
	ctx := context.Background()
	client, err := db.New(ctx, config.DBConfig{
		Driver:       config.DBDriverSQLite,
		DSN:          "file:migratetest?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer client.Close()

	if err := Up(ctx, client); err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if !client.DB().Migrator().HasTable("cart_storage") {
		t.Fatal("expected cart_storage table after migration")
	}

	// second run is a no-op
	if err := Up(ctx, client); err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
}

func TestGooseDialect(t *testing.T) {
	if d, err := gooseDialect(config.DBDriverPostgres); err != nil || d != "postgres" {
		t.Fatalf("unexpected postgres dialect %q err=%v", d, err)
	}
	if d, err := gooseDialect(config.DBDriverSQLite); err != nil || d != "sqlite3" {
		t.Fatalf("unexpected sqlite dialect %q err=%v", d, err)
	}
	if _, err := gooseDialect("oracle"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
