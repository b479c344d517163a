package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// cartRecord maps the cart_storage table created by pkg/migrate.
type cartRecord struct {
	StorageKey string    `gorm:"column:storage_key;primaryKey"`
	Value      string    `gorm:"column:value;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

func (cartRecord) TableName() string {
	return "cart_storage"
}

// SQL stores carts in a single key/value table through GORM.
type SQL struct {
	client *db.Client
	now    func() time.Time
}

func NewSQL(client *db.Client) (*SQL, error) {
	if client == nil {
		return nil, errors.New("db client required")
	}
	return &SQL{client: client, now: time.Now}, nil
}

func (s *SQL) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return s.client.DB()
	}
	return s.client.DB().WithContext(ctx)
}

func (s *SQL) GetItem(ctx context.Context, key string) ([]byte, error) {
	var record cartRecord
	err := s.conn(ctx).Where("storage_key = ?", key).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select cart %q: %w", key, err)
	}
	return []byte(record.Value), nil
}

func (s *SQL) SetItem(ctx context.Context, key string, value []byte) error {
	record := cartRecord{
		StorageKey: key,
		Value:      string(value),
		UpdatedAt:  s.now().UTC(),
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert cart %q: %w", key, err)
	}
	return nil
}

func (s *SQL) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}
