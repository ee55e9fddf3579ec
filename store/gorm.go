package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSnapshot is the row backing one cart in Postgres.
type CartSnapshot struct {
	Key       string `gorm:"primaryKey;size:128"`
	Snapshot  string `gorm:"type:text"`
	UpdatedAt time.Time
}

// PostgresStore persists snapshots in a cart_snapshots table.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore migrates the snapshot table and returns the store.
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&CartSnapshot{}); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Load(ctx context.Context, key string) (string, error) {
	var row CartSnapshot
	err := p.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return row.Snapshot, nil
}

func (p *PostgresStore) Save(ctx context.Context, key, snapshot string) error {
	row := CartSnapshot{Key: key, Snapshot: snapshot, UpdatedAt: time.Now()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"snapshot", "updated_at"}),
	}).Create(&row).Error
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Delete(&CartSnapshot{}, "key = ?", key).Error
}

func (p *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := p.db.WithContext(ctx).Model(&CartSnapshot{}).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
