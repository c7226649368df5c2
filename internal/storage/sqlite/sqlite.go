package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/utafrali/RestaurantGo/pkg/database"
)

const system = "sqlite"

// Entry is one persisted key/value pair.
type Entry struct {
	Key       string `gorm:"column:storage_key;primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of struct naming.
func (Entry) TableName() string { return "device_storage" }

// Store implements storage.Store on a SQLite file through GORM.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate device storage: %w", err)
	}
	return &Store{db: db}, nil
}

// DB returns the underlying connection pool, for metrics.
func (s *Store) DB() (*sql.DB, error) {
	return s.db.DB()
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	ctx, end := database.TraceOperation(ctx, system, "GET", key)
	defer func() { end(err) }()

	var e Entry
	err = s.db.WithContext(ctx).Where("storage_key = ?", key).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("sqlite get %s: %w", key, err)
	}
	return e.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) (err error) {
	ctx, end := database.TraceOperation(ctx, system, "SET", key)
	defer func() { end(err) }()

	if err = upsert(s.db.WithContext(ctx), key, value); err != nil {
		return fmt.Errorf("sqlite set %s: %w", key, err)
	}
	return nil
}

// SetMany writes all values inside one transaction.
func (s *Store) SetMany(ctx context.Context, values map[string]string) (err error) {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	ctx, end := database.TraceOperation(ctx, system, "SET_MANY", strings.Join(keys, ","))
	defer func() { end(err) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for k, v := range values {
			if err := upsert(tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite set many: %w", err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.RemoveMany(ctx, key)
}

func (s *Store) RemoveMany(ctx context.Context, keys ...string) (err error) {
	if len(keys) == 0 {
		return nil
	}
	ctx, end := database.TraceOperation(ctx, system, "DELETE", strings.Join(keys, ","))
	defer func() { end(err) }()

	if err = s.db.WithContext(ctx).Where("storage_key IN ?", keys).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("sqlite remove: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func upsert(db *gorm.DB, key, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}).Error
}
