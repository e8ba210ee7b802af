package tablestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entityRow is one stored entity. Version is a fresh uuid on every write,
// so a tag never repeats across a delete and re-insert of the same key.
type entityRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	EntityKey  string `gorm:"primaryKey;column:entity_key"`
	Value      []byte `gorm:"not null"`
	Version    string `gorm:"size:36;not null"`
}

func (entityRow) TableName() string { return "entities" }

// SQLiteStore keeps every collection in one gorm-managed table.
type SQLiteStore struct {
	db *gorm.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at cfg.Path and migrates
// the entities table.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite handle: %w", err)
	}
	// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&entityRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, key string) (Entry, error) {
	var row entityRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND entity_key = ?", collection, key).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("sqlite get %s/%s: %w", collection, key, err)
	}
	return row.entry(), nil
}

func (s *SQLiteStore) Insert(ctx context.Context, collection, key string, value []byte) (string, error) {
	row := entityRow{Collection: collection, EntityKey: key, Value: value, Version: uuid.NewString()}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return "", fmt.Errorf("sqlite insert %s/%s: %w", collection, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrConflict
	}
	return row.Version, nil
}

func (s *SQLiteStore) Put(ctx context.Context, collection, key string, value []byte, expectedVersion string) (string, error) {
	next := uuid.NewString()
	res := s.db.WithContext(ctx).Model(&entityRow{}).
		Where("collection = ? AND entity_key = ? AND version = ?", collection, key, expectedVersion).
		Updates(map[string]any{"value": value, "version": next})
	if res.Error != nil {
		return "", fmt.Errorf("sqlite put %s/%s: %w", collection, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return "", ErrVersionMismatch
	}
	return next, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, key string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND entity_key = ?", collection, key).
		Delete(&entityRow{})
	if res.Error != nil {
		return fmt.Errorf("sqlite delete %s/%s: %w", collection, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Query(ctx context.Context, collection string, match KeyPredicate) ([]Entry, error) {
	var rows []entityRow
	if err := s.db.WithContext(ctx).Where("collection = ?", collection).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("sqlite query %s: %w", collection, err)
	}
	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		if match(row.EntityKey) {
			entries = append(entries, row.entry())
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r entityRow) entry() Entry {
	return Entry{Key: r.EntityKey, Value: r.Value, Version: r.Version}
}
