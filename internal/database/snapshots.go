package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// DefaultSnapshotKey names the row holding the application snapshot.
const DefaultSnapshotKey = "default"

// SnapshotRepository stores the whole snapshot as one JSON row keyed by name.
type SnapshotRepository struct {
	db  *gorm.DB
	key string
}

func NewSnapshotRepository(db *gorm.DB, key string) *SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &SnapshotRepository{db: db, key: key}
}

func (r *SnapshotRepository) Load(ctx context.Context) (*entities.Snapshot, error) {
	var record entities.SnapshotRecord
	err := r.db.WithContext(ctx).Where("key = ?", r.key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entities.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", r.key, err)
	}
	return entities.DecodeSnapshot([]byte(record.Data))
}

// Save upserts the snapshot row.
func (r *SnapshotRepository) Save(ctx context.Context, snap *entities.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}

	record := entities.SnapshotRecord{
		Key:       r.key,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", r.key, err)
	}
	return nil
}

// UpdatedAt reports when the snapshot row was last written.
func (r *SnapshotRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	var record entities.SnapshotRecord
	err := r.db.WithContext(ctx).Select("updated_at").Where("key = ?", r.key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, entities.ErrSnapshotNotFound
	}
	return record.UpdatedAt, err
}
