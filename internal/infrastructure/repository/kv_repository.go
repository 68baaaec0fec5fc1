package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sangkips/receipt-studio/internal/domain/entity"
	"github.com/sangkips/receipt-studio/internal/domain/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres error codes that mean the value could not be stored for size or
// space reasons.
const (
	pgDiskFull             = "53100"
	pgProgramLimitExceeded = "54000"
	pgStringTooLong        = "22001"
)

type kvRepository struct {
	db         *gorm.DB
	quotaBytes int64
}

// NewKVRepository creates a Postgres backed key-value repository. A
// quotaBytes of zero disables the per-value size check.
func NewKVRepository(db *gorm.DB, quotaBytes int64) repository.KVRepository {
	return &kvRepository{db: db, quotaBytes: quotaBytes}
}

// Get retrieves the value stored under key
func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rec entity.KVRecord
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(rec.Value), true, nil
}

// Set upserts the value stored under key
func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	if r.quotaBytes > 0 && int64(len(value)) > r.quotaBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", repository.ErrQuotaExceeded, len(value), r.quotaBytes)
	}

	rec := entity.KVRecord{
		Key:   key,
		Value: datatypes.JSON(value),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	return mapWriteError(err)
}

// Delete removes the value stored under key
func (r *kvRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("key = ?", key).Delete(&entity.KVRecord{}).Error
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgDiskFull, pgProgramLimitExceeded, pgStringTooLong:
			return fmt.Errorf("%w: %s", repository.ErrQuotaExceeded, pgErr.Message)
		}
	}
	return err
}
