package rdb

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kompox/zoneacme/domain"
)

// AccountConfigRepository is a GORM-backed implementation of domain.AccountConfigRepository.
type AccountConfigRepository struct{ db *gorm.DB }

func NewAccountConfigRepository(db *gorm.DB) *AccountConfigRepository {
	return &AccountConfigRepository{db: db}
}

func (r *AccountConfigRepository) Get(ctx context.Context, key string) (string, error) {
	var rec AccountSettingRecord
	if err := r.db.WithContext(ctx).First(&rec, "name = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return rec.Value, nil
}

func (r *AccountConfigRepository) Set(ctx context.Context, key, value string) error {
	rec := &AccountSettingRecord{Name: key, Value: value}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rec).Error
}

func (r *AccountConfigRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Delete(&AccountSettingRecord{}, "name = ?", key).Error
}

func (r *AccountConfigRepository) List(ctx context.Context) (map[string]string, error) {
	var recs []AccountSettingRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(recs))
	for _, rec := range recs {
		out[rec.Name] = rec.Value
	}
	return out, nil
}

var _ domain.AccountConfigRepository = (*AccountConfigRepository)(nil)
