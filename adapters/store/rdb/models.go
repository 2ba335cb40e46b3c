package rdb

import "time"

// AccountSettingRecord is the RDB persistence model of one account config key.
// Table name: account_settings
type AccountSettingRecord struct {
	Name      string    `gorm:"primaryKey;type:text;not null"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (AccountSettingRecord) TableName() string { return "account_settings" }
