package models

import (
	"report-sync/core/database"

	"gorm.io/gorm"
)

// TableName is the cache table holding reports. It is also the change
// notification key for every query over it.
const TableName = "reports"

const userCreatedIndex = "idx_reports_user_created"

// Report is a lost or found notice.
type Report struct {
	ID          string   `gorm:"column:id;primaryKey;size:64" json:"id"`
	UserID      string   `gorm:"column:user_id;size:128;not null;index:idx_reports_user_created,priority:1" json:"userId"`
	Description string   `gorm:"column:description;not null" json:"description"`
	Name        string   `gorm:"column:name;not null" json:"name"`
	Phone       string   `gorm:"column:phone;not null" json:"phone"`
	ImageURL    string   `gorm:"column:image_url;not null" json:"imageUrl"`
	IsLost      bool     `gorm:"column:is_lost;not null" json:"isLost"`
	Location    *string  `gorm:"column:location" json:"location"`
	Lat         *float64 `gorm:"column:lat" json:"lat"`
	Lng         *float64 `gorm:"column:lng" json:"lng"`
	// CreatedAt is epoch milliseconds, assigned by the remote on save.
	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:false;not null;index:idx_reports_user_created,priority:2" json:"createdAt"`
}

// TableName overrides the gorm table name.
func (Report) TableName() string {
	return TableName
}

// Key returns the report id.
func Key(r Report) string {
	return r.ID
}

// Equal reports whether a and b hold the same values.
func Equal(a, b Report) bool {
	return a.ID == b.ID &&
		a.UserID == b.UserID &&
		a.Description == b.Description &&
		a.Name == b.Name &&
		a.Phone == b.Phone &&
		a.ImageURL == b.ImageURL &&
		a.IsLost == b.IsLost &&
		equalPtr(a.Location, b.Location) &&
		equalPtr(a.Lat, b.Lat) &&
		equalPtr(a.Lng, b.Lng) &&
		a.CreatedAt == b.CreatedAt
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SchemaVersion is the current layout of the reports table.
const SchemaVersion = 2

// Schema returns the versioned layout of the cache database.
func Schema() database.Schema {
	return database.Schema{
		Version: SchemaVersion,
		Create: func(tx *gorm.DB) error {
			return tx.Migrator().CreateTable(&Report{})
		},
		Migrate: func(tx *gorm.DB, oldVersion, newVersion int) error {
			// Every step only ever adds nullable or defaulted columns.
			m := tx.Migrator()
			for _, col := range []string{"Location", "Lat", "Lng"} {
				if !m.HasColumn(&Report{}, col) {
					if err := m.AddColumn(&Report{}, col); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

// AfterVersions returns the callbacks interleaved with schema steps.
func AfterVersions() []database.AfterVersion {
	return []database.AfterVersion{
		{
			Version: 1,
			Run: func(tx *gorm.DB) error {
				m := tx.Migrator()
				if m.HasIndex(&Report{}, userCreatedIndex) {
					return nil
				}
				return m.CreateIndex(&Report{}, userCreatedIndex)
			},
		},
	}
}

// Verify checks that the live reports table carries every column the model
// maps. It runs after Migrate so a half-applied upgrade is caught at startup.
func Verify(db *gorm.DB) error {
	return database.RequireColumns(db, TableName,
		"id", "user_id", "description", "name", "phone", "image_url",
		"is_lost", "location", "lat", "lng", "created_at")
}
