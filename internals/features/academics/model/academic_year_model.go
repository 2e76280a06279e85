package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AcademicYearModel struct {
	AcademicYearID uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_year_id" json:"academic_year_id"`

	AcademicYearCode      string `gorm:"type:varchar(20);not null;uniqueIndex;column:academic_year_code" json:"academic_year_code"` // e.g. 2025-26
	AcademicYearIsCurrent bool   `gorm:"not null;default:false;column:academic_year_is_current" json:"academic_year_is_current"`

	AcademicYearCreatedAt time.Time `gorm:"column:academic_year_created_at;autoCreateTime" json:"academic_year_created_at"`
	AcademicYearUpdatedAt time.Time `gorm:"column:academic_year_updated_at;autoUpdateTime" json:"academic_year_updated_at"`
}

func (AcademicYearModel) TableName() string { return "academic_years" }

func (m *AcademicYearModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicYearID == uuid.Nil {
		m.AcademicYearID = uuid.New()
	}
	return nil
}
