package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SemesterModel is the academic period everything else hangs off.
// The is_current flag is a singleton; only SemesterService.SetCurrent may
// flip it (unset all others, set this one, same transaction).
type SemesterModel struct {
	SemesterID uuid.UUID `gorm:"type:uuid;primaryKey;column:semester_id" json:"semester_id"`

	SemesterAcademicYearID uuid.UUID `gorm:"type:uuid;not null;index;column:semester_academic_year_id" json:"semester_academic_year_id"`
	SemesterNumber         int       `gorm:"not null;column:semester_number" json:"semester_number"` // 1..8

	SemesterStartDate time.Time `gorm:"type:date;not null;column:semester_start_date" json:"semester_start_date"`
	SemesterEndDate   time.Time `gorm:"type:date;not null;column:semester_end_date" json:"semester_end_date"`
	SemesterIsCurrent bool      `gorm:"not null;default:false;index;column:semester_is_current" json:"semester_is_current"`

	SemesterCreatedAt time.Time `gorm:"column:semester_created_at;autoCreateTime" json:"semester_created_at"`
	SemesterUpdatedAt time.Time `gorm:"column:semester_updated_at;autoUpdateTime" json:"semester_updated_at"`
}

func (SemesterModel) TableName() string { return "semesters" }

func (m *SemesterModel) BeforeCreate(tx *gorm.DB) error {
	if m.SemesterID == uuid.Nil {
		m.SemesterID = uuid.New()
	}
	return nil
}
