package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SectionModel struct {
	SectionID uuid.UUID `gorm:"type:uuid;primaryKey;column:section_id" json:"section_id"`

	SectionName string `gorm:"type:varchar(10);not null;uniqueIndex:uq_sections_name_year;column:section_name" json:"section_name"` // A, B, C
	SectionYear int    `gorm:"not null;uniqueIndex:uq_sections_name_year;column:section_year" json:"section_year"`                  // 1..4

	SectionCreatedAt time.Time `gorm:"column:section_created_at;autoCreateTime" json:"section_created_at"`
	SectionUpdatedAt time.Time `gorm:"column:section_updated_at;autoUpdateTime" json:"section_updated_at"`
}

func (SectionModel) TableName() string { return "sections" }

func (m *SectionModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionID == uuid.Nil {
		m.SectionID = uuid.New()
	}
	return nil
}

// SectionStudentModel is the enrollment roster. The attendance engine
// reads it for eligibility checks and the auto-absence backfill.
type SectionStudentModel struct {
	SectionStudentID uuid.UUID `gorm:"type:uuid;primaryKey;column:section_student_id" json:"section_student_id"`

	SectionStudentSectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_section_students;index;column:section_student_section_id" json:"section_student_section_id"`
	SectionStudentStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_section_students;index;column:section_student_student_id" json:"section_student_student_id"`

	SectionStudentCreatedAt time.Time `gorm:"column:section_student_created_at;autoCreateTime" json:"section_student_created_at"`
}

func (SectionStudentModel) TableName() string { return "section_students" }

func (m *SectionStudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.SectionStudentID == uuid.Nil {
		m.SectionStudentID = uuid.New()
	}
	return nil
}
