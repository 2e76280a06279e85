package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimetableEntryModel is the core scheduling fact: one section meets one
// subject in one period of one semester, optionally with a faculty and a
// room.
//
// The section, faculty and room slot composites are each backed by a
// partial unique index over active rows (raw DDL in database.Migrate; GORM
// tags cannot express partial indexes). The validator gives clean reasons
// pre-save, the indexes are the serialization point for racing writers.
//
// The period reference is nullable only so the swap protocol can park an
// entry mid-transaction; a NULL period must never survive a commit.
type TimetableEntryModel struct {
	TimetableEntryID uuid.UUID `gorm:"type:uuid;primaryKey;column:timetable_entry_id" json:"timetable_entry_id"`

	TimetableEntrySectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_timetable_entries_section_semester;column:timetable_entry_section_id" json:"timetable_entry_section_id"`
	TimetableEntrySubjectID uuid.UUID `gorm:"type:uuid;not null;index;column:timetable_entry_subject_id" json:"timetable_entry_subject_id"`

	TimetableEntryFacultyID *uuid.UUID `gorm:"type:uuid;index:idx_timetable_entries_faculty_semester;column:timetable_entry_faculty_id" json:"timetable_entry_faculty_id,omitempty"`
	TimetableEntryRoomID    *uuid.UUID `gorm:"type:uuid;index;column:timetable_entry_room_id" json:"timetable_entry_room_id,omitempty"`

	TimetableEntryPeriodDefinitionID *uuid.UUID `gorm:"type:uuid;index;column:timetable_entry_period_definition_id" json:"timetable_entry_period_definition_id,omitempty"`
	TimetableEntrySemesterID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_timetable_entries_section_semester;index:idx_timetable_entries_faculty_semester;column:timetable_entry_semester_id" json:"timetable_entry_semester_id"`

	// Soft delete: attendance sessions keep their FK, history stays
	// queryable, inactive entries never conflict.
	TimetableEntryIsActive bool   `gorm:"not null;default:true;index;column:timetable_entry_is_active" json:"timetable_entry_is_active"`
	TimetableEntryNotes    string `gorm:"type:text;not null;default:'';column:timetable_entry_notes" json:"timetable_entry_notes"`

	TimetableEntryCreatedAt time.Time `gorm:"column:timetable_entry_created_at;autoCreateTime" json:"timetable_entry_created_at"`
	TimetableEntryUpdatedAt time.Time `gorm:"column:timetable_entry_updated_at;autoUpdateTime" json:"timetable_entry_updated_at"`
}

func (TimetableEntryModel) TableName() string { return "timetable_entries" }

func (m *TimetableEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimetableEntryID == uuid.Nil {
		m.TimetableEntryID = uuid.New()
	}
	return nil
}
