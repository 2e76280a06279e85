package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/timetable/model"
)

// ProposedEntry carries the fields the conflict validator inspects.
// EntryID is set on updates so the row being edited never conflicts with
// itself.
type ProposedEntry struct {
	EntryID            *uuid.UUID
	FacultyID          *uuid.UUID
	RoomID             *uuid.UUID
	SectionID          uuid.UUID
	PeriodDefinitionID uuid.UUID
	SemesterID         uuid.UUID
}

const (
	ReasonFacultyConflict        = "Faculty is already teaching another class at this time"
	ReasonRoomConflict           = "Room is already occupied at this time"
	ReasonSectionConflict        = "Section already has a class scheduled at this time"
	ReasonPeriodSemesterMismatch = "Period definition does not belong to the specified semester"
	ReasonInvalidPeriod          = "Invalid period definition"
	ReasonNoConflict             = "No conflicts found"
)

// DuplicateSlotReason maps a unique-index violation on timetable_entries
// to the conflict reason of the slot composite that raised it. Postgres
// names the violated index, SQLite lists its columns; both carry the
// owner, so a substring check covers either shape.
func DuplicateSlotReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "faculty"):
		return ReasonFacultyConflict
	case strings.Contains(msg, "room"):
		return ReasonRoomConflict
	default:
		return ReasonSectionConflict
	}
}

// ValidateEntry runs the four conflict checks in order, short-circuiting
// on the first failure. Only active entries conflict. It must be called on
// the same transaction that performs the guarded write; the partial unique
// slot indexes are the backstop for races it cannot see.
func ValidateEntry(tx *gorm.DB, p ProposedEntry) (bool, string, error) {
	// 1. Faculty double-booking
	if p.FacultyID != nil {
		hit, err := slotTaken(tx, p.EntryID,
			"timetable_entry_faculty_id = ?", *p.FacultyID, p.PeriodDefinitionID, p.SemesterID)
		if err != nil {
			return false, "", err
		}
		if hit {
			return false, ReasonFacultyConflict, nil
		}
	}

	// 2. Room occupancy
	if p.RoomID != nil {
		hit, err := slotTaken(tx, p.EntryID,
			"timetable_entry_room_id = ?", *p.RoomID, p.PeriodDefinitionID, p.SemesterID)
		if err != nil {
			return false, "", err
		}
		if hit {
			return false, ReasonRoomConflict, nil
		}
	}

	// 3. Section slot. Duplicates the DB unique constraint so callers get
	// a clean reason pre-save instead of a driver error.
	hit, err := slotTaken(tx, p.EntryID,
		"timetable_entry_section_id = ?", p.SectionID, p.PeriodDefinitionID, p.SemesterID)
	if err != nil {
		return false, "", err
	}
	if hit {
		return false, ReasonSectionConflict, nil
	}

	// 4. Period must belong to the stated semester; guards stale or
	// cross-semester period references.
	var period model.PeriodDefinitionModel
	if err := tx.
		Where("period_definition_id = ?", p.PeriodDefinitionID).
		First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ReasonInvalidPeriod, nil
		}
		return false, "", err
	}
	if period.PeriodDefinitionSemesterID != p.SemesterID {
		return false, ReasonPeriodSemesterMismatch, nil
	}

	return true, ReasonNoConflict, nil
}

func slotTaken(tx *gorm.DB, excludeID *uuid.UUID, ownerCond string, ownerID, periodID, semesterID uuid.UUID) (bool, error) {
	q := tx.Model(&model.TimetableEntryModel{}).
		Where(ownerCond, ownerID).
		Where("timetable_entry_period_definition_id = ? AND timetable_entry_semester_id = ?", periodID, semesterID).
		Where("timetable_entry_is_active = ?", true)
	if excludeID != nil {
		q = q.Where("timetable_entry_id <> ?", *excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
