package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/timetable/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// EntryService owns all writes to timetable entries. Every mutation runs
// the conflict validator inside the same transaction as the write.
type EntryService struct {
	DB *gorm.DB
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{DB: db}
}

type CreateEntryInput struct {
	SectionID          uuid.UUID
	SubjectID          uuid.UUID
	FacultyID          *uuid.UUID
	RoomID             *uuid.UUID
	PeriodDefinitionID uuid.UUID
	SemesterID         uuid.UUID
	Notes              string
}

// Nil pointer means "leave unchanged". Faculty and room cannot be cleared
// through update; deactivate and recreate the entry instead.
type UpdateEntryInput struct {
	SubjectID          *uuid.UUID
	FacultyID          *uuid.UUID
	RoomID             *uuid.UUID
	PeriodDefinitionID *uuid.UUID
	Notes              *string
	IsActive           *bool
}

func (s *EntryService) CreateEntry(ctx context.Context, in CreateEntryInput) (*model.TimetableEntryModel, error) {
	entry := model.TimetableEntryModel{
		TimetableEntrySectionID:          in.SectionID,
		TimetableEntrySubjectID:          in.SubjectID,
		TimetableEntryFacultyID:          in.FacultyID,
		TimetableEntryRoomID:             in.RoomID,
		TimetableEntryPeriodDefinitionID: &in.PeriodDefinitionID,
		TimetableEntrySemesterID:         in.SemesterID,
		TimetableEntryIsActive:           true,
		TimetableEntryNotes:              in.Notes,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, reason, err := ValidateEntry(tx, ProposedEntry{
			FacultyID:          in.FacultyID,
			RoomID:             in.RoomID,
			SectionID:          in.SectionID,
			PeriodDefinitionID: in.PeriodDefinitionID,
			SemesterID:         in.SemesterID,
		})
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Conflict(reason)
		}
		if err := tx.Create(&entry).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return apperr.Conflict(DuplicateSlotReason(err))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *EntryService) UpdateEntry(ctx context.Context, entryID uuid.UUID, in UpdateEntryInput) (*model.TimetableEntryModel, error) {
	var entry model.TimetableEntryModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("timetable_entry_id = ?", entryID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Timetable entry not found")
			}
			return err
		}

		if in.SubjectID != nil {
			entry.TimetableEntrySubjectID = *in.SubjectID
		}
		if in.FacultyID != nil {
			entry.TimetableEntryFacultyID = in.FacultyID
		}
		if in.RoomID != nil {
			entry.TimetableEntryRoomID = in.RoomID
		}
		if in.PeriodDefinitionID != nil {
			entry.TimetableEntryPeriodDefinitionID = in.PeriodDefinitionID
		}
		if in.Notes != nil {
			entry.TimetableEntryNotes = *in.Notes
		}
		if in.IsActive != nil {
			entry.TimetableEntryIsActive = *in.IsActive
		}

		if entry.TimetableEntryPeriodDefinitionID == nil {
			return apperr.Precondition(ReasonInvalidPeriod)
		}

		// Inactive entries never conflict, so only revalidate when the
		// row stays (or becomes) active.
		if entry.TimetableEntryIsActive {
			ok, reason, err := ValidateEntry(tx, ProposedEntry{
				EntryID:            &entry.TimetableEntryID,
				FacultyID:          entry.TimetableEntryFacultyID,
				RoomID:             entry.TimetableEntryRoomID,
				SectionID:          entry.TimetableEntrySectionID,
				PeriodDefinitionID: *entry.TimetableEntryPeriodDefinitionID,
				SemesterID:         entry.TimetableEntrySemesterID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict(reason)
			}
		}

		if err := tx.Save(&entry).Error; err != nil {
			if helper.IsDuplicateKey(err) {
				return apperr.Conflict(DuplicateSlotReason(err))
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry soft-deletes: the row stays for attendance history, it just
// stops occupying its slot.
func (s *EntryService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Model(&model.TimetableEntryModel{}).
		Where("timetable_entry_id = ? AND timetable_entry_is_active = ?", entryID, true).
		Update("timetable_entry_is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Timetable entry not found")
	}
	return nil
}

// SwapEntries exchanges the periods of two entries atomically. Entry A is
// parked on a NULL period first so the slot unique index never sees both
// entries on one slot; any validation failure rolls the whole exchange
// back.
func (s *EntryService) SwapEntries(ctx context.Context, firstID, secondID uuid.UUID) error {
	if firstID == secondID {
		return apperr.Precondition("Cannot swap an entry with itself")
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var first, second model.TimetableEntryModel
		for _, pair := range []struct {
			id  uuid.UUID
			dst *model.TimetableEntryModel
		}{{firstID, &first}, {secondID, &second}} {
			if err := tx.Where("timetable_entry_id = ? AND timetable_entry_is_active = ?", pair.id, true).
				First(pair.dst).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("Timetable entry not found")
				}
				return err
			}
		}
		if first.TimetableEntryPeriodDefinitionID == nil || second.TimetableEntryPeriodDefinitionID == nil {
			return apperr.Precondition(ReasonInvalidPeriod)
		}
		if first.TimetableEntrySemesterID != second.TimetableEntrySemesterID {
			return apperr.Precondition("Cannot swap entries across semesters")
		}

		periodA := *first.TimetableEntryPeriodDefinitionID
		periodB := *second.TimetableEntryPeriodDefinitionID

		if err := tx.Model(&first).
			Update("timetable_entry_period_definition_id", nil).Error; err != nil {
			return err
		}

		for _, move := range []struct {
			entry  *model.TimetableEntryModel
			target uuid.UUID
		}{{&second, periodA}, {&first, periodB}} {
			ok, reason, err := ValidateEntry(tx, ProposedEntry{
				EntryID:            &move.entry.TimetableEntryID,
				FacultyID:          move.entry.TimetableEntryFacultyID,
				RoomID:             move.entry.TimetableEntryRoomID,
				SectionID:          move.entry.TimetableEntrySectionID,
				PeriodDefinitionID: move.target,
				SemesterID:         move.entry.TimetableEntrySemesterID,
			})
			if err != nil {
				return err
			}
			if !ok {
				return apperr.Conflict(reason)
			}
			if err := tx.Model(move.entry).
				Update("timetable_entry_period_definition_id", move.target).Error; err != nil {
				if helper.IsDuplicateKey(err) {
					return apperr.Conflict(DuplicateSlotReason(err))
				}
				return err
			}
		}
		return nil
	})
}

// GridCell pairs an entry with the period slot it occupies.
type GridCell struct {
	Entry  model.TimetableEntryModel   `json:"entry"`
	Period model.PeriodDefinitionModel `json:"period"`
}

// SectionGrid returns the active entries of one section in one semester
// keyed by day-of-week then period number, ready for a weekly grid view.
func (s *EntryService) SectionGrid(ctx context.Context, sectionID, semesterID uuid.UUID) (map[int]map[int]GridCell, error) {
	var entries []model.TimetableEntryModel
	if err := s.DB.WithContext(ctx).
		Where("timetable_entry_section_id = ? AND timetable_entry_semester_id = ? AND timetable_entry_is_active = ?",
			sectionID, semesterID, true).
		Find(&entries).Error; err != nil {
		return nil, err
	}

	periodIDs := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if e.TimetableEntryPeriodDefinitionID != nil {
			periodIDs = append(periodIDs, *e.TimetableEntryPeriodDefinitionID)
		}
	}
	periods := make(map[uuid.UUID]model.PeriodDefinitionModel, len(periodIDs))
	if len(periodIDs) > 0 {
		var rows []model.PeriodDefinitionModel
		if err := s.DB.WithContext(ctx).
			Where("period_definition_id IN ?", periodIDs).
			Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			periods[p.PeriodDefinitionID] = p
		}
	}

	grid := make(map[int]map[int]GridCell)
	for _, e := range entries {
		if e.TimetableEntryPeriodDefinitionID == nil {
			continue
		}
		p, ok := periods[*e.TimetableEntryPeriodDefinitionID]
		if !ok {
			continue
		}
		day := p.PeriodDefinitionDayOfWeek
		if grid[day] == nil {
			grid[day] = make(map[int]GridCell)
		}
		grid[day][p.PeriodDefinitionPeriodNumber] = GridCell{Entry: e, Period: p}
	}
	return grid, nil
}

// FacultySchedule lists a faculty member's active entries for a semester.
func (s *EntryService) FacultySchedule(ctx context.Context, facultyID, semesterID uuid.UUID) ([]model.TimetableEntryModel, error) {
	var entries []model.TimetableEntryModel
	err := s.DB.WithContext(ctx).
		Where("timetable_entry_faculty_id = ? AND timetable_entry_semester_id = ? AND timetable_entry_is_active = ?",
			facultyID, semesterID, true).
		Find(&entries).Error
	return entries, err
}
