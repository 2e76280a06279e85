package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegehub_backend/internals/features/timetable/model"
	"collegehub_backend/internals/features/timetable/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/testutil"
)

func TestCreateEntry_Success(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	faculty := testutil.NewFaculty(t, db)
	room := testutil.NewRoom(t, db, "301")
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	period := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)

	svc := service.NewEntryService(db)
	entry, err := svc.CreateEntry(context.Background(), service.CreateEntryInput{
		SectionID:          section.SectionID,
		SubjectID:          subject.SubjectID,
		FacultyID:          &faculty.UserID,
		RoomID:             &room.RoomID,
		PeriodDefinitionID: period.PeriodDefinitionID,
		SemesterID:         semester.SemesterID,
	})
	require.NoError(t, err)
	assert.True(t, entry.TimetableEntryIsActive)
	require.NotNil(t, entry.TimetableEntryPeriodDefinitionID)
	assert.Equal(t, period.PeriodDefinitionID, *entry.TimetableEntryPeriodDefinitionID)
}

func TestCreateEntry_FacultyConflictRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	faculty := testutil.NewFaculty(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	sectionA := testutil.NewSection(t, db, "A", 3)
	sectionB := testutil.NewSection(t, db, "B", 3)
	period := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)

	svc := service.NewEntryService(db)
	_, err := svc.CreateEntry(context.Background(), service.CreateEntryInput{
		SectionID:          sectionA.SectionID,
		SubjectID:          subject.SubjectID,
		FacultyID:          &faculty.UserID,
		PeriodDefinitionID: period.PeriodDefinitionID,
		SemesterID:         semester.SemesterID,
	})
	require.NoError(t, err)

	_, err = svc.CreateEntry(context.Background(), service.CreateEntryInput{
		SectionID:          sectionB.SectionID,
		SubjectID:          subject.SubjectID,
		FacultyID:          &faculty.UserID,
		PeriodDefinitionID: period.PeriodDefinitionID,
		SemesterID:         semester.SemesterID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.EqualError(t, err, service.ReasonFacultyConflict)

	var count int64
	require.NoError(t, db.Model(&model.TimetableEntryModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "rejected create must not leave a row behind")
}

func TestUpdateEntry_MoveToFreePeriod(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	period1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)
	period2 := testutil.NewPeriod(t, db, semester.SemesterID, 2, 1)

	entry := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period1.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})

	svc := service.NewEntryService(db)
	updated, err := svc.UpdateEntry(context.Background(), entry.TimetableEntryID, service.UpdateEntryInput{
		PeriodDefinitionID: &period2.PeriodDefinitionID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TimetableEntryPeriodDefinitionID)
	assert.Equal(t, period2.PeriodDefinitionID, *updated.TimetableEntryPeriodDefinitionID)
}

func TestUpdateEntry_ConflictRollsBack(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	period1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)
	period2 := testutil.NewPeriod(t, db, semester.SemesterID, 2, 1)

	testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period2.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})
	entry := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period1.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})

	svc := service.NewEntryService(db)
	_, err := svc.UpdateEntry(context.Background(), entry.TimetableEntryID, service.UpdateEntryInput{
		PeriodDefinitionID: &period2.PeriodDefinitionID,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var fresh model.TimetableEntryModel
	require.NoError(t, db.Where("timetable_entry_id = ?", entry.TimetableEntryID).First(&fresh).Error)
	assert.Equal(t, period1.PeriodDefinitionID, *fresh.TimetableEntryPeriodDefinitionID, "entry must keep its slot after a rejected move")
}

func TestDeleteEntry_SoftDelete(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	period := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)

	entry := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})

	svc := service.NewEntryService(db)
	require.NoError(t, svc.DeleteEntry(context.Background(), entry.TimetableEntryID))

	var fresh model.TimetableEntryModel
	require.NoError(t, db.Where("timetable_entry_id = ?", entry.TimetableEntryID).First(&fresh).Error)
	assert.False(t, fresh.TimetableEntryIsActive)

	// slot is free again
	_, err := svc.CreateEntry(context.Background(), service.CreateEntryInput{
		SectionID:          section.SectionID,
		SubjectID:          subject.SubjectID,
		PeriodDefinitionID: period.PeriodDefinitionID,
		SemesterID:         semester.SemesterID,
	})
	require.NoError(t, err)

	// second delete is a 404
	err = svc.DeleteEntry(context.Background(), entry.TimetableEntryID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

// Plays the second of two racing writers: the row goes in directly, as if
// the validator had already passed on a snapshot that missed the first
// writer's commit. The partial unique slot indexes must reject it.
func TestSlotIndexes_BackstopRacingWrites(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	faculty := testutil.NewFaculty(t, db)
	room := testutil.NewRoom(t, db, "301")
	subject := testutil.NewSubject(t, db, "CS301")
	sectionA := testutil.NewSection(t, db, "A", 3)
	sectionB := testutil.NewSection(t, db, "B", 3)
	sectionC := testutil.NewSection(t, db, "C", 3)
	period := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)

	testutil.NewEntry(t, db, sectionA.SectionID, subject.SubjectID, period.PeriodDefinitionID, semester.SemesterID,
		testutil.EntryOpts{FacultyID: &faculty.UserID, RoomID: &room.RoomID})

	mk := func(sectionID uuid.UUID, opts testutil.EntryOpts) error {
		row := model.TimetableEntryModel{
			TimetableEntrySectionID:          sectionID,
			TimetableEntrySubjectID:          subject.SubjectID,
			TimetableEntryFacultyID:          opts.FacultyID,
			TimetableEntryRoomID:             opts.RoomID,
			TimetableEntryPeriodDefinitionID: &period.PeriodDefinitionID,
			TimetableEntrySemesterID:         semester.SemesterID,
			TimetableEntryIsActive:           true,
		}
		return db.Create(&row).Error
	}

	err := mk(sectionB.SectionID, testutil.EntryOpts{FacultyID: &faculty.UserID})
	require.Error(t, err)
	require.True(t, helper.IsDuplicateKey(err))
	assert.Equal(t, service.ReasonFacultyConflict, service.DuplicateSlotReason(err))

	err = mk(sectionC.SectionID, testutil.EntryOpts{RoomID: &room.RoomID})
	require.Error(t, err)
	require.True(t, helper.IsDuplicateKey(err))
	assert.Equal(t, service.ReasonRoomConflict, service.DuplicateSlotReason(err))

	err = mk(sectionA.SectionID, testutil.EntryOpts{})
	require.Error(t, err)
	require.True(t, helper.IsDuplicateKey(err))
	assert.Equal(t, service.ReasonSectionConflict, service.DuplicateSlotReason(err))

	var count int64
	require.NoError(t, db.Model(&model.TimetableEntryModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSwapEntries_ExchangesPeriods(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	period1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)
	period2 := testutil.NewPeriod(t, db, semester.SemesterID, 2, 1)

	first := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period1.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})
	second := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, period2.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})

	svc := service.NewEntryService(db)
	require.NoError(t, svc.SwapEntries(context.Background(), first.TimetableEntryID, second.TimetableEntryID))

	var freshFirst, freshSecond model.TimetableEntryModel
	require.NoError(t, db.Where("timetable_entry_id = ?", first.TimetableEntryID).First(&freshFirst).Error)
	require.NoError(t, db.Where("timetable_entry_id = ?", second.TimetableEntryID).First(&freshSecond).Error)
	assert.Equal(t, period2.PeriodDefinitionID, *freshFirst.TimetableEntryPeriodDefinitionID)
	assert.Equal(t, period1.PeriodDefinitionID, *freshSecond.TimetableEntryPeriodDefinitionID)
}

func TestSwapEntries_ConflictRollsBackBoth(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	faculty := testutil.NewFaculty(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	sectionA := testutil.NewSection(t, db, "A", 3)
	sectionB := testutil.NewSection(t, db, "B", 3)
	period1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)
	period2 := testutil.NewPeriod(t, db, semester.SemesterID, 2, 1)

	// faculty already teaches section B at period 2, so moving the
	// faculty-assigned entry there must fail
	testutil.NewEntry(t, db, sectionB.SectionID, subject.SubjectID, period2.PeriodDefinitionID, semester.SemesterID,
		testutil.EntryOpts{FacultyID: &faculty.UserID})

	first := testutil.NewEntry(t, db, sectionA.SectionID, subject.SubjectID, period1.PeriodDefinitionID, semester.SemesterID,
		testutil.EntryOpts{FacultyID: &faculty.UserID})
	second := testutil.NewEntry(t, db, sectionA.SectionID, subject.SubjectID, period2.PeriodDefinitionID, semester.SemesterID,
		testutil.EntryOpts{})

	svc := service.NewEntryService(db)
	err := svc.SwapEntries(context.Background(), first.TimetableEntryID, second.TimetableEntryID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	var freshFirst, freshSecond model.TimetableEntryModel
	require.NoError(t, db.Where("timetable_entry_id = ?", first.TimetableEntryID).First(&freshFirst).Error)
	require.NoError(t, db.Where("timetable_entry_id = ?", second.TimetableEntryID).First(&freshSecond).Error)
	require.NotNil(t, freshFirst.TimetableEntryPeriodDefinitionID, "parked entry must be restored on rollback")
	assert.Equal(t, period1.PeriodDefinitionID, *freshFirst.TimetableEntryPeriodDefinitionID)
	assert.Equal(t, period2.PeriodDefinitionID, *freshSecond.TimetableEntryPeriodDefinitionID)
}

func TestSwapEntries_SameEntryRejected(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewEntryService(db)
	id := testutil.NewID()
	err := svc.SwapEntries(context.Background(), id, id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
}

func TestSectionGrid_GroupsByDayAndPeriod(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	subject := testutil.NewSubject(t, db, "CS301")
	section := testutil.NewSection(t, db, "A", 3)
	monP1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 1)
	monP2 := testutil.NewPeriod(t, db, semester.SemesterID, 2, 1)
	tueP1 := testutil.NewPeriod(t, db, semester.SemesterID, 1, 2)

	testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, monP1.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})
	testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, monP2.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})
	inactive := testutil.NewEntry(t, db, section.SectionID, subject.SubjectID, tueP1.PeriodDefinitionID, semester.SemesterID, testutil.EntryOpts{})
	require.NoError(t, db.Model(&inactive).Update("timetable_entry_is_active", false).Error)

	svc := service.NewEntryService(db)
	grid, err := svc.SectionGrid(context.Background(), section.SectionID, semester.SemesterID)
	require.NoError(t, err)
	require.Contains(t, grid, 1)
	assert.Len(t, grid[1], 2)
	assert.NotContains(t, grid, 2, "inactive entries stay off the grid")
}
