package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegehub_backend/internals/features/attendance/model"
	"collegehub_backend/internals/features/attendance/service"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/testutil"
)

// seedOutcome inserts one closed-session attendance fact for the fixture's
// class on the given date offset.
func seedOutcome(t *testing.T, f *classFixture, dayOffset int, studentIdx int, status model.AttendanceStatus, sessionStatus model.SessionStatus) {
	t.Helper()
	date := frozenNow.AddDate(0, 0, dayOffset)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, date, sessionStatus, func(s *model.AttendanceSessionModel) {
		s.AttendanceSessionOpenedAt = &frozenNow
	})
	now := frozenNow.Add(time.Minute)
	require.NoError(t, f.db.Create(&model.StudentAttendanceModel{
		StudentAttendanceSessionID: session.AttendanceSessionID,
		StudentAttendanceStudentID: f.students[studentIdx].UserID,
		StudentAttendanceStatus:    status,
		StudentAttendanceMarkedAt:  &now,
	}).Error)
}

func TestRecalculate_LateCountsTowardNumerator(t *testing.T) {
	f := newClassFixture(t, 1)
	seedOutcome(t, f, -4, 0, model.AttendancePresent, model.SessionClosed)
	seedOutcome(t, f, -3, 0, model.AttendancePresent, model.SessionClosed)
	seedOutcome(t, f, -2, 0, model.AttendanceLate, model.SessionClosed)
	seedOutcome(t, f, -1, 0, model.AttendanceAbsent, model.SessionClosed)

	svc := service.NewReportService(f.db)
	report, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)

	assert.Equal(t, 4, report.AttendanceReportTotalClasses)
	assert.Equal(t, 2, report.AttendanceReportPresentCount)
	assert.Equal(t, 1, report.AttendanceReportLateCount)
	assert.Equal(t, 1, report.AttendanceReportAbsentCount)
	assert.InDelta(t, 75.0, report.AttendanceReportPercentage, 0.001)
	assert.False(t, report.AttendanceReportIsBelowThreshold, "exactly 75 percent meets the threshold")
}

func TestRecalculate_BelowThresholdFlag(t *testing.T) {
	f := newClassFixture(t, 1)
	seedOutcome(t, f, -2, 0, model.AttendancePresent, model.SessionClosed)
	seedOutcome(t, f, -1, 0, model.AttendanceAbsent, model.SessionClosed)

	svc := service.NewReportService(f.db)
	report, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, report.AttendanceReportPercentage, 0.001)
	assert.True(t, report.AttendanceReportIsBelowThreshold)
}

func TestRecalculate_SemesterOfSessions(t *testing.T) {
	f := newClassFixture(t, 1)
	for i := 1; i <= 30; i++ {
		status := model.AttendancePresent
		if i%10 == 0 {
			status = model.AttendanceAbsent
		}
		seedOutcome(t, f, -i, 0, status, model.SessionClosed)
	}

	svc := service.NewReportService(f.db)
	report, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)
	assert.Equal(t, 30, report.AttendanceReportTotalClasses)
	assert.Equal(t, 27, report.AttendanceReportPresentCount)
	assert.Equal(t, 3, report.AttendanceReportAbsentCount)
	assert.InDelta(t, 90.0, report.AttendanceReportPercentage, 0.001)
	assert.False(t, report.AttendanceReportIsBelowThreshold)
}

func TestRecalculate_OnlyClosedSessionsCount(t *testing.T) {
	f := newClassFixture(t, 1)
	seedOutcome(t, f, -3, 0, model.AttendancePresent, model.SessionClosed)
	seedOutcome(t, f, -2, 0, model.AttendancePresent, model.SessionActive)
	seedOutcome(t, f, -1, 0, model.AttendancePresent, model.SessionBlocked)

	svc := service.NewReportService(f.db)
	report, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AttendanceReportTotalClasses)
}

func TestRecalculate_EmptyHistoryIsZeroAndBelow(t *testing.T) {
	f := newClassFixture(t, 1)

	svc := service.NewReportService(f.db)
	report, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)
	assert.Zero(t, report.AttendanceReportTotalClasses)
	assert.Zero(t, report.AttendanceReportPercentage)
	assert.True(t, report.AttendanceReportIsBelowThreshold)
}

func TestRecalculate_UpsertsSingleRow(t *testing.T) {
	f := newClassFixture(t, 1)
	seedOutcome(t, f, -1, 0, model.AttendancePresent, model.SessionClosed)

	svc := service.NewReportService(f.db)
	first, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)

	seedOutcome(t, f, -2, 0, model.AttendanceAbsent, model.SessionClosed)
	second, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)

	assert.Equal(t, first.AttendanceReportID, second.AttendanceReportID)
	assert.Equal(t, 2, second.AttendanceReportTotalClasses)

	var count int64
	require.NoError(t, f.db.Model(&model.AttendanceReportModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestBelowThreshold_ListsWorstFirst(t *testing.T) {
	f := newClassFixture(t, 2)
	// student 0: 50%, student 1: 0%
	seedOutcome(t, f, -2, 0, model.AttendancePresent, model.SessionClosed)
	seedOutcome(t, f, -1, 0, model.AttendanceAbsent, model.SessionClosed)
	seedOutcome(t, f, -3, 1, model.AttendanceAbsent, model.SessionClosed)

	svc := service.NewReportService(f.db)
	_, err := svc.Recalculate(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)
	_, err = svc.Recalculate(context.Background(), f.students[1].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.NoError(t, err)

	reports, err := svc.BelowThreshold(context.Background(), f.semester.SemesterID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, f.students[1].UserID, reports[0].AttendanceReportStudentID)
	assert.Equal(t, f.students[0].UserID, reports[1].AttendanceReportStudentID)
}

func TestGetReport_NotFound(t *testing.T) {
	f := newClassFixture(t, 1)
	svc := service.NewReportService(f.db)
	_, err := svc.GetReport(context.Background(), f.students[0].UserID, f.subject.SubjectID, f.semester.SemesterID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
