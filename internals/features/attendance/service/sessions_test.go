package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegehub_backend/internals/constants"
	"collegehub_backend/internals/features/attendance/model"
	"collegehub_backend/internals/features/attendance/service"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/testutil"
)

func TestOpenSession_CreatesActiveSession(t *testing.T) {
	f := newClassFixture(t, 0)
	svc := service.NewSessionService(f.db)

	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.SessionActive, session.AttendanceSessionStatus)
	require.NotNil(t, session.AttendanceSessionOpenedBy)
	assert.Equal(t, f.faculty.UserID, *session.AttendanceSessionOpenedBy)
	require.NotNil(t, session.AttendanceSessionOpenedAt)
	assert.Equal(t, model.DefaultAttendanceWindowMinutes, session.AttendanceSessionWindowMinutes)
}

func TestOpenSession_ActivatesScheduledSession(t *testing.T) {
	f := newClassFixture(t, 0)
	scheduled := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow.Truncate(24*time.Hour), model.SessionScheduled, nil)

	svc := service.NewSessionService(f.db)
	window := 15
	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), &window)
	require.NoError(t, err)
	assert.Equal(t, scheduled.AttendanceSessionID, session.AttendanceSessionID, "scheduled row is activated, not duplicated")
	assert.Equal(t, model.SessionActive, session.AttendanceSessionStatus)
	assert.Equal(t, 15, session.AttendanceSessionWindowMinutes)
}

func TestOpenSession_RejectsUnassignedFaculty(t *testing.T) {
	f := newClassFixture(t, 0)
	other := testutil.NewFaculty(t, f.db)

	svc := service.NewSessionService(f.db)
	_, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow,
		service.Actor{UserID: other.UserID, RoleCode: constants.RoleFaculty}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestOpenSession_RejectsStudentRole(t *testing.T) {
	f := newClassFixture(t, 1)
	svc := service.NewSessionService(f.db)
	_, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow,
		service.Actor{UserID: f.students[0].UserID, RoleCode: constants.RoleStudent}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestOpenSession_DateWindowEnforced(t *testing.T) {
	f := newClassFixture(t, 0)
	svc := service.NewSessionService(f.db)

	_, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow.AddDate(0, 0, -8), f.facultyActor(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))

	_, err = svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow.AddDate(0, 0, 8), f.facultyActor(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))

	// exactly on the boundary is allowed
	_, err = svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow.AddDate(0, 0, 7), f.facultyActor(), nil)
	require.NoError(t, err)
}

func TestOpenSession_IllegalStates(t *testing.T) {
	f := newClassFixture(t, 0)
	svc := service.NewSessionService(f.db)
	date := frozenNow.AddDate(0, 0, 1)

	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, date, model.SessionActive, func(s *model.AttendanceSessionModel) {
		s.AttendanceSessionOpenedAt = &frozenNow
		s.AttendanceSessionOpenedBy = &f.faculty.UserID
	})
	_, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, date, f.facultyActor(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))

	require.NoError(t, f.db.Model(&session).Update("attendance_session_status", model.SessionClosed).Error)
	_, err = svc.OpenSession(context.Background(), f.entry.TimetableEntryID, date, f.facultyActor(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))

	require.NoError(t, f.db.Model(&session).Updates(map[string]any{
		"attendance_session_status":              model.SessionBlocked,
		"attendance_session_cancellation_reason": "Holiday",
	}).Error)
	_, err = svc.OpenSession(context.Background(), f.entry.TimetableEntryID, date, f.facultyActor(), nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "Holiday")
}

func TestCloseSession_BackfillsAbsentAndRecalculates(t *testing.T) {
	f := newClassFixture(t, 3)
	svc := service.NewSessionService(f.db)

	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), nil)
	require.NoError(t, err)

	marking := service.NewMarkingService(f.db)
	_, err = marking.SelfMark(context.Background(), session.AttendanceSessionID, f.students[0].UserID,
		service.SelfMarkInput{ImageKey: "captures/s0.jpg"})
	require.NoError(t, err)

	closed, err := svc.CloseSession(context.Background(), session.AttendanceSessionID, f.facultyActor())
	require.NoError(t, err)
	assert.Equal(t, model.SessionClosed, closed.AttendanceSessionStatus)
	require.NotNil(t, closed.AttendanceSessionClosedAt)

	var rows []model.StudentAttendanceModel
	require.NoError(t, f.db.Where("student_attendance_session_id = ?", session.AttendanceSessionID).Find(&rows).Error)
	require.Len(t, rows, 3)

	absents := 0
	for _, r := range rows {
		if r.StudentAttendanceStatus == model.AttendanceAbsent {
			absents++
			assert.Equal(t, model.AutoAbsentNote, r.StudentAttendanceNotes)
			assert.False(t, r.StudentAttendanceIsManuallyMarked)
		}
	}
	assert.Equal(t, 2, absents)

	// every touched student has a recomputed rollup
	var reports []model.AttendanceReportModel
	require.NoError(t, f.db.Where("attendance_report_semester_id = ?", f.semester.SemesterID).Find(&reports).Error)
	require.Len(t, reports, 3)
	for _, r := range reports {
		assert.Equal(t, 1, r.AttendanceReportTotalClasses)
		if r.AttendanceReportStudentID == f.students[0].UserID {
			assert.InDelta(t, 100.0, r.AttendanceReportPercentage, 0.001)
			assert.False(t, r.AttendanceReportIsBelowThreshold)
		} else {
			assert.InDelta(t, 0.0, r.AttendanceReportPercentage, 0.001)
			assert.True(t, r.AttendanceReportIsBelowThreshold)
		}
	}
}

func TestCloseSession_OnlyActiveCanClose(t *testing.T) {
	f := newClassFixture(t, 0)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionScheduled, nil)

	svc := service.NewSessionService(f.db)
	_, err := svc.CloseSession(context.Background(), session.AttendanceSessionID, f.facultyActor())
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))
}

func TestCloseSession_RejectsUnrelatedFaculty(t *testing.T) {
	f := newClassFixture(t, 0)
	other := testutil.NewFaculty(t, f.db)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionActive, func(s *model.AttendanceSessionModel) {
		s.AttendanceSessionOpenedAt = &frozenNow
	})

	svc := service.NewSessionService(f.db)
	_, err := svc.CloseSession(context.Background(), session.AttendanceSessionID,
		service.Actor{UserID: other.UserID, RoleCode: constants.RoleFaculty})
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuthorization, apperr.KindOf(err))
}

func TestBlockSession_RequiresReason(t *testing.T) {
	f := newClassFixture(t, 0)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionScheduled, nil)

	svc := service.NewSessionService(f.db)
	_, err := svc.BlockSession(context.Background(), session.AttendanceSessionID, f.facultyActor(), "")
	require.Error(t, err)
	assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
}

func TestBlockSession_SetsBlockFields(t *testing.T) {
	f := newClassFixture(t, 0)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionScheduled, nil)

	svc := service.NewSessionService(f.db)
	blocked, err := svc.BlockSession(context.Background(), session.AttendanceSessionID, f.facultyActor(), "Faculty on leave")
	require.NoError(t, err)
	assert.Equal(t, model.SessionBlocked, blocked.AttendanceSessionStatus)
	assert.Equal(t, "Faculty on leave", blocked.AttendanceSessionCancellationReason)
	require.NotNil(t, blocked.AttendanceSessionBlockedBy)
	assert.Equal(t, f.faculty.UserID, *blocked.AttendanceSessionBlockedBy)
	require.NotNil(t, blocked.AttendanceSessionBlockedAt)

	_, err = svc.BlockSession(context.Background(), session.AttendanceSessionID, f.facultyActor(), "again")
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))
}

func TestBlockSession_OnClosedRetractsReports(t *testing.T) {
	f := newClassFixture(t, 1)
	svc := service.NewSessionService(f.db)
	marking := service.NewMarkingService(f.db)

	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), nil)
	require.NoError(t, err)
	_, err = marking.SelfMark(context.Background(), session.AttendanceSessionID, f.students[0].UserID,
		service.SelfMarkInput{ImageKey: "captures/s0.jpg"})
	require.NoError(t, err)
	_, err = svc.CloseSession(context.Background(), session.AttendanceSessionID, f.facultyActor())
	require.NoError(t, err)

	var report model.AttendanceReportModel
	require.NoError(t, f.db.Where("attendance_report_student_id = ?", f.students[0].UserID).First(&report).Error)
	require.Equal(t, 1, report.AttendanceReportTotalClasses)

	_, err = svc.BlockSession(context.Background(), session.AttendanceSessionID, adminActor(), "Session held in error")
	require.NoError(t, err)

	require.NoError(t, f.db.Where("attendance_report_student_id = ?", f.students[0].UserID).First(&report).Error)
	assert.Equal(t, 0, report.AttendanceReportTotalClasses, "blocked sessions drop out of the rollup")
}

func TestReopenSession_ResetsToScheduled(t *testing.T) {
	f := newClassFixture(t, 0)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionBlocked, func(s *model.AttendanceSessionModel) {
		s.AttendanceSessionCancellationReason = "Holiday"
		s.AttendanceSessionBlockedBy = &f.faculty.UserID
		s.AttendanceSessionBlockedAt = &frozenNow
		s.AttendanceSessionOpenedAt = &frozenNow
		s.AttendanceSessionOpenedBy = &f.faculty.UserID
	})

	svc := service.NewSessionService(f.db)
	reopened, err := svc.ReopenSession(context.Background(), session.AttendanceSessionID, f.facultyActor())
	require.NoError(t, err)
	assert.Equal(t, model.SessionScheduled, reopened.AttendanceSessionStatus)

	var fresh model.AttendanceSessionModel
	require.NoError(t, f.db.Where("attendance_session_id = ?", session.AttendanceSessionID).First(&fresh).Error)
	assert.Equal(t, model.SessionScheduled, fresh.AttendanceSessionStatus)
	assert.Empty(t, fresh.AttendanceSessionCancellationReason)
	assert.Nil(t, fresh.AttendanceSessionBlockedBy)
	assert.Nil(t, fresh.AttendanceSessionBlockedAt)
	assert.Nil(t, fresh.AttendanceSessionOpenedAt)
	assert.Nil(t, fresh.AttendanceSessionOpenedBy)
}

func TestReopenSession_OnlyBlocked(t *testing.T) {
	f := newClassFixture(t, 0)
	session := testutil.NewSession(t, f.db, f.entry.TimetableEntryID, frozenNow, model.SessionScheduled, nil)

	svc := service.NewSessionService(f.db)
	_, err := svc.ReopenSession(context.Background(), session.AttendanceSessionID, f.facultyActor())
	require.Error(t, err)
	assert.Equal(t, apperr.KindStateTransition, apperr.KindOf(err))
}

func TestAutoCreateSessions_MatchesWeekday(t *testing.T) {
	f := newClassFixture(t, 0)
	// second Monday class for the same faculty, different section
	sectionB := testutil.NewSection(t, f.db, "B", 3)
	monP2 := testutil.NewPeriod(t, f.db, f.semester.SemesterID, 2, 1)
	testutil.NewEntry(t, f.db, sectionB.SectionID, f.subject.SubjectID, monP2.PeriodDefinitionID, f.semester.SemesterID,
		testutil.EntryOpts{FacultyID: &f.faculty.UserID})
	// Tuesday class must not produce a session for a Monday date
	tueP1 := testutil.NewPeriod(t, f.db, f.semester.SemesterID, 1, 2)
	testutil.NewEntry(t, f.db, sectionB.SectionID, f.subject.SubjectID, tueP1.PeriodDefinitionID, f.semester.SemesterID,
		testutil.EntryOpts{FacultyID: &f.faculty.UserID})

	svc := service.NewSessionService(f.db)
	created, err := svc.AutoCreateSessions(context.Background(), f.faculty.UserID, frozenNow)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	again, err := svc.AutoCreateSessions(context.Background(), f.faculty.UserID, frozenNow)
	require.NoError(t, err)
	assert.Zero(t, again, "existing occurrences are skipped")

	var sessions []model.AttendanceSessionModel
	require.NoError(t, f.db.Find(&sessions).Error)
	require.Len(t, sessions, 2)
	for _, s := range sessions {
		assert.Equal(t, model.SessionScheduled, s.AttendanceSessionStatus)
	}
}

func TestCloseExpiredSessions_SweepsLapsedWindows(t *testing.T) {
	f := newClassFixture(t, 1)
	svc := service.NewSessionService(f.db)

	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), nil)
	require.NoError(t, err)

	// still inside the window: nothing happens
	closed, err := svc.CloseExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Zero(t, closed)
	requireStatus(t, f.db, session.AttendanceSessionID, model.SessionActive)

	testutil.AdvanceNow(t, frozenNow.Add(11*time.Minute))
	closed, err = svc.CloseExpiredSessions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	requireStatus(t, f.db, session.AttendanceSessionID, model.SessionClosed)

	// sweep ran the full close path, absences included
	var rows []model.StudentAttendanceModel
	require.NoError(t, f.db.Where("student_attendance_session_id = ?", session.AttendanceSessionID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, model.AttendanceAbsent, rows[0].StudentAttendanceStatus)
}

func TestStatistics_CountsRosterAndMarks(t *testing.T) {
	f := newClassFixture(t, 3)
	svc := service.NewSessionService(f.db)
	marking := service.NewMarkingService(f.db)

	session, err := svc.OpenSession(context.Background(), f.entry.TimetableEntryID, frozenNow, f.facultyActor(), nil)
	require.NoError(t, err)
	_, err = marking.SelfMark(context.Background(), session.AttendanceSessionID, f.students[0].UserID,
		service.SelfMarkInput{ImageKey: "captures/s0.jpg"})
	require.NoError(t, err)
	_, err = marking.ManualMark(context.Background(), session.AttendanceSessionID, f.students[1].UserID,
		model.AttendanceLate, f.facultyActor(), "")
	require.NoError(t, err)

	stats, err := svc.Statistics(context.Background(), session.AttendanceSessionID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.RosterSize)
	assert.Equal(t, 2, stats.MarkedCount)
	assert.Equal(t, 1, stats.PresentCount)
	assert.Equal(t, 1, stats.LateCount)
	assert.Zero(t, stats.AbsentCount)
	assert.Equal(t, model.SessionActive, stats.Status)
	assert.Equal(t, 10, stats.TimeRemainingMinutes)
}
