package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"collegehub_backend/internals/constants"
	academics "collegehub_backend/internals/features/academics/model"
	"collegehub_backend/internals/features/attendance/model"
	"collegehub_backend/internals/features/attendance/service"
	timetable "collegehub_backend/internals/features/timetable/model"
	"collegehub_backend/internals/testutil"
)

// frozenNow is a Monday, matching the fixture period's day of week.
var frozenNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

type classFixture struct {
	db       *gorm.DB
	semester academics.SemesterModel
	faculty  academics.UserModel
	section  academics.SectionModel
	subject  academics.SubjectModel
	period   timetable.PeriodDefinitionModel
	entry    timetable.TimetableEntryModel
	students []academics.UserModel
}

func (f *classFixture) facultyActor() service.Actor {
	return service.Actor{UserID: f.faculty.UserID, RoleCode: constants.RoleFaculty}
}

func adminActor() service.Actor {
	return service.Actor{UserID: uuid.New(), RoleCode: constants.RoleAdmin}
}

// newClassFixture builds one schedulable class with an enrolled roster and
// freezes the clock at frozenNow.
func newClassFixture(t *testing.T, studentCount int) *classFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.FreezeNow(t, frozenNow)

	f := &classFixture{
		db:       db,
		semester: testutil.NewSemester(t, db),
		faculty:  testutil.NewFaculty(t, db),
		section:  testutil.NewSection(t, db, "A", 3),
		subject:  testutil.NewSubject(t, db, "CS301"),
	}
	f.period = testutil.NewPeriod(t, db, f.semester.SemesterID, 1, 1)
	f.entry = testutil.NewEntry(t, db, f.section.SectionID, f.subject.SubjectID,
		f.period.PeriodDefinitionID, f.semester.SemesterID,
		testutil.EntryOpts{FacultyID: &f.faculty.UserID})

	for i := 0; i < studentCount; i++ {
		student := testutil.NewUser(t, db, constants.RoleStudent)
		testutil.Enroll(t, db, f.section.SectionID, student.UserID)
		f.students = append(f.students, student)
	}
	return f
}

func requireStatus(t *testing.T, db *gorm.DB, sessionID uuid.UUID, want model.SessionStatus) {
	t.Helper()
	var session model.AttendanceSessionModel
	require.NoError(t, db.Where("attendance_session_id = ?", sessionID).First(&session).Error)
	require.Equal(t, want, session.AttendanceSessionStatus)
}
