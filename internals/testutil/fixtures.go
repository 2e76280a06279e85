package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"collegehub_backend/internals/constants"
	academics "collegehub_backend/internals/features/academics/model"
	attendance "collegehub_backend/internals/features/attendance/model"
	timetable "collegehub_backend/internals/features/timetable/model"
)

func NewAcademicYear(t *testing.T, db *gorm.DB, code string) academics.AcademicYearModel {
	t.Helper()
	year := academics.AcademicYearModel{AcademicYearCode: code}
	require.NoError(t, db.Create(&year).Error)
	return year
}

func NewSemester(t *testing.T, db *gorm.DB) academics.SemesterModel {
	t.Helper()
	year := NewAcademicYear(t, db, "Y-"+uuid.NewString()[:8])
	semester := academics.SemesterModel{
		SemesterAcademicYearID: year.AcademicYearID,
		SemesterNumber:         1,
		SemesterStartDate:      time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		SemesterEndDate:        time.Date(2026, 5, 29, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&semester).Error)
	return semester
}

func NewUser(t *testing.T, db *gorm.DB, roleCode string) academics.UserModel {
	t.Helper()
	user := academics.UserModel{
		UserFullName: "Test " + roleCode,
		UserRoleCode: roleCode,
		UserIsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func NewFaculty(t *testing.T, db *gorm.DB) academics.UserModel {
	return NewUser(t, db, constants.RoleFaculty)
}

func NewSection(t *testing.T, db *gorm.DB, name string, year int) academics.SectionModel {
	t.Helper()
	section := academics.SectionModel{SectionName: name, SectionYear: year}
	require.NoError(t, db.Create(&section).Error)
	return section
}

func Enroll(t *testing.T, db *gorm.DB, sectionID, studentID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Create(&academics.SectionStudentModel{
		SectionStudentSectionID: sectionID,
		SectionStudentStudentID: studentID,
	}).Error)
}

func NewSubject(t *testing.T, db *gorm.DB, code string) academics.SubjectModel {
	t.Helper()
	subject := academics.SubjectModel{
		SubjectCode:     code,
		SubjectName:     "Subject " + code,
		SubjectIsActive: true,
	}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func NewRoom(t *testing.T, db *gorm.DB, number string) academics.RoomModel {
	t.Helper()
	room := academics.RoomModel{
		RoomNumber:   number,
		RoomBuilding: "Main",
		RoomCapacity: 60,
		RoomType:     academics.RoomClassroom,
		RoomIsActive: true,
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func NewConfiguration(t *testing.T, db *gorm.DB, semesterID uuid.UUID, mutate func(*timetable.TimetableConfigurationModel)) timetable.TimetableConfigurationModel {
	t.Helper()
	cfg := timetable.TimetableConfigurationModel{
		TimetableConfigurationSemesterID:            semesterID,
		TimetableConfigurationPeriodsPerDay:         8,
		TimetableConfigurationDefaultPeriodDuration: 50,
		TimetableConfigurationDayStartTime:          "09:30",
		TimetableConfigurationDayEndTime:            "16:30",
		TimetableConfigurationLunchBreakAfterPeriod: 4,
		TimetableConfigurationLunchBreakDuration:    30,
		TimetableConfigurationShortBreakDuration:    10,
		TimetableConfigurationWorkingDays:           datatypes.NewJSONSlice([]int{1, 2, 3, 4, 5}),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, db.Create(&cfg).Error)
	return cfg
}

func NewPeriod(t *testing.T, db *gorm.DB, semesterID uuid.UUID, number, day int) timetable.PeriodDefinitionModel {
	t.Helper()
	start := 9*60 + 30 + (number-1)*60
	period := timetable.PeriodDefinitionModel{
		PeriodDefinitionSemesterID:      semesterID,
		PeriodDefinitionPeriodNumber:    number,
		PeriodDefinitionDayOfWeek:       day,
		PeriodDefinitionStartTime:       clock(start),
		PeriodDefinitionEndTime:         clock(start + 50),
		PeriodDefinitionDurationMinutes: 50,
	}
	require.NoError(t, db.Create(&period).Error)
	return period
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type EntryOpts struct {
	FacultyID *uuid.UUID
	RoomID    *uuid.UUID
}

func NewEntry(t *testing.T, db *gorm.DB, sectionID, subjectID, periodID, semesterID uuid.UUID, opts EntryOpts) timetable.TimetableEntryModel {
	t.Helper()
	entry := timetable.TimetableEntryModel{
		TimetableEntrySectionID:          sectionID,
		TimetableEntrySubjectID:          subjectID,
		TimetableEntryFacultyID:          opts.FacultyID,
		TimetableEntryRoomID:             opts.RoomID,
		TimetableEntryPeriodDefinitionID: &periodID,
		TimetableEntrySemesterID:         semesterID,
		TimetableEntryIsActive:           true,
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func NewSession(t *testing.T, db *gorm.DB, entryID uuid.UUID, date time.Time, status attendance.SessionStatus, mutate func(*attendance.AttendanceSessionModel)) attendance.AttendanceSessionModel {
	t.Helper()
	// Normalize to midnight UTC the same way OpenSession's dateOnly does;
	// the SQLite test driver keeps the time component Postgres would drop.
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	session := attendance.AttendanceSessionModel{
		AttendanceSessionTimetableEntryID: entryID,
		AttendanceSessionDate:             date,
		AttendanceSessionStatus:           status,
		AttendanceSessionWindowMinutes:    attendance.DefaultAttendanceWindowMinutes,
	}
	if mutate != nil {
		mutate(&session)
	}
	require.NoError(t, db.Create(&session).Error)
	return session
}
