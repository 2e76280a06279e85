package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collegehub_backend/internals/constants"
	academics "collegehub_backend/internals/features/academics/model"
	"collegehub_backend/internals/features/attendance/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// MarkingService records attendance outcomes. All writes go through the
// (session, student) upsert so concurrent marks for the same student
// collapse to one row, last write wins.
type MarkingService struct {
	DB      *gorm.DB
	reports *ReportService
}

func NewMarkingService(db *gorm.DB) *MarkingService {
	return &MarkingService{DB: db, reports: NewReportService(db)}
}

type SelfMarkInput struct {
	ImageKey   string
	Latitude   *float64
	Longitude  *float64
	DeviceInfo datatypes.JSON
}

func enrolled(tx *gorm.DB, sectionID, studentID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&academics.SectionStudentModel{}).
		Where("section_student_section_id = ? AND section_student_student_id = ?", sectionID, studentID).
		Count(&count).Error
	return count > 0, err
}

func loadSession(tx *gorm.DB, sessionID uuid.UUID) (*model.AttendanceSessionModel, error) {
	var session model.AttendanceSessionModel
	if err := tx.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Attendance session not found")
		}
		return nil, err
	}
	return &session, nil
}

func upsertAttendanceTx(tx *gorm.DB, row *model.StudentAttendanceModel) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_attendance_session_id"},
			{Name: "student_attendance_student_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"student_attendance_status",
			"student_attendance_image_key",
			"student_attendance_marked_at",
			"student_attendance_latitude",
			"student_attendance_longitude",
			"student_attendance_device_info",
			"student_attendance_is_manually_marked",
			"student_attendance_marked_by",
			"student_attendance_notes",
			"student_attendance_updated_at",
		}),
	}).Create(row).Error
}

// SelfMark records the student's own PRESENT mark. Photo capture is
// mandatory; eligibility requires an ACTIVE session inside its window and
// enrollment in the section.
func (s *MarkingService) SelfMark(ctx context.Context, sessionID, studentID uuid.UUID, in SelfMarkInput) (*model.StudentAttendanceModel, error) {
	if studentID == uuid.Nil {
		return nil, apperr.Authorization("Student identity is required")
	}

	var row model.StudentAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}

		if session.AttendanceSessionStatus.IsTerminalBlock() {
			return apperr.StateTransition("Cannot mark attendance for blocked/cancelled sessions")
		}
		if session.AttendanceSessionStatus != model.SessionActive {
			return apperr.StateTransition("Session is not active")
		}
		if !session.CanMarkAttendance() {
			return apperr.Precondition("Attendance window has expired")
		}

		ok, err := enrolled(tx, entry.TimetableEntrySectionID, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Authorization("You are not enrolled in this section")
		}

		// Only an existing PRESENT blocks; a manual ABSENT or LATE can
		// still be upgraded while the window is open.
		var existing model.StudentAttendanceModel
		findErr := tx.
			Where("student_attendance_session_id = ? AND student_attendance_student_id = ?", sessionID, studentID).
			First(&existing).Error
		if findErr == nil && existing.StudentAttendanceStatus == model.AttendancePresent {
			return apperr.Conflict("Attendance already marked for this session")
		}
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		if in.ImageKey == "" {
			return apperr.Precondition("Photo capture is required to mark attendance")
		}

		now := helper.Now()
		row = model.StudentAttendanceModel{
			StudentAttendanceSessionID: sessionID,
			StudentAttendanceStudentID: studentID,
			StudentAttendanceStatus:    model.AttendancePresent,
			StudentAttendanceImageKey:  in.ImageKey,
			StudentAttendanceMarkedAt:  &now,
			StudentAttendanceLatitude:  in.Latitude,
			StudentAttendanceLongitude: in.Longitude,
			StudentAttendanceDeviceInfo: in.DeviceInfo,
		}
		if err := upsertAttendanceTx(tx, &row); err != nil {
			return err
		}
		_, err = s.reports.recalculateTx(tx, studentID, entry.TimetableEntrySubjectID, entry.TimetableEntrySemesterID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ManualMark lets the class's faculty (or an admin) set any status for an
// enrolled student. Works on CLOSED sessions too, for corrections.
func (s *MarkingService) ManualMark(ctx context.Context, sessionID, studentID uuid.UUID, status model.AttendanceStatus, actor Actor, notes string) (*model.StudentAttendanceModel, error) {
	if !constants.Can(actor.RoleCode, constants.CapManualMark) {
		return nil, apperr.Authorization("Only faculty or admin can manually mark attendance")
	}
	if !status.Valid() {
		return nil, apperr.Precondition("Invalid status. Must be PRESENT, ABSENT, or LATE")
	}

	var row model.StudentAttendanceModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}
		if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
			return apperr.Authorization("You can only manually mark attendance for classes you teach")
		}
		if session.AttendanceSessionStatus.IsTerminalBlock() {
			return apperr.StateTransition("Cannot mark attendance for blocked/cancelled sessions")
		}

		ok, err := enrolled(tx, entry.TimetableEntrySectionID, studentID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Precondition("Student is not enrolled in this section")
		}

		now := helper.Now()
		row = model.StudentAttendanceModel{
			StudentAttendanceSessionID:        sessionID,
			StudentAttendanceStudentID:        studentID,
			StudentAttendanceStatus:           status,
			StudentAttendanceMarkedAt:         &now,
			StudentAttendanceIsManuallyMarked: true,
			StudentAttendanceMarkedBy:         &actor.UserID,
			StudentAttendanceNotes:            notes,
		}
		if err := upsertAttendanceTx(tx, &row); err != nil {
			return err
		}
		_, err = s.reports.recalculateTx(tx, studentID, entry.TimetableEntrySubjectID, entry.TimetableEntrySemesterID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// BulkMarkPresent marks a whole list PRESENT in one pass; students not on
// the roster are skipped and reported back, not failed on.
func (s *MarkingService) BulkMarkPresent(ctx context.Context, sessionID uuid.UUID, studentIDs []uuid.UUID, actor Actor) (int, []uuid.UUID, error) {
	if !constants.Can(actor.RoleCode, constants.CapManualMark) {
		return 0, nil, apperr.Authorization("Only faculty or admin can manually mark attendance")
	}

	marked := 0
	var skipped []uuid.UUID
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session, err := loadSession(tx, sessionID)
		if err != nil {
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}
		if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
			return apperr.Authorization("You can only manually mark attendance for classes you teach")
		}
		if session.AttendanceSessionStatus.IsTerminalBlock() {
			return apperr.StateTransition("Cannot mark attendance for blocked/cancelled sessions")
		}

		now := helper.Now()
		for _, sid := range studentIDs {
			ok, err := enrolled(tx, entry.TimetableEntrySectionID, sid)
			if err != nil {
				return err
			}
			if !ok {
				skipped = append(skipped, sid)
				continue
			}
			row := model.StudentAttendanceModel{
				StudentAttendanceSessionID:        sessionID,
				StudentAttendanceStudentID:        sid,
				StudentAttendanceStatus:           model.AttendancePresent,
				StudentAttendanceMarkedAt:         &now,
				StudentAttendanceIsManuallyMarked: true,
				StudentAttendanceMarkedBy:         &actor.UserID,
			}
			if err := upsertAttendanceTx(tx, &row); err != nil {
				return err
			}
			if _, err := s.reports.recalculateTx(tx, sid, entry.TimetableEntrySubjectID, entry.TimetableEntrySemesterID); err != nil {
				return err
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return marked, skipped, nil
}

// SessionRecords lists the attendance rows of one session for the class
// faculty or an admin.
func (s *MarkingService) SessionRecords(ctx context.Context, sessionID uuid.UUID, actor Actor) ([]model.StudentAttendanceModel, error) {
	session, err := loadSession(s.DB.WithContext(ctx), sessionID)
	if err != nil {
		return nil, err
	}
	entry, err := loadEntry(s.DB.WithContext(ctx), session.AttendanceSessionTimetableEntryID)
	if err != nil {
		return nil, err
	}
	if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
		return nil, apperr.Authorization("You can only view records for classes you teach")
	}

	var rows []model.StudentAttendanceModel
	err = s.DB.WithContext(ctx).
		Where("student_attendance_session_id = ?", sessionID).
		Order("student_attendance_created_at").
		Find(&rows).Error
	return rows, err
}
