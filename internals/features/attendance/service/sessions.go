package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collegehub_backend/internals/constants"
	academics "collegehub_backend/internals/features/academics/model"
	"collegehub_backend/internals/features/attendance/model"
	timetable "collegehub_backend/internals/features/timetable/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// Actor is the authenticated identity a service call runs as.
type Actor struct {
	UserID   uuid.UUID
	RoleCode string
}

// MaxSessionDateOffsetDays bounds how far from today a session may be
// opened, both directions.
const MaxSessionDateOffsetDays = 7

// SessionService drives the attendance session state machine:
// SCHEDULED -> ACTIVE -> CLOSED, with BLOCKED/CANCELLED as the exception
// path and reopen as the admin escape hatch.
type SessionService struct {
	DB      *gorm.DB
	reports *ReportService
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db, reports: NewReportService(db)}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func loadEntry(tx *gorm.DB, entryID uuid.UUID) (*timetable.TimetableEntryModel, error) {
	var entry timetable.TimetableEntryModel
	if err := tx.Where("timetable_entry_id = ?", entryID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Timetable entry not found")
		}
		return nil, err
	}
	return &entry, nil
}

func ownsEntry(entry *timetable.TimetableEntryModel, actor Actor) bool {
	return entry.TimetableEntryFacultyID != nil && *entry.TimetableEntryFacultyID == actor.UserID
}

// OpenSession activates the attendance window for one class occurrence.
// Only the assigned faculty may open; the occurrence date must be within
// MaxSessionDateOffsetDays of today. An existing SCHEDULED row is
// activated in place so pre-created sessions and ad-hoc opens converge.
func (s *SessionService) OpenSession(ctx context.Context, entryID uuid.UUID, date time.Time, actor Actor, windowMinutes *int) (*model.AttendanceSessionModel, error) {
	if !constants.Can(actor.RoleCode, constants.CapOpenSession) && !constants.IsAdmin(actor.RoleCode) {
		return nil, apperr.Authorization("Only faculty can open attendance sessions")
	}

	window := model.DefaultAttendanceWindowMinutes
	if windowMinutes != nil {
		if *windowMinutes < 1 || *windowMinutes > 240 {
			return nil, apperr.Precondition("Attendance window must be between 1 and 240 minutes")
		}
		window = *windowMinutes
	}

	date = dateOnly(date)
	today := dateOnly(helper.Now())
	if date.Before(today.AddDate(0, 0, -MaxSessionDateOffsetDays)) {
		return nil, apperr.Precondition("Cannot open a session more than 7 days in the past")
	}
	if date.After(today.AddDate(0, 0, MaxSessionDateOffsetDays)) {
		return nil, apperr.Precondition("Cannot open a session more than 7 days in the future")
	}

	var session model.AttendanceSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := loadEntry(tx, entryID)
		if err != nil {
			return err
		}
		if !entry.TimetableEntryIsActive {
			return apperr.Precondition("Timetable entry is not active")
		}
		if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
			return apperr.Authorization("You are not assigned to teach this class")
		}

		now := helper.Now()
		findErr := tx.
			Where("attendance_session_timetable_entry_id = ? AND attendance_session_date = ?", entryID, date).
			First(&session).Error
		if findErr != nil {
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			session = model.AttendanceSessionModel{
				AttendanceSessionTimetableEntryID: entryID,
				AttendanceSessionDate:             date,
				AttendanceSessionStatus:           model.SessionActive,
				AttendanceSessionOpenedBy:         &actor.UserID,
				AttendanceSessionOpenedAt:         &now,
				AttendanceSessionWindowMinutes:    window,
			}
			if err := tx.Create(&session).Error; err != nil {
				if helper.IsDuplicateKey(err) {
					return apperr.Conflict("A session already exists for this class and date")
				}
				return err
			}
			return nil
		}

		switch session.AttendanceSessionStatus {
		case model.SessionScheduled:
			session.AttendanceSessionStatus = model.SessionActive
			session.AttendanceSessionOpenedBy = &actor.UserID
			session.AttendanceSessionOpenedAt = &now
			session.AttendanceSessionWindowMinutes = window
			return tx.Save(&session).Error
		case model.SessionActive:
			return apperr.StateTransition("Session is already active")
		case model.SessionClosed:
			return apperr.StateTransition("Session is already closed")
		default:
			reason := session.AttendanceSessionCancellationReason
			if reason == "" {
				reason = "no reason recorded"
			}
			return apperr.Newf(apperr.KindStateTransition, "Session is blocked: %s", reason)
		}
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// CloseSession ends the window, backfills ABSENT for every enrolled
// student without a record, and recomputes the affected reports, all in
// one transaction.
func (s *SessionService) CloseSession(ctx context.Context, sessionID uuid.UUID, actor Actor) (*model.AttendanceSessionModel, error) {
	var session model.AttendanceSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Attendance session not found")
			}
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}
		if !constants.IsAdmin(actor.RoleCode) {
			if !constants.Can(actor.RoleCode, constants.CapCloseSession) || !ownsEntry(entry, actor) {
				return apperr.Authorization("You can only close sessions for classes you teach")
			}
		}
		if session.AttendanceSessionStatus != model.SessionActive {
			return apperr.Newf(apperr.KindStateTransition, "Cannot close: session is %s", session.AttendanceSessionStatus)
		}
		return s.closeTx(tx, &session, entry)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// closeTx flips the session to CLOSED, inserts the absence backfill and
// recalculates every touched report. Caller has already authorized.
func (s *SessionService) closeTx(tx *gorm.DB, session *model.AttendanceSessionModel, entry *timetable.TimetableEntryModel) error {
	now := helper.Now()
	session.AttendanceSessionStatus = model.SessionClosed
	session.AttendanceSessionClosedAt = &now
	if err := tx.Save(session).Error; err != nil {
		return err
	}

	if _, err := autoMarkAbsentTx(tx, session, entry); err != nil {
		return err
	}

	var studentIDs []uuid.UUID
	if err := tx.Model(&model.StudentAttendanceModel{}).
		Where("student_attendance_session_id = ?", session.AttendanceSessionID).
		Distinct().
		Pluck("student_attendance_student_id", &studentIDs).Error; err != nil {
		return err
	}
	for _, sid := range studentIDs {
		if _, err := s.reports.recalculateTx(tx, sid, entry.TimetableEntrySubjectID, entry.TimetableEntrySemesterID); err != nil {
			return err
		}
	}
	return nil
}

// autoMarkAbsentTx inserts ABSENT rows for enrolled students with no
// record yet. Insert-only with conflict-ignore, so it can never overwrite
// a mark that raced in.
func autoMarkAbsentTx(tx *gorm.DB, session *model.AttendanceSessionModel, entry *timetable.TimetableEntryModel) (int, error) {
	var roster []uuid.UUID
	if err := tx.Model(&academics.SectionStudentModel{}).
		Where("section_student_section_id = ?", entry.TimetableEntrySectionID).
		Pluck("section_student_student_id", &roster).Error; err != nil {
		return 0, err
	}
	if len(roster) == 0 {
		return 0, nil
	}

	var marked []uuid.UUID
	if err := tx.Model(&model.StudentAttendanceModel{}).
		Where("student_attendance_session_id = ?", session.AttendanceSessionID).
		Pluck("student_attendance_student_id", &marked).Error; err != nil {
		return 0, err
	}
	seen := make(map[uuid.UUID]bool, len(marked))
	for _, id := range marked {
		seen[id] = true
	}

	inserted := 0
	for _, sid := range roster {
		if seen[sid] {
			continue
		}
		row := model.StudentAttendanceModel{
			StudentAttendanceSessionID: session.AttendanceSessionID,
			StudentAttendanceStudentID: sid,
			StudentAttendanceStatus:    model.AttendanceAbsent,
			StudentAttendanceNotes:     model.AutoAbsentNote,
		}
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_attendance_session_id"},
				{Name: "student_attendance_student_id"},
			},
			DoNothing: true,
		}).Create(&row)
		if res.Error != nil {
			return inserted, res.Error
		}
		inserted += int(res.RowsAffected)
	}
	return inserted, nil
}

// BlockSession marks the occurrence as not held. Allowed from any state
// except an existing block; blocking an already CLOSED session retracts
// its records from the rollups, so reports are recomputed here too.
func (s *SessionService) BlockSession(ctx context.Context, sessionID uuid.UUID, actor Actor, reason string) (*model.AttendanceSessionModel, error) {
	if !constants.Can(actor.RoleCode, constants.CapBlockSession) {
		return nil, apperr.Authorization("Only faculty or admin can block sessions")
	}
	if reason == "" {
		return nil, apperr.Precondition("Cancellation reason is required when blocking a session")
	}

	var session model.AttendanceSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Attendance session not found")
			}
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}
		if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
			return apperr.Authorization("You can only block sessions for classes you teach")
		}
		if session.AttendanceSessionStatus.IsTerminalBlock() {
			return apperr.StateTransition("Session is already blocked")
		}

		wasClosed := session.AttendanceSessionStatus == model.SessionClosed
		now := helper.Now()
		session.AttendanceSessionStatus = model.SessionBlocked
		session.AttendanceSessionCancellationReason = reason
		session.AttendanceSessionBlockedBy = &actor.UserID
		session.AttendanceSessionBlockedAt = &now
		if err := tx.Save(&session).Error; err != nil {
			return err
		}

		if wasClosed {
			var studentIDs []uuid.UUID
			if err := tx.Model(&model.StudentAttendanceModel{}).
				Where("student_attendance_session_id = ?", session.AttendanceSessionID).
				Distinct().
				Pluck("student_attendance_student_id", &studentIDs).Error; err != nil {
				return err
			}
			for _, sid := range studentIDs {
				if _, err := s.reports.recalculateTx(tx, sid, entry.TimetableEntrySubjectID, entry.TimetableEntrySemesterID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ReopenSession returns a blocked occurrence to SCHEDULED with a clean
// slate; the faculty must open it again to accept marks.
func (s *SessionService) ReopenSession(ctx context.Context, sessionID uuid.UUID, actor Actor) (*model.AttendanceSessionModel, error) {
	if !constants.Can(actor.RoleCode, constants.CapReopenSession) {
		return nil, apperr.Authorization("Only faculty or admin can reopen sessions")
	}

	var session model.AttendanceSessionModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attendance_session_id = ?", sessionID).First(&session).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Attendance session not found")
			}
			return err
		}
		entry, err := loadEntry(tx, session.AttendanceSessionTimetableEntryID)
		if err != nil {
			return err
		}
		if !constants.IsAdmin(actor.RoleCode) && !ownsEntry(entry, actor) {
			return apperr.Authorization("You can only reopen sessions for classes you teach")
		}
		if !session.AttendanceSessionStatus.IsTerminalBlock() {
			return apperr.StateTransition("Only blocked sessions can be reopened")
		}

		session.AttendanceSessionStatus = model.SessionScheduled
		session.AttendanceSessionOpenedBy = nil
		session.AttendanceSessionOpenedAt = nil
		session.AttendanceSessionClosedAt = nil
		session.AttendanceSessionCancellationReason = ""
		session.AttendanceSessionBlockedBy = nil
		session.AttendanceSessionBlockedAt = nil
		// Save skips nil pointer zero values, so force the cleared columns.
		return tx.Model(&session).
			Select("attendance_session_status", "attendance_session_opened_by",
				"attendance_session_opened_at", "attendance_session_closed_at",
				"attendance_session_cancellation_reason", "attendance_session_blocked_by",
				"attendance_session_blocked_at", "attendance_session_updated_at").
			Updates(&session).Error
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AutoCreateSessions pre-creates SCHEDULED sessions for every class a
// faculty member teaches on the given date. Idempotent; existing
// occurrences are skipped.
func (s *SessionService) AutoCreateSessions(ctx context.Context, facultyID uuid.UUID, date time.Time) (int, error) {
	date = dateOnly(date)
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}

	var entryIDs []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&timetable.TimetableEntryModel{}).
		Joins("JOIN period_definitions ON period_definitions.period_definition_id = timetable_entries.timetable_entry_period_definition_id").
		Where("timetable_entries.timetable_entry_faculty_id = ?", facultyID).
		Where("timetable_entries.timetable_entry_is_active = ?", true).
		Where("period_definitions.period_definition_day_of_week = ?", weekday).
		Pluck("timetable_entries.timetable_entry_id", &entryIDs).Error
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entryID := range entryIDs {
		session := model.AttendanceSessionModel{
			AttendanceSessionTimetableEntryID: entryID,
			AttendanceSessionDate:             date,
			AttendanceSessionStatus:           model.SessionScheduled,
			AttendanceSessionWindowMinutes:    model.DefaultAttendanceWindowMinutes,
		}
		res := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_session_timetable_entry_id"},
				{Name: "attendance_session_date"},
			},
			DoNothing: true,
		}).Create(&session)
		if res.Error != nil {
			return created, res.Error
		}
		created += int(res.RowsAffected)
	}
	return created, nil
}

// CloseExpiredSessions sweeps ACTIVE sessions whose window has lapsed and
// closes each with the full close side effects. Meant for a periodic job.
func (s *SessionService) CloseExpiredSessions(ctx context.Context) (int, error) {
	var active []model.AttendanceSessionModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_session_status = ?", model.SessionActive).
		Find(&active).Error; err != nil {
		return 0, err
	}

	closed := 0
	for i := range active {
		session := active[i]
		if session.AttendanceSessionOpenedAt == nil || helper.Now().Before(session.WindowEnd()) {
			continue
		}
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// Re-read under the tx; a faculty close may have raced us.
			var fresh model.AttendanceSessionModel
			if err := tx.Where("attendance_session_id = ?", session.AttendanceSessionID).
				First(&fresh).Error; err != nil {
				return err
			}
			if fresh.AttendanceSessionStatus != model.SessionActive {
				return nil
			}
			entry, err := loadEntry(tx, fresh.AttendanceSessionTimetableEntryID)
			if err != nil {
				return err
			}
			if err := s.closeTx(tx, &fresh, entry); err != nil {
				return err
			}
			closed++
			return nil
		})
		if err != nil {
			return closed, err
		}
	}
	return closed, nil
}

// SessionStatistics summarizes one session for dashboards.
type SessionStatistics struct {
	SessionID            uuid.UUID           `json:"session_id"`
	Status               model.SessionStatus `json:"status"`
	RosterSize           int                 `json:"roster_size"`
	MarkedCount          int                 `json:"marked_count"`
	PresentCount         int                 `json:"present_count"`
	AbsentCount          int                 `json:"absent_count"`
	LateCount            int                 `json:"late_count"`
	TimeRemainingMinutes int                 `json:"time_remaining_minutes"`
}

func (s *SessionService) Statistics(ctx context.Context, sessionID uuid.UUID) (*SessionStatistics, error) {
	var session model.AttendanceSessionModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_session_id = ?", sessionID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Attendance session not found")
		}
		return nil, err
	}
	entry, err := loadEntry(s.DB.WithContext(ctx), session.AttendanceSessionTimetableEntryID)
	if err != nil {
		return nil, err
	}

	var rosterSize int64
	if err := s.DB.WithContext(ctx).Model(&academics.SectionStudentModel{}).
		Where("section_student_section_id = ?", entry.TimetableEntrySectionID).
		Count(&rosterSize).Error; err != nil {
		return nil, err
	}

	var counts reportCounts
	if err := s.DB.WithContext(ctx).Model(&model.StudentAttendanceModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'PRESENT' THEN 1 ELSE 0 END), 0) AS present,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'ABSENT' THEN 1 ELSE 0 END), 0) AS absent,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'LATE' THEN 1 ELSE 0 END), 0) AS late`).
		Where("student_attendance_session_id = ?", sessionID).
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	return &SessionStatistics{
		SessionID:            session.AttendanceSessionID,
		Status:               session.AttendanceSessionStatus,
		RosterSize:           int(rosterSize),
		MarkedCount:          counts.Total,
		PresentCount:         counts.Present,
		AbsentCount:          counts.Absent,
		LateCount:            counts.Late,
		TimeRemainingMinutes: session.TimeRemaining(),
	}, nil
}
