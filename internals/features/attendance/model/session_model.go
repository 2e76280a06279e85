package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "collegehub_backend/internals/helpers"
)

type SessionStatus string

const (
	SessionScheduled SessionStatus = "SCHEDULED" // default, not yet opened
	SessionActive    SessionStatus = "ACTIVE"    // open, students may mark
	SessionClosed    SessionStatus = "CLOSED"    // ended normally
	SessionBlocked   SessionStatus = "BLOCKED"   // class cancelled, marking blocked
	SessionCancelled SessionStatus = "CANCELLED" // blocked with an explicit reason
)

// IsTerminalBlock reports whether the status is one of the exceptional
// terminal states.
func (s SessionStatus) IsTerminalBlock() bool {
	return s == SessionBlocked || s == SessionCancelled
}

const DefaultAttendanceWindowMinutes = 10

// AttendanceSessionModel is one attendance window for one class occurrence
// on one date. Faculty opens it, students mark, faculty closes it, the
// auto-absence backfill covers everyone else.
type AttendanceSessionModel struct {
	AttendanceSessionID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_session_id" json:"attendance_session_id"`

	AttendanceSessionTimetableEntryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_sessions_occurrence;index;column:attendance_session_timetable_entry_id" json:"attendance_session_timetable_entry_id"`
	AttendanceSessionDate             time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_sessions_occurrence;index:idx_attendance_sessions_date_status;column:attendance_session_date" json:"attendance_session_date"`

	AttendanceSessionStatus SessionStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index:idx_attendance_sessions_date_status;column:attendance_session_status" json:"attendance_session_status"`

	AttendanceSessionOpenedBy *uuid.UUID `gorm:"type:uuid;column:attendance_session_opened_by" json:"attendance_session_opened_by,omitempty"`
	AttendanceSessionOpenedAt *time.Time `gorm:"column:attendance_session_opened_at" json:"attendance_session_opened_at,omitempty"`
	AttendanceSessionClosedAt *time.Time `gorm:"column:attendance_session_closed_at" json:"attendance_session_closed_at,omitempty"`

	AttendanceSessionWindowMinutes int `gorm:"not null;default:10;column:attendance_session_window_minutes" json:"attendance_session_window_minutes"`

	AttendanceSessionCancellationReason string     `gorm:"type:varchar(500);not null;default:'';column:attendance_session_cancellation_reason" json:"attendance_session_cancellation_reason"`
	AttendanceSessionBlockedBy          *uuid.UUID `gorm:"type:uuid;column:attendance_session_blocked_by" json:"attendance_session_blocked_by,omitempty"`
	AttendanceSessionBlockedAt          *time.Time `gorm:"column:attendance_session_blocked_at" json:"attendance_session_blocked_at,omitempty"`

	AttendanceSessionNotes string `gorm:"type:text;not null;default:'';column:attendance_session_notes" json:"attendance_session_notes"`

	AttendanceSessionCreatedAt time.Time `gorm:"column:attendance_session_created_at;autoCreateTime" json:"attendance_session_created_at"`
	AttendanceSessionUpdatedAt time.Time `gorm:"column:attendance_session_updated_at;autoUpdateTime" json:"attendance_session_updated_at"`
}

func (AttendanceSessionModel) TableName() string { return "attendance_sessions" }

func (m *AttendanceSessionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceSessionID == uuid.Nil {
		m.AttendanceSessionID = uuid.New()
	}
	return nil
}

// WindowEnd returns when the marking window closes; zero time when the
// session was never opened.
func (m *AttendanceSessionModel) WindowEnd() time.Time {
	if m.AttendanceSessionOpenedAt == nil {
		return time.Time{}
	}
	return m.AttendanceSessionOpenedAt.Add(time.Duration(m.AttendanceSessionWindowMinutes) * time.Minute)
}

// IsActive reports whether the session is ACTIVE and still inside its
// marking window.
func (m *AttendanceSessionModel) IsActive() bool {
	if m.AttendanceSessionStatus != SessionActive || m.AttendanceSessionOpenedAt == nil {
		return false
	}
	return !helper.Now().After(m.WindowEnd())
}

// CanMarkAttendance is the student-eligibility alias for IsActive.
func (m *AttendanceSessionModel) CanMarkAttendance() bool {
	return m.IsActive()
}

// TimeRemaining returns whole minutes until the window closes, floored at
// zero.
func (m *AttendanceSessionModel) TimeRemaining() int {
	if !m.IsActive() {
		return 0
	}
	remaining := int(m.WindowEnd().Sub(helper.Now()).Minutes())
	if remaining < 0 {
		return 0
	}
	return remaining
}
