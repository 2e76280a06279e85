package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	}
	return false
}

// AutoAbsentNote is the audit note the close-time backfill stamps on rows
// it creates.
const AutoAbsentNote = "Auto-marked absent (did not mark attendance)"

// StudentAttendanceModel is one student's outcome for one session. The
// (session, student) unique index is what the marking upsert keys on, so
// racing self-marks collapse to a single row.
type StudentAttendanceModel struct {
	StudentAttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_attendance_id" json:"student_attendance_id"`

	StudentAttendanceSessionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_attendance_session_student;index;column:student_attendance_session_id" json:"student_attendance_session_id"`
	StudentAttendanceStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_attendance_session_student;index;column:student_attendance_student_id" json:"student_attendance_student_id"`

	StudentAttendanceStatus AttendanceStatus `gorm:"type:varchar(20);not null;default:'ABSENT';index;column:student_attendance_status" json:"student_attendance_status"`

	// Storage key of the captured photo. Opaque to this core; required for
	// PRESENT unless manually marked.
	StudentAttendanceImageKey string     `gorm:"type:varchar(300);not null;default:'';column:student_attendance_image_key" json:"student_attendance_image_key"`
	StudentAttendanceMarkedAt *time.Time `gorm:"index;column:student_attendance_marked_at" json:"student_attendance_marked_at,omitempty"`

	StudentAttendanceLatitude  *float64 `gorm:"column:student_attendance_latitude" json:"student_attendance_latitude,omitempty"`
	StudentAttendanceLongitude *float64 `gorm:"column:student_attendance_longitude" json:"student_attendance_longitude,omitempty"`

	StudentAttendanceDeviceInfo datatypes.JSON `gorm:"column:student_attendance_device_info" json:"student_attendance_device_info,omitempty"`

	StudentAttendanceIsManuallyMarked bool       `gorm:"not null;default:false;column:student_attendance_is_manually_marked" json:"student_attendance_is_manually_marked"`
	StudentAttendanceMarkedBy         *uuid.UUID `gorm:"type:uuid;column:student_attendance_marked_by" json:"student_attendance_marked_by,omitempty"`

	StudentAttendanceNotes string `gorm:"type:text;not null;default:'';column:student_attendance_notes" json:"student_attendance_notes"`

	StudentAttendanceCreatedAt time.Time `gorm:"column:student_attendance_created_at;autoCreateTime" json:"student_attendance_created_at"`
	StudentAttendanceUpdatedAt time.Time `gorm:"column:student_attendance_updated_at;autoUpdateTime" json:"student_attendance_updated_at"`
}

func (StudentAttendanceModel) TableName() string { return "student_attendance" }

func (m *StudentAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentAttendanceID == uuid.Nil {
		m.StudentAttendanceID = uuid.New()
	}
	return nil
}
