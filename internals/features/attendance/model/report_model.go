package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttendanceBelowThreshold is the institutional minimum attendance
// percentage.
const AttendanceBelowThreshold = 75.0

// AttendanceReportModel is a write-through cache of one student's standing
// in one subject for one semester, recomputed synchronously after every
// relevant mutation. Only CLOSED sessions count.
type AttendanceReportModel struct {
	AttendanceReportID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_report_id" json:"attendance_report_id"`

	AttendanceReportStudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_reports_scope;index;column:attendance_report_student_id" json:"attendance_report_student_id"`
	AttendanceReportSubjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_reports_scope;index;column:attendance_report_subject_id" json:"attendance_report_subject_id"`
	AttendanceReportSemesterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_reports_scope;index;column:attendance_report_semester_id" json:"attendance_report_semester_id"`

	AttendanceReportTotalClasses int `gorm:"not null;default:0;column:attendance_report_total_classes" json:"attendance_report_total_classes"`
	AttendanceReportPresentCount int `gorm:"not null;default:0;column:attendance_report_present_count" json:"attendance_report_present_count"`
	AttendanceReportAbsentCount  int `gorm:"not null;default:0;column:attendance_report_absent_count" json:"attendance_report_absent_count"`
	AttendanceReportLateCount    int `gorm:"not null;default:0;column:attendance_report_late_count" json:"attendance_report_late_count"`

	// LATE counts toward the numerator here but stays in its own counter.
	AttendanceReportPercentage       float64 `gorm:"type:decimal(5,2);not null;default:0;column:attendance_report_percentage" json:"attendance_report_percentage"`
	AttendanceReportIsBelowThreshold bool    `gorm:"not null;default:false;index;column:attendance_report_is_below_threshold" json:"attendance_report_is_below_threshold"`

	AttendanceReportLastCalculated time.Time `gorm:"column:attendance_report_last_calculated;autoUpdateTime" json:"attendance_report_last_calculated"`
	AttendanceReportCreatedAt      time.Time `gorm:"column:attendance_report_created_at;autoCreateTime" json:"attendance_report_created_at"`
}

func (AttendanceReportModel) TableName() string { return "attendance_reports" }

func (m *AttendanceReportModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceReportID == uuid.Nil {
		m.AttendanceReportID = uuid.New()
	}
	return nil
}
