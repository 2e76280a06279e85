package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collegehub_backend/internals/features/attendance/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// ReportService maintains the per-(student, subject, semester) attendance
// rollups. Reports are recomputed synchronously after every mutation that
// can change them, never incremented in place.
type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

type reportCounts struct {
	Total   int `gorm:"column:total"`
	Present int `gorm:"column:present"`
	Absent  int `gorm:"column:absent"`
	Late    int `gorm:"column:late"`
}

// Recalculate rebuilds one report row from the attendance facts. Only
// records of CLOSED sessions count; PRESENT and LATE both feed the
// numerator, LATE keeps its own counter.
func (s *ReportService) Recalculate(ctx context.Context, studentID, subjectID, semesterID uuid.UUID) (*model.AttendanceReportModel, error) {
	var report *model.AttendanceReportModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		report, err = s.recalculateTx(tx, studentID, subjectID, semesterID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// recalculateTx is the transaction-shared core; session close calls it on
// its own tx so the backfilled absences and the report land together.
func (s *ReportService) recalculateTx(tx *gorm.DB, studentID, subjectID, semesterID uuid.UUID) (*model.AttendanceReportModel, error) {
	var counts reportCounts
	err := tx.Model(&model.StudentAttendanceModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'PRESENT' THEN 1 ELSE 0 END), 0) AS present,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'ABSENT' THEN 1 ELSE 0 END), 0) AS absent,
			COALESCE(SUM(CASE WHEN student_attendance_status = 'LATE' THEN 1 ELSE 0 END), 0) AS late`).
		Joins("JOIN attendance_sessions ON attendance_sessions.attendance_session_id = student_attendance.student_attendance_session_id").
		Joins("JOIN timetable_entries ON timetable_entries.timetable_entry_id = attendance_sessions.attendance_session_timetable_entry_id").
		Where("student_attendance.student_attendance_student_id = ?", studentID).
		Where("timetable_entries.timetable_entry_subject_id = ?", subjectID).
		Where("timetable_entries.timetable_entry_semester_id = ?", semesterID).
		Where("attendance_sessions.attendance_session_status = ?", model.SessionClosed).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	percentage := 0.0
	if counts.Total > 0 {
		percentage = float64(counts.Present+counts.Late) / float64(counts.Total) * 100
	}

	report := model.AttendanceReportModel{
		AttendanceReportStudentID:        studentID,
		AttendanceReportSubjectID:        subjectID,
		AttendanceReportSemesterID:       semesterID,
		AttendanceReportTotalClasses:     counts.Total,
		AttendanceReportPresentCount:     counts.Present,
		AttendanceReportAbsentCount:      counts.Absent,
		AttendanceReportLateCount:        counts.Late,
		AttendanceReportPercentage:       percentage,
		AttendanceReportIsBelowThreshold: percentage < model.AttendanceBelowThreshold,
		AttendanceReportLastCalculated:   helper.Now(),
	}
	if err := tx.
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "attendance_report_student_id"},
				{Name: "attendance_report_subject_id"},
				{Name: "attendance_report_semester_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"attendance_report_total_classes",
				"attendance_report_present_count",
				"attendance_report_absent_count",
				"attendance_report_late_count",
				"attendance_report_percentage",
				"attendance_report_is_below_threshold",
				"attendance_report_last_calculated",
			}),
		}).
		Create(&report).Error; err != nil {
		return nil, err
	}

	var saved model.AttendanceReportModel
	if err := tx.
		Where("attendance_report_student_id = ? AND attendance_report_subject_id = ? AND attendance_report_semester_id = ?",
			studentID, subjectID, semesterID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetReport returns the cached rollup for one student in one subject.
func (s *ReportService) GetReport(ctx context.Context, studentID, subjectID, semesterID uuid.UUID) (*model.AttendanceReportModel, error) {
	var report model.AttendanceReportModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_report_student_id = ? AND attendance_report_subject_id = ? AND attendance_report_semester_id = ?",
			studentID, subjectID, semesterID).
		First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Attendance report not found")
		}
		return nil, err
	}
	return &report, nil
}

// StudentReports lists all of a student's rollups for a semester.
func (s *ReportService) StudentReports(ctx context.Context, studentID, semesterID uuid.UUID) ([]model.AttendanceReportModel, error) {
	var reports []model.AttendanceReportModel
	err := s.DB.WithContext(ctx).
		Where("attendance_report_student_id = ? AND attendance_report_semester_id = ?", studentID, semesterID).
		Order("attendance_report_percentage ASC").
		Find(&reports).Error
	return reports, err
}

// BelowThreshold lists every rollup under the institutional minimum for a
// semester, worst first.
func (s *ReportService) BelowThreshold(ctx context.Context, semesterID uuid.UUID) ([]model.AttendanceReportModel, error) {
	var reports []model.AttendanceReportModel
	err := s.DB.WithContext(ctx).
		Where("attendance_report_semester_id = ? AND attendance_report_is_below_threshold = ?", semesterID, true).
		Order("attendance_report_percentage ASC").
		Find(&reports).Error
	return reports, err
}
