package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/constants"
	"collegehub_backend/internals/features/attendance/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/middlewares"
)

type ReportController struct {
	DB *gorm.DB

	reports *service.ReportService
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, reports: service.NewReportService(db)}
}

// Students may only read their own rollups; faculty and admin read any.
func canViewReports(c *fiber.Ctx, studentID uuid.UUID) bool {
	role := middlewares.RoleCode(c)
	if constants.Can(role, constants.CapViewAnyReport) || role == constants.RoleFaculty {
		return true
	}
	own := middlewares.StudentID(c)
	return own != uuid.Nil && own == studentID
}

// GET /api/u/attendance/reports/students/:student_id?semester_id=...
func (ctl *ReportController) StudentReports(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
	}
	semesterID, err := uuid.Parse(c.Query("semester_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}
	if !canViewReports(c, studentID) {
		return helper.JsonAppError(c, apperr.Authorization("You can only view your own attendance reports"))
	}

	reports, err := ctl.reports.StudentReports(c.Context(), studentID, semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", reports)
}

// GET /api/u/attendance/reports/students/:student_id/subjects/:subject_id?semester_id=...
func (ctl *ReportController) SubjectReport(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
	}
	subjectID, err := helper.ParseUUIDParam(c, "subject_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid subject_id")
	}
	semesterID, err := uuid.Parse(c.Query("semester_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}
	if !canViewReports(c, studentID) {
		return helper.JsonAppError(c, apperr.Authorization("You can only view your own attendance reports"))
	}

	report, err := ctl.reports.GetReport(c.Context(), studentID, subjectID, semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", report)
}

// GET /api/a/attendance/reports/below-threshold/:semester_id
func (ctl *ReportController) BelowThreshold(c *fiber.Ctx) error {
	if !constants.Can(middlewares.RoleCode(c), constants.CapViewAnyReport) {
		return helper.JsonAppError(c, apperr.Authorization("You do not have permission to view these reports"))
	}
	semesterID, err := helper.ParseUUIDParam(c, "semester_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	reports, err := ctl.reports.BelowThreshold(c.Context(), semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", reports)
}

// POST /api/a/attendance/reports/recalculate
// Admin escape hatch when a rollup is suspected stale.
func (ctl *ReportController) Recalculate(c *fiber.Ctx) error {
	if !constants.Can(middlewares.RoleCode(c), constants.CapViewAnyReport) {
		return helper.JsonAppError(c, apperr.Authorization("You do not have permission to recalculate reports"))
	}
	studentID, err1 := uuid.Parse(c.Query("student_id"))
	subjectID, err2 := uuid.Parse(c.Query("subject_id"))
	semesterID, err3 := uuid.Parse(c.Query("semester_id"))
	if err1 != nil || err2 != nil || err3 != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id, subject_id and semester_id are required")
	}

	report, err := ctl.reports.Recalculate(c.Context(), studentID, subjectID, semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Report recalculated", report)
}
