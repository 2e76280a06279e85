package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/attendance/controller"
)

// AttendanceUserRoutes mounts the faculty and student surface. Role and
// ownership checks live in the services; routing only requires auth.
func AttendanceUserRoutes(user fiber.Router, db *gorm.DB) {
	sessionCtl := controller.NewSessionController(db)
	markingCtl := controller.NewMarkingController(db)
	reportCtl := controller.NewReportController(db)

	att := user.Group("/attendance")

	att.Post("/sessions", sessionCtl.OpenSession)
	att.Post("/sessions/auto-create", sessionCtl.AutoCreateSessions)
	att.Post("/sessions/:id/close", sessionCtl.CloseSession)
	att.Post("/sessions/:id/block", sessionCtl.BlockSession)
	att.Post("/sessions/:id/reopen", sessionCtl.ReopenSession)
	att.Get("/sessions/:id/statistics", sessionCtl.Statistics)

	att.Post("/sessions/:id/mark", markingCtl.SelfMark)
	att.Post("/sessions/:id/manual-mark", markingCtl.ManualMark)
	att.Post("/sessions/:id/bulk-mark", markingCtl.BulkMarkPresent)
	att.Get("/sessions/:id/records", markingCtl.SessionRecords)

	att.Get("/reports/students/:student_id", reportCtl.StudentReports)
	att.Get("/reports/students/:student_id/subjects/:subject_id", reportCtl.SubjectReport)
}

// AttendanceAdminRoutes mounts the operational and oversight surface.
func AttendanceAdminRoutes(admin fiber.Router, db *gorm.DB) {
	sessionCtl := controller.NewSessionController(db)
	reportCtl := controller.NewReportController(db)

	att := admin.Group("/attendance")

	att.Post("/sessions/close-expired", sessionCtl.CloseExpiredSessions)
	att.Get("/reports/below-threshold/:semester_id", reportCtl.BelowThreshold)
	att.Post("/reports/recalculate", reportCtl.Recalculate)
}
