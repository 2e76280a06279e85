package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/timetable/controller"
)

// TimetableAdminRoutes mounts the write surface under the admin group.
func TimetableAdminRoutes(admin fiber.Router, db *gorm.DB) {
	cfgCtl := controller.NewTimetableConfigController(db)
	entryCtl := controller.NewTimetableEntryController(db)

	tt := admin.Group("/timetable")

	tt.Put("/configurations", cfgCtl.UpsertConfiguration)
	tt.Get("/configurations/:semester_id", cfgCtl.GetConfiguration)

	tt.Post("/periods/generate", cfgCtl.GeneratePeriods)
	tt.Get("/periods/:semester_id", cfgCtl.ListPeriods)

	tt.Post("/entries", entryCtl.CreateEntry)
	tt.Patch("/entries/:id", entryCtl.UpdateEntry)
	tt.Delete("/entries/:id", entryCtl.DeleteEntry)
	tt.Post("/entries/swap", entryCtl.SwapEntries)
}

// TimetableUserRoutes mounts the read surface for any authenticated user.
func TimetableUserRoutes(user fiber.Router, db *gorm.DB) {
	entryCtl := controller.NewTimetableEntryController(db)

	tt := user.Group("/timetable")
	tt.Get("/sections/:section_id/grid", entryCtl.SectionGrid)
	tt.Get("/faculty/:faculty_id/entries", entryCtl.FacultySchedule)
}
