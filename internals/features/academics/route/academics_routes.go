package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/academics/controller"
)

func AcademicsAdminRoutes(admin fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicsController(db)

	ac := admin.Group("/academics")

	ac.Post("/years", ctl.CreateAcademicYear)
	ac.Post("/semesters", ctl.CreateSemester)
	ac.Post("/semesters/:id/set-current", ctl.SetCurrentSemester)

	ac.Post("/rooms", ctl.CreateRoom)
	ac.Delete("/rooms/:id", ctl.DeleteRoom)

	ac.Post("/subjects", ctl.CreateSubject)
	ac.Post("/sections", ctl.CreateSection)
	ac.Post("/sections/:id/students", ctl.EnrollStudent)
}

func AcademicsUserRoutes(user fiber.Router, db *gorm.DB) {
	ctl := controller.NewAcademicsController(db)

	ac := user.Group("/academics")

	ac.Get("/semesters/current", ctl.CurrentSemester)
	ac.Get("/rooms", ctl.ListRooms)
	ac.Get("/subjects", ctl.ListSubjects)
	ac.Get("/sections/:id/students", ctl.SectionRoster)
}
