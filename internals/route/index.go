package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"collegehub_backend/internals/configs"
	academicsRoute "collegehub_backend/internals/features/academics/route"
	attendanceRoute "collegehub_backend/internals/features/attendance/route"
	timetableRoute "collegehub_backend/internals/features/timetable/route"
	"collegehub_backend/internals/middlewares"
)

// SetupRoutes mounts the whole API surface.
//
//	/api/a  admin surface (timetable and academics administration, sweeps)
//	/api/u  user surface (faculty session ops, student marking, reads)
//
// Both groups require a valid JWT; role and ownership checks happen per
// operation below the router.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	api := app.Group("/api", middlewares.AuthJWT(middlewares.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	}))

	admin := api.Group("/a")
	timetableRoute.TimetableAdminRoutes(admin, db)
	academicsRoute.AcademicsAdminRoutes(admin, db)
	attendanceRoute.AttendanceAdminRoutes(admin, db)

	user := api.Group("/u")
	timetableRoute.TimetableUserRoutes(user, db)
	academicsRoute.AcademicsUserRoutes(user, db)
	attendanceRoute.AttendanceUserRoutes(user, db)
}
