package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/attendance/dto"
	"collegehub_backend/internals/features/attendance/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/middlewares"
)

type SessionController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	sessions *service.SessionService
}

func NewSessionController(db *gorm.DB) *SessionController {
	return &SessionController{
		DB:       db,
		Validate: validator.New(),
		sessions: service.NewSessionService(db),
	}
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{
		UserID:   middlewares.UserID(c),
		RoleCode: middlewares.RoleCode(c),
	}
}

// POST /api/u/attendance/sessions
func (ctl *SessionController) OpenSession(c *fiber.Ctx) error {
	var req dto.OpenSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	entryID, err := uuid.Parse(req.TimetableEntryID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid timetable_entry_id")
	}
	date, err := helper.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	session, err := ctl.sessions.OpenSession(c.Context(), entryID, date, actorFrom(c), req.WindowMinutes)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Attendance session opened", session)
}

// POST /api/u/attendance/sessions/:id/close
func (ctl *SessionController) CloseSession(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	session, err := ctl.sessions.CloseSession(c.Context(), sessionID, actorFrom(c))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance session closed", session)
}

// POST /api/u/attendance/sessions/:id/block
func (ctl *SessionController) BlockSession(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	var req dto.BlockSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	session, err := ctl.sessions.BlockSession(c.Context(), sessionID, actorFrom(c), req.Reason)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance session blocked", session)
}

// POST /api/u/attendance/sessions/:id/reopen
func (ctl *SessionController) ReopenSession(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	session, err := ctl.sessions.ReopenSession(c.Context(), sessionID, actorFrom(c))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance session reopened", session)
}

// POST /api/u/attendance/sessions/auto-create
func (ctl *SessionController) AutoCreateSessions(c *fiber.Ctx) error {
	var req dto.AutoCreateSessionsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	date, err := helper.ParseDate(req.Date)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	created, err := ctl.sessions.AutoCreateSessions(c.Context(), middlewares.UserID(c), date)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Sessions created", fiber.Map{"created_count": created})
}

// GET /api/u/attendance/sessions/:id/statistics
func (ctl *SessionController) Statistics(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	stats, err := ctl.sessions.Statistics(c.Context(), sessionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", stats)
}

// POST /api/a/attendance/sessions/close-expired
func (ctl *SessionController) CloseExpiredSessions(c *fiber.Ctx) error {
	closed, err := ctl.sessions.CloseExpiredSessions(c.Context())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Expired sessions closed", fiber.Map{"closed_count": closed})
}
