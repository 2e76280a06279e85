package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/attendance/dto"
	"collegehub_backend/internals/features/attendance/model"
	"collegehub_backend/internals/features/attendance/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/middlewares"
)

type MarkingController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	marking *service.MarkingService
}

func NewMarkingController(db *gorm.DB) *MarkingController {
	return &MarkingController{
		DB:       db,
		Validate: validator.New(),
		marking:  service.NewMarkingService(db),
	}
}

// POST /api/u/attendance/sessions/:id/mark
// The student identity comes from the JWT, never from the payload.
func (ctl *MarkingController) SelfMark(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	var req dto.SelfMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	row, err := ctl.marking.SelfMark(c.Context(), sessionID, middlewares.StudentID(c), service.SelfMarkInput{
		ImageKey:   req.ImageKey,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		DeviceInfo: datatypes.JSON(req.DeviceInfo),
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Attendance marked", row)
}

// POST /api/u/attendance/sessions/:id/manual-mark
func (ctl *MarkingController) ManualMark(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	var req dto.ManualMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student_id")
	}

	row, err := ctl.marking.ManualMark(c.Context(), sessionID, studentID,
		model.AttendanceStatus(req.Status), actorFrom(c), req.Notes)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance marked", row)
}

// POST /api/u/attendance/sessions/:id/bulk-mark
func (ctl *MarkingController) BulkMarkPresent(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	var req dto.BulkMarkPresentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	studentIDs := make([]uuid.UUID, 0, len(req.StudentIDs))
	for _, raw := range req.StudentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student id in list")
		}
		studentIDs = append(studentIDs, id)
	}

	marked, skipped, err := ctl.marking.BulkMarkPresent(c.Context(), sessionID, studentIDs, actorFrom(c))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Bulk attendance marked", fiber.Map{
		"marked_count": marked,
		"skipped":      skipped,
	})
}

// GET /api/u/attendance/sessions/:id/records
func (ctl *MarkingController) SessionRecords(c *fiber.Ctx) error {
	sessionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid session id")
	}
	rows, err := ctl.marking.SessionRecords(c.Context(), sessionID, actorFrom(c))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", rows)
}
