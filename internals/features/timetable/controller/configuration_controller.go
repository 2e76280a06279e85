package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/constants"
	"collegehub_backend/internals/features/timetable/dto"
	"collegehub_backend/internals/features/timetable/model"
	"collegehub_backend/internals/features/timetable/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/middlewares"
)

type TimetableConfigController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	configs   *service.ConfigurationService
	generator *service.PeriodGenerator
}

func NewTimetableConfigController(db *gorm.DB) *TimetableConfigController {
	return &TimetableConfigController{
		DB:        db,
		Validate:  validator.New(),
		configs:   service.NewConfigurationService(db),
		generator: service.NewPeriodGenerator(db),
	}
}

func requireManageTimetable(c *fiber.Ctx) error {
	if !constants.Can(middlewares.RoleCode(c), constants.CapManageTimetable) {
		return apperr.Authorization("You do not have permission to manage the timetable")
	}
	return nil
}

// PUT /api/a/timetable/configurations
func (ctl *TimetableConfigController) UpsertConfiguration(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.UpsertConfigurationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	semesterID, err := uuid.Parse(req.SemesterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	cfg, err := ctl.configs.UpsertConfiguration(c.Context(), service.ConfigurationInput{
		SemesterID:            semesterID,
		PeriodsPerDay:         req.PeriodsPerDay,
		DefaultPeriodDuration: req.DefaultPeriodDuration,
		DayStartTime:          req.DayStartTime,
		DayEndTime:            req.DayEndTime,
		LunchBreakAfterPeriod: req.LunchBreakAfterPeriod,
		LunchBreakDuration:    req.LunchBreakDuration,
		ShortBreakDuration:    req.ShortBreakDuration,
		WorkingDays:           req.WorkingDays,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Timetable configuration saved", cfg)
}

// GET /api/a/timetable/configurations/:semester_id
func (ctl *TimetableConfigController) GetConfiguration(c *fiber.Ctx) error {
	semesterID, err := helper.ParseUUIDParam(c, "semester_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}
	cfg, err := ctl.configs.GetConfiguration(c.Context(), semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", cfg)
}

// POST /api/a/timetable/periods/generate
func (ctl *TimetableConfigController) GeneratePeriods(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.GeneratePeriodsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	semesterID, err := uuid.Parse(req.SemesterID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	created, err := ctl.generator.GeneratePeriods(c.Context(), semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Periods generated", fiber.Map{
		"created_count": len(created),
		"created":       created,
	})
}

// GET /api/a/timetable/periods/:semester_id
func (ctl *TimetableConfigController) ListPeriods(c *fiber.Ctx) error {
	semesterID, err := helper.ParseUUIDParam(c, "semester_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	var periods []model.PeriodDefinitionModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("period_definition_semester_id = ?", semesterID).
		Order("period_definition_day_of_week, period_definition_period_number").
		Find(&periods).Error; err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", periods)
}
