package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/timetable/dto"
	"collegehub_backend/internals/features/timetable/service"
	helper "collegehub_backend/internals/helpers"
)

type TimetableEntryController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	entries *service.EntryService
}

func NewTimetableEntryController(db *gorm.DB) *TimetableEntryController {
	return &TimetableEntryController{
		DB:       db,
		Validate: validator.New(),
		entries:  service.NewEntryService(db),
	}
}

func parseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// POST /api/a/timetable/entries
func (ctl *TimetableEntryController) CreateEntry(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.CreateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sectionID, err1 := uuid.Parse(req.SectionID)
	subjectID, err2 := uuid.Parse(req.SubjectID)
	periodID, err3 := uuid.Parse(req.PeriodDefinitionID)
	semesterID, err4 := uuid.Parse(req.SemesterID)
	facultyID, err5 := parseOptionalUUID(req.FacultyID)
	roomID, err6 := parseOptionalUUID(req.RoomID)
	for _, err := range []error{err1, err2, err3, err4, err5, err6} {
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid id field")
		}
	}

	entry, err := ctl.entries.CreateEntry(c.Context(), service.CreateEntryInput{
		SectionID:          sectionID,
		SubjectID:          subjectID,
		FacultyID:          facultyID,
		RoomID:             roomID,
		PeriodDefinitionID: periodID,
		SemesterID:         semesterID,
		Notes:              req.Notes,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Timetable entry created", entry)
}

// PATCH /api/a/timetable/entries/:id
func (ctl *TimetableEntryController) UpdateEntry(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	var req dto.UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	subjectID, err1 := parseOptionalUUID(req.SubjectID)
	facultyID, err2 := parseOptionalUUID(req.FacultyID)
	roomID, err3 := parseOptionalUUID(req.RoomID)
	periodID, err4 := parseOptionalUUID(req.PeriodDefinitionID)
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid id field")
		}
	}

	entry, err := ctl.entries.UpdateEntry(c.Context(), entryID, service.UpdateEntryInput{
		SubjectID:          subjectID,
		FacultyID:          facultyID,
		RoomID:             roomID,
		PeriodDefinitionID: periodID,
		Notes:              req.Notes,
		IsActive:           req.IsActive,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Timetable entry updated", entry)
}

// DELETE /api/a/timetable/entries/:id
func (ctl *TimetableEntryController) DeleteEntry(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	entryID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid entry id")
	}
	if err := ctl.entries.DeleteEntry(c.Context(), entryID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Timetable entry deactivated", fiber.Map{"timetable_entry_id": entryID})
}

// POST /api/a/timetable/entries/swap
func (ctl *TimetableEntryController) SwapEntries(c *fiber.Ctx) error {
	if err := requireManageTimetable(c); err != nil {
		return helper.JsonAppError(c, err)
	}

	var req dto.SwapEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	firstID, err1 := uuid.Parse(req.FirstEntryID)
	secondID, err2 := uuid.Parse(req.SecondEntryID)
	if err1 != nil || err2 != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid entry id")
	}

	if err := ctl.entries.SwapEntries(c.Context(), firstID, secondID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Entries swapped", fiber.Map{
		"first_entry_id":  firstID,
		"second_entry_id": secondID,
	})
}

// GET /api/u/timetable/sections/:section_id/grid?semester_id=...
func (ctl *TimetableEntryController) SectionGrid(c *fiber.Ctx) error {
	sectionID, err := helper.ParseUUIDParam(c, "section_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section_id")
	}
	semesterID, err := uuid.Parse(c.Query("semester_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	grid, err := ctl.entries.SectionGrid(c.Context(), sectionID, semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", grid)
}

// GET /api/u/timetable/faculty/:faculty_id/entries?semester_id=...
func (ctl *TimetableEntryController) FacultySchedule(c *fiber.Ctx) error {
	facultyID, err := helper.ParseUUIDParam(c, "faculty_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid faculty_id")
	}
	semesterID, err := uuid.Parse(c.Query("semester_id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester_id")
	}

	entries, err := ctl.entries.FacultySchedule(c.Context(), facultyID, semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", entries)
}
