package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"collegehub_backend/internals/constants"
	"collegehub_backend/internals/features/academics/dto"
	"collegehub_backend/internals/features/academics/model"
	"collegehub_backend/internals/features/academics/service"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/middlewares"
)

type AcademicsController struct {
	DB       *gorm.DB
	Validate *validator.Validate

	semesters *service.SemesterService
	catalog   *service.CatalogService
}

func NewAcademicsController(db *gorm.DB) *AcademicsController {
	return &AcademicsController{
		DB:        db,
		Validate:  validator.New(),
		semesters: service.NewSemesterService(db),
		catalog:   service.NewCatalogService(db),
	}
}

func requireManageAcademics(c *fiber.Ctx) error {
	if !constants.Can(middlewares.RoleCode(c), constants.CapManageAcademics) {
		return apperr.Authorization("You do not have permission to manage academics")
	}
	return nil
}

// POST /api/a/academics/years
func (ctl *AcademicsController) CreateAcademicYear(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CreateAcademicYearRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	year, err := ctl.semesters.CreateAcademicYear(c.Context(), req.Code)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Academic year created", year)
}

// POST /api/a/academics/semesters
func (ctl *AcademicsController) CreateSemester(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CreateSemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	yearID, err := uuid.Parse(req.AcademicYearID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid academic_year_id")
	}
	start, err1 := helper.ParseDate(req.StartDate)
	end, err2 := helper.ParseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
	}

	semester, err := ctl.semesters.CreateSemester(c.Context(), service.CreateSemesterInput{
		AcademicYearID: yearID,
		Number:         req.Number,
		StartDate:      start,
		EndDate:        end,
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Semester created", semester)
}

// POST /api/a/academics/semesters/:id/set-current
func (ctl *AcademicsController) SetCurrentSemester(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	semesterID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid semester id")
	}

	semester, err := ctl.semesters.SetCurrent(c.Context(), semesterID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Current semester set", semester)
}

// GET /api/u/academics/semesters/current
func (ctl *AcademicsController) CurrentSemester(c *fiber.Ctx) error {
	semester, err := ctl.semesters.Current(c.Context())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", semester)
}

// POST /api/a/academics/rooms
func (ctl *AcademicsController) CreateRoom(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	room, err := ctl.catalog.CreateRoom(c.Context(), service.CreateRoomInput{
		Number:     req.Number,
		Building:   req.Building,
		Capacity:   req.Capacity,
		Type:       model.RoomType(req.Type),
		Department: req.Department,
		Facilities: datatypes.JSON(req.Facilities),
	})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Room created", room)
}

// GET /api/u/academics/rooms
func (ctl *AcademicsController) ListRooms(c *fiber.Ctx) error {
	rooms, err := ctl.catalog.ListRooms(c.Context())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", rooms)
}

// DELETE /api/a/academics/rooms/:id
func (ctl *AcademicsController) DeleteRoom(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	roomID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid room id")
	}
	if err := ctl.catalog.DeleteRoom(c.Context(), roomID); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Room deleted", fiber.Map{"room_id": roomID})
}

// POST /api/a/academics/subjects
func (ctl *AcademicsController) CreateSubject(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	subject, err := ctl.catalog.CreateSubject(c.Context(), req.Code, req.Name)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Subject created", subject)
}

// GET /api/u/academics/subjects
func (ctl *AcademicsController) ListSubjects(c *fiber.Ctx) error {
	subjects, err := ctl.catalog.ListSubjects(c.Context())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", subjects)
}

// POST /api/a/academics/sections
func (ctl *AcademicsController) CreateSection(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	section, err := ctl.catalog.CreateSection(c.Context(), req.Name, req.Year)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Section created", section)
}

// POST /api/a/academics/sections/:id/students
func (ctl *AcademicsController) EnrollStudent(c *fiber.Ctx) error {
	if err := requireManageAcademics(c); err != nil {
		return helper.JsonAppError(c, err)
	}
	sectionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}
	var req dto.EnrollStudentRequest
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

	enrollment, err := ctl.catalog.EnrollStudent(c.Context(), sectionID, studentID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Student enrolled", enrollment)
}

// GET /api/u/academics/sections/:id/students
func (ctl *AcademicsController) SectionRoster(c *fiber.Ctx) error {
	sectionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid section id")
	}
	roster, err := ctl.catalog.SectionRoster(c.Context(), sectionID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "OK", fiber.Map{"student_ids": roster})
}
