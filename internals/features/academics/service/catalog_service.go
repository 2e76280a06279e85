package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collegehub_backend/internals/features/academics/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// CatalogService covers the reference data the scheduler points at:
// rooms, subjects, sections and their rosters.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

type CreateRoomInput struct {
	Number     string
	Building   string
	Capacity   int
	Type       model.RoomType
	Department *string
	Facilities datatypes.JSON
}

func (s *CatalogService) CreateRoom(ctx context.Context, in CreateRoomInput) (*model.RoomModel, error) {
	if in.Capacity < 1 {
		return nil, apperr.Precondition("Room capacity must be at least 1")
	}
	room := model.RoomModel{
		RoomNumber:     in.Number,
		RoomBuilding:   in.Building,
		RoomCapacity:   in.Capacity,
		RoomType:       in.Type,
		RoomDepartment: in.Department,
		RoomFacilities: in.Facilities,
		RoomIsActive:   true,
	}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Room number already exists")
		}
		return nil, err
	}
	return &room, nil
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]model.RoomModel, error) {
	var rooms []model.RoomModel
	err := s.DB.WithContext(ctx).
		Where("room_is_active = ?", true).
		Order("room_building, room_number").
		Find(&rooms).Error
	return rooms, err
}

// DeleteRoom soft-deletes; historical timetable entries keep their
// reference.
func (s *CatalogService) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("room_id = ?", roomID).
		Delete(&model.RoomModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Room not found")
	}
	return nil
}

func (s *CatalogService) CreateSubject(ctx context.Context, code, name string) (*model.SubjectModel, error) {
	subject := model.SubjectModel{
		SubjectCode:     code,
		SubjectName:     name,
		SubjectIsActive: true,
	}
	if err := s.DB.WithContext(ctx).Create(&subject).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Subject code already exists")
		}
		return nil, err
	}
	return &subject, nil
}

func (s *CatalogService) ListSubjects(ctx context.Context) ([]model.SubjectModel, error) {
	var subjects []model.SubjectModel
	err := s.DB.WithContext(ctx).
		Where("subject_is_active = ?", true).
		Order("subject_code").
		Find(&subjects).Error
	return subjects, err
}

func (s *CatalogService) CreateSection(ctx context.Context, name string, year int) (*model.SectionModel, error) {
	if year < 1 || year > 4 {
		return nil, apperr.Precondition("Section year must be between 1 and 4")
	}
	section := model.SectionModel{SectionName: name, SectionYear: year}
	if err := s.DB.WithContext(ctx).Create(&section).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Section already exists for this year")
		}
		return nil, err
	}
	return &section, nil
}

// EnrollStudent adds a student to a section roster, idempotently.
func (s *CatalogService) EnrollStudent(ctx context.Context, sectionID, studentID uuid.UUID) (*model.SectionStudentModel, error) {
	var section model.SectionModel
	if err := s.DB.WithContext(ctx).
		Where("section_id = ?", sectionID).
		First(&section).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Section not found")
		}
		return nil, err
	}

	enrollment := model.SectionStudentModel{
		SectionStudentSectionID: sectionID,
		SectionStudentStudentID: studentID,
	}
	if err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "section_student_section_id"},
			{Name: "section_student_student_id"},
		},
		DoNothing: true,
	}).Create(&enrollment).Error; err != nil {
		return nil, err
	}

	var saved model.SectionStudentModel
	if err := s.DB.WithContext(ctx).
		Where("section_student_section_id = ? AND section_student_student_id = ?", sectionID, studentID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *CatalogService) SectionRoster(ctx context.Context, sectionID uuid.UUID) ([]uuid.UUID, error) {
	var studentIDs []uuid.UUID
	err := s.DB.WithContext(ctx).Model(&model.SectionStudentModel{}).
		Where("section_student_section_id = ?", sectionID).
		Pluck("section_student_student_id", &studentIDs).Error
	return studentIDs, err
}
