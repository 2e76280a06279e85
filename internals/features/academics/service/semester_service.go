package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/academics/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

type SemesterService struct {
	DB *gorm.DB
}

func NewSemesterService(db *gorm.DB) *SemesterService {
	return &SemesterService{DB: db}
}

type CreateSemesterInput struct {
	AcademicYearID uuid.UUID
	Number         int
	StartDate      time.Time
	EndDate        time.Time
}

func (s *SemesterService) CreateSemester(ctx context.Context, in CreateSemesterInput) (*model.SemesterModel, error) {
	if in.Number < 1 || in.Number > 8 {
		return nil, apperr.Precondition("Semester number must be between 1 and 8")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, apperr.Precondition("Semester end date must be after start date")
	}

	var year model.AcademicYearModel
	if err := s.DB.WithContext(ctx).
		Where("academic_year_id = ?", in.AcademicYearID).
		First(&year).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Academic year not found")
		}
		return nil, err
	}

	semester := model.SemesterModel{
		SemesterAcademicYearID: in.AcademicYearID,
		SemesterNumber:         in.Number,
		SemesterStartDate:      in.StartDate,
		SemesterEndDate:        in.EndDate,
	}
	if err := s.DB.WithContext(ctx).Create(&semester).Error; err != nil {
		return nil, err
	}
	return &semester, nil
}

// SetCurrent makes one semester the current one. Unset-all then set, in
// the same transaction, so the is_current flag stays a singleton.
func (s *SemesterService) SetCurrent(ctx context.Context, semesterID uuid.UUID) (*model.SemesterModel, error) {
	var semester model.SemesterModel
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("semester_id = ?", semesterID).First(&semester).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Semester not found")
			}
			return err
		}
		if err := tx.Model(&model.SemesterModel{}).
			Where("semester_is_current = ?", true).
			Update("semester_is_current", false).Error; err != nil {
			return err
		}
		semester.SemesterIsCurrent = true
		return tx.Model(&semester).Update("semester_is_current", true).Error
	})
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

// Current returns the semester flagged current, if any.
func (s *SemesterService) Current(ctx context.Context) (*model.SemesterModel, error) {
	var semester model.SemesterModel
	if err := s.DB.WithContext(ctx).
		Where("semester_is_current = ?", true).
		First(&semester).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No current semester is set")
		}
		return nil, err
	}
	return &semester, nil
}

func (s *SemesterService) CreateAcademicYear(ctx context.Context, code string) (*model.AcademicYearModel, error) {
	year := model.AcademicYearModel{AcademicYearCode: code}
	if err := s.DB.WithContext(ctx).Create(&year).Error; err != nil {
		if helper.IsDuplicateKey(err) {
			return nil, apperr.Conflict("Academic year code already exists")
		}
		return nil, err
	}
	return &year, nil
}
