package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"collegehub_backend/internals/features/timetable/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

type ConfigurationService struct {
	DB *gorm.DB
}

func NewConfigurationService(db *gorm.DB) *ConfigurationService {
	return &ConfigurationService{DB: db}
}

type ConfigurationInput struct {
	SemesterID            uuid.UUID
	PeriodsPerDay         int
	DefaultPeriodDuration int
	DayStartTime          string
	DayEndTime            string
	LunchBreakAfterPeriod int
	LunchBreakDuration    int
	ShortBreakDuration    int
	WorkingDays           []int
}

// UpsertConfiguration creates or replaces the single configuration row of
// a semester. Changing it never rewrites already generated periods; rerun
// the generator to fill in new slots.
func (s *ConfigurationService) UpsertConfiguration(ctx context.Context, in ConfigurationInput) (*model.TimetableConfigurationModel, error) {
	if err := validateConfiguration(in); err != nil {
		return nil, err
	}

	cfg := model.TimetableConfigurationModel{
		TimetableConfigurationSemesterID:            in.SemesterID,
		TimetableConfigurationPeriodsPerDay:         in.PeriodsPerDay,
		TimetableConfigurationDefaultPeriodDuration: in.DefaultPeriodDuration,
		TimetableConfigurationDayStartTime:          in.DayStartTime,
		TimetableConfigurationDayEndTime:            in.DayEndTime,
		TimetableConfigurationLunchBreakAfterPeriod: in.LunchBreakAfterPeriod,
		TimetableConfigurationLunchBreakDuration:    in.LunchBreakDuration,
		TimetableConfigurationShortBreakDuration:    in.ShortBreakDuration,
		TimetableConfigurationWorkingDays:           datatypes.NewJSONSlice(in.WorkingDays),
	}

	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "timetable_configuration_semester_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"timetable_configuration_periods_per_day",
				"timetable_configuration_default_period_duration",
				"timetable_configuration_day_start_time",
				"timetable_configuration_day_end_time",
				"timetable_configuration_lunch_break_after_period",
				"timetable_configuration_lunch_break_duration",
				"timetable_configuration_short_break_duration",
				"timetable_configuration_working_days",
				"timetable_configuration_updated_at",
			}),
		}).
		Create(&cfg).Error
	if err != nil {
		return nil, err
	}

	// Re-read so callers always get the row that actually won, id included.
	var saved model.TimetableConfigurationModel
	if err := s.DB.WithContext(ctx).
		Where("timetable_configuration_semester_id = ?", in.SemesterID).
		First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *ConfigurationService) GetConfiguration(ctx context.Context, semesterID uuid.UUID) (*model.TimetableConfigurationModel, error) {
	var cfg model.TimetableConfigurationModel
	if err := s.DB.WithContext(ctx).
		Where("timetable_configuration_semester_id = ?", semesterID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No timetable configuration found for semester")
		}
		return nil, err
	}
	return &cfg, nil
}

func validateConfiguration(in ConfigurationInput) error {
	if in.PeriodsPerDay < 1 {
		return apperr.Precondition("periods_per_day must be at least 1")
	}
	if in.DefaultPeriodDuration < 1 {
		return apperr.Precondition("default_period_duration must be at least 1 minute")
	}
	if in.LunchBreakAfterPeriod < 1 || in.LunchBreakAfterPeriod > in.PeriodsPerDay {
		return apperr.Precondition("lunch_break_after_period must fall within periods_per_day")
	}
	if in.LunchBreakDuration < 0 || in.ShortBreakDuration < 0 {
		return apperr.Precondition("break durations cannot be negative")
	}

	start, err := helper.ClockMinutes(in.DayStartTime)
	if err != nil {
		return apperr.Precondition("day_start_time must be HH:MM")
	}
	end, err := helper.ClockMinutes(in.DayEndTime)
	if err != nil {
		return apperr.Precondition("day_end_time must be HH:MM")
	}
	if end <= start {
		return apperr.Precondition("day_end_time must be after day_start_time")
	}

	if len(in.WorkingDays) == 0 {
		return apperr.Precondition("working_days cannot be empty")
	}
	seen := map[int]bool{}
	for _, d := range in.WorkingDays {
		if d < 1 || d > 7 {
			return apperr.Precondition(fmt.Sprintf("working day %d is out of range 1..7", d))
		}
		if seen[d] {
			return apperr.Precondition(fmt.Sprintf("working day %d is listed twice", d))
		}
		seen[d] = true
	}
	return nil
}
