package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"collegehub_backend/internals/features/timetable/model"
	helper "collegehub_backend/internals/helpers"
	"collegehub_backend/internals/helpers/apperr"
)

// PeriodGenerator expands a semester's timetable configuration into the
// concrete weekly period grid.
type PeriodGenerator struct {
	DB *gorm.DB
}

func NewPeriodGenerator(db *gorm.DB) *PeriodGenerator {
	return &PeriodGenerator{DB: db}
}

// GeneratePeriods walks each working day from day_start_time: every period
// occupies default_period_duration minutes; the lunch break follows
// lunch_break_after_period, every other inter-period gap is the short
// break. Existing (semester, period, day) triples are left untouched, so
// the call is idempotent and never rewrites a grid that entries already
// reference. Returns only the rows created by this call.
func (g *PeriodGenerator) GeneratePeriods(ctx context.Context, semesterID uuid.UUID) ([]model.PeriodDefinitionModel, error) {
	var cfg model.TimetableConfigurationModel
	if err := g.DB.WithContext(ctx).
		Where("timetable_configuration_semester_id = ?", semesterID).
		First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("No timetable configuration found for semester")
		}
		return nil, err
	}

	startMinutes, err := helper.ClockMinutes(cfg.TimetableConfigurationDayStartTime)
	if err != nil {
		return nil, apperr.Precondition("Configuration day_start_time is not a valid HH:MM value")
	}

	created := make([]model.PeriodDefinitionModel, 0)
	err = g.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, day := range cfg.TimetableConfigurationWorkingDays {
			cursor := startMinutes
			for num := 1; num <= cfg.TimetableConfigurationPeriodsPerDay; num++ {
				start := cursor
				end := cursor + cfg.TimetableConfigurationDefaultPeriodDuration

				var existing model.PeriodDefinitionModel
				findErr := tx.
					Where("period_definition_semester_id = ? AND period_definition_period_number = ? AND period_definition_day_of_week = ?",
						semesterID, num, day).
					First(&existing).Error
				if findErr != nil {
					if !errors.Is(findErr, gorm.ErrRecordNotFound) {
						return findErr
					}
					period := model.PeriodDefinitionModel{
						PeriodDefinitionSemesterID:      semesterID,
						PeriodDefinitionPeriodNumber:    num,
						PeriodDefinitionDayOfWeek:       day,
						PeriodDefinitionStartTime:       helper.MinutesClock(start),
						PeriodDefinitionEndTime:         helper.MinutesClock(end),
						PeriodDefinitionDurationMinutes: cfg.TimetableConfigurationDefaultPeriodDuration,
					}
					if createErr := tx.Create(&period).Error; createErr != nil {
						return createErr
					}
					created = append(created, period)
				}

				cursor = end
				switch {
				case num == cfg.TimetableConfigurationLunchBreakAfterPeriod:
					cursor += cfg.TimetableConfigurationLunchBreakDuration
				case num < cfg.TimetableConfigurationPeriodsPerDay:
					cursor += cfg.TimetableConfigurationShortBreakDuration
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
