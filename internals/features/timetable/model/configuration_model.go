package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TimetableConfigurationModel is the per-semester scheduling policy the
// period generator expands. Treated as immutable once periods exist:
// regeneration is get-or-create and never rewrites generated rows.
type TimetableConfigurationModel struct {
	TimetableConfigurationID uuid.UUID `gorm:"type:uuid;primaryKey;column:timetable_configuration_id" json:"timetable_configuration_id"`

	// One configuration per semester.
	TimetableConfigurationSemesterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:timetable_configuration_semester_id" json:"timetable_configuration_semester_id"`

	TimetableConfigurationPeriodsPerDay         int    `gorm:"not null;default:8;column:timetable_configuration_periods_per_day" json:"timetable_configuration_periods_per_day"`
	TimetableConfigurationDefaultPeriodDuration int    `gorm:"not null;default:50;column:timetable_configuration_default_period_duration" json:"timetable_configuration_default_period_duration"` // minutes
	TimetableConfigurationDayStartTime          string `gorm:"type:varchar(5);not null;default:'09:30';column:timetable_configuration_day_start_time" json:"timetable_configuration_day_start_time"`
	TimetableConfigurationDayEndTime            string `gorm:"type:varchar(5);not null;default:'16:30';column:timetable_configuration_day_end_time" json:"timetable_configuration_day_end_time"`
	TimetableConfigurationLunchBreakAfterPeriod int    `gorm:"not null;default:4;column:timetable_configuration_lunch_break_after_period" json:"timetable_configuration_lunch_break_after_period"`
	TimetableConfigurationLunchBreakDuration    int    `gorm:"not null;default:30;column:timetable_configuration_lunch_break_duration" json:"timetable_configuration_lunch_break_duration"`
	TimetableConfigurationShortBreakDuration    int    `gorm:"not null;default:10;column:timetable_configuration_short_break_duration" json:"timetable_configuration_short_break_duration"`

	// Working day numbers, 1=Monday .. 7=Sunday.
	TimetableConfigurationWorkingDays datatypes.JSONSlice[int] `gorm:"column:timetable_configuration_working_days" json:"timetable_configuration_working_days"`

	TimetableConfigurationCreatedAt time.Time `gorm:"column:timetable_configuration_created_at;autoCreateTime" json:"timetable_configuration_created_at"`
	TimetableConfigurationUpdatedAt time.Time `gorm:"column:timetable_configuration_updated_at;autoUpdateTime" json:"timetable_configuration_updated_at"`
}

func (TimetableConfigurationModel) TableName() string { return "timetable_configurations" }

func (m *TimetableConfigurationModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimetableConfigurationID == uuid.Nil {
		m.TimetableConfigurationID = uuid.New()
	}
	return nil
}
