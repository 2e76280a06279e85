package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var dayNames = map[int]string{
	1: "Monday", 2: "Tuesday", 3: "Wednesday", 4: "Thursday",
	5: "Friday", 6: "Saturday", 7: "Sunday",
}

// PeriodDefinitionModel pins a slot on the weekly grid: "Monday period 3
// runs 11:20-12:10". Rows are generated from the configuration, never
// hand-edited in bulk.
type PeriodDefinitionModel struct {
	PeriodDefinitionID uuid.UUID `gorm:"type:uuid;primaryKey;column:period_definition_id" json:"period_definition_id"`

	PeriodDefinitionSemesterID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_period_definitions_slot;index:idx_period_definitions_semester_day;column:period_definition_semester_id" json:"period_definition_semester_id"`
	PeriodDefinitionPeriodNumber int       `gorm:"not null;uniqueIndex:uq_period_definitions_slot;column:period_definition_period_number" json:"period_definition_period_number"`
	PeriodDefinitionDayOfWeek    int       `gorm:"not null;uniqueIndex:uq_period_definitions_slot;index:idx_period_definitions_semester_day;column:period_definition_day_of_week" json:"period_definition_day_of_week"` // 1=Monday .. 7=Sunday

	PeriodDefinitionStartTime       string `gorm:"type:varchar(5);not null;column:period_definition_start_time" json:"period_definition_start_time"` // HH:MM
	PeriodDefinitionEndTime         string `gorm:"type:varchar(5);not null;column:period_definition_end_time" json:"period_definition_end_time"`
	PeriodDefinitionDurationMinutes int    `gorm:"not null;column:period_definition_duration_minutes" json:"period_definition_duration_minutes"`

	PeriodDefinitionCreatedAt time.Time `gorm:"column:period_definition_created_at;autoCreateTime" json:"period_definition_created_at"`
	PeriodDefinitionUpdatedAt time.Time `gorm:"column:period_definition_updated_at;autoUpdateTime" json:"period_definition_updated_at"`
}

func (PeriodDefinitionModel) TableName() string { return "period_definitions" }

func (m *PeriodDefinitionModel) BeforeCreate(tx *gorm.DB) error {
	if m.PeriodDefinitionID == uuid.Nil {
		m.PeriodDefinitionID = uuid.New()
	}
	return nil
}

// DayName returns the display name for the day-of-week number.
func (m *PeriodDefinitionModel) DayName() string {
	return dayNames[m.PeriodDefinitionDayOfWeek]
}
