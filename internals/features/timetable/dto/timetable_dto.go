package dto

// Request payloads for timetable administration. UUID fields arrive as
// strings and are parsed in the controller after validation.

type UpsertConfigurationRequest struct {
	SemesterID            string `json:"semester_id" validate:"required,uuid"`
	PeriodsPerDay         int    `json:"periods_per_day" validate:"required,min=1,max=12"`
	DefaultPeriodDuration int    `json:"default_period_duration" validate:"required,min=1,max=240"`
	DayStartTime          string `json:"day_start_time" validate:"required"`
	DayEndTime            string `json:"day_end_time" validate:"required"`
	LunchBreakAfterPeriod int    `json:"lunch_break_after_period" validate:"required,min=1"`
	LunchBreakDuration    int    `json:"lunch_break_duration" validate:"min=0,max=240"`
	ShortBreakDuration    int    `json:"short_break_duration" validate:"min=0,max=120"`
	WorkingDays           []int  `json:"working_days" validate:"required,min=1,max=7,dive,min=1,max=7"`
}

type GeneratePeriodsRequest struct {
	SemesterID string `json:"semester_id" validate:"required,uuid"`
}

type CreateEntryRequest struct {
	SectionID          string  `json:"section_id" validate:"required,uuid"`
	SubjectID          string  `json:"subject_id" validate:"required,uuid"`
	FacultyID          *string `json:"faculty_id" validate:"omitempty,uuid"`
	RoomID             *string `json:"room_id" validate:"omitempty,uuid"`
	PeriodDefinitionID string  `json:"period_definition_id" validate:"required,uuid"`
	SemesterID         string  `json:"semester_id" validate:"required,uuid"`
	Notes              string  `json:"notes" validate:"max=2000"`
}

type UpdateEntryRequest struct {
	SubjectID          *string `json:"subject_id" validate:"omitempty,uuid"`
	FacultyID          *string `json:"faculty_id" validate:"omitempty,uuid"`
	RoomID             *string `json:"room_id" validate:"omitempty,uuid"`
	PeriodDefinitionID *string `json:"period_definition_id" validate:"omitempty,uuid"`
	Notes              *string `json:"notes" validate:"omitempty,max=2000"`
	IsActive           *bool   `json:"is_active"`
}

type SwapEntriesRequest struct {
	FirstEntryID  string `json:"first_entry_id" validate:"required,uuid"`
	SecondEntryID string `json:"second_entry_id" validate:"required,uuid"`
}
