package dto

import "encoding/json"

type OpenSessionRequest struct {
	TimetableEntryID string `json:"timetable_entry_id" validate:"required,uuid"`
	Date             string `json:"date" validate:"required,datetime=2006-01-02"`
	WindowMinutes    *int   `json:"window_minutes" validate:"omitempty,min=1,max=240"`
}

type BlockSessionRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type AutoCreateSessionsRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type SelfMarkRequest struct {
	ImageKey   string          `json:"image_key" validate:"required,max=300"`
	Latitude   *float64        `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude  *float64        `json:"longitude" validate:"omitempty,min=-180,max=180"`
	DeviceInfo json.RawMessage `json:"device_info"`
}

type ManualMarkRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	Status    string `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
	Notes     string `json:"notes" validate:"max=2000"`
}

type BulkMarkPresentRequest struct {
	StudentIDs []string `json:"student_ids" validate:"required,min=1,dive,uuid"`
}
