package dto

import "encoding/json"

type CreateAcademicYearRequest struct {
	Code string `json:"code" validate:"required,max=20"`
}

type CreateSemesterRequest struct {
	AcademicYearID string `json:"academic_year_id" validate:"required,uuid"`
	Number         int    `json:"number" validate:"required,min=1,max=8"`
	StartDate      string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type CreateRoomRequest struct {
	Number     string          `json:"number" validate:"required,max=20"`
	Building   string          `json:"building" validate:"required,max=50"`
	Capacity   int             `json:"capacity" validate:"required,min=1,max=2000"`
	Type       string          `json:"type" validate:"required,oneof=CLASSROOM LAB SEMINAR AUDITORIUM"`
	Department *string         `json:"department" validate:"omitempty,max=100"`
	Facilities json.RawMessage `json:"facilities"`
}

type CreateSubjectRequest struct {
	Code string `json:"code" validate:"required,max=20"`
	Name string `json:"name" validate:"required,max=200"`
}

type CreateSectionRequest struct {
	Name string `json:"name" validate:"required,max=10"`
	Year int    `json:"year" validate:"required,min=1,max=4"`
}

type EnrollStudentRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}
