package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID uuid.UUID `gorm:"type:uuid;primaryKey;column:subject_id" json:"subject_id"`

	SubjectCode     string `gorm:"type:varchar(20);not null;uniqueIndex;column:subject_code" json:"subject_code"` // CS301
	SubjectName     string `gorm:"type:varchar(200);not null;column:subject_name" json:"subject_name"`
	SubjectIsActive bool   `gorm:"not null;default:true;column:subject_is_active" json:"subject_is_active"`

	SubjectCreatedAt time.Time `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	return nil
}
