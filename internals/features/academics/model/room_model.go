package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomClassroom  RoomType = "CLASSROOM"
	RoomLab        RoomType = "LAB"
	RoomSeminar    RoomType = "SEMINAR"
	RoomAuditorium RoomType = "AUDITORIUM"
)

type RoomModel struct {
	RoomID uuid.UUID `gorm:"type:uuid;primaryKey;column:room_id" json:"room_id"`

	RoomNumber   string   `gorm:"type:varchar(20);not null;uniqueIndex;column:room_number" json:"room_number"` // 301, Lab-A
	RoomBuilding string   `gorm:"type:varchar(50);not null;column:room_building" json:"room_building"`
	RoomCapacity int      `gorm:"not null;column:room_capacity" json:"room_capacity"`
	RoomType     RoomType `gorm:"type:varchar(20);not null;default:'CLASSROOM';column:room_type" json:"room_type"`

	// Department that primarily uses this room, free text since the core
	// never joins on it.
	RoomDepartment *string `gorm:"type:varchar(100);column:room_department" json:"room_department,omitempty"`

	// Facility flags: {"projector": true, "ac": true, ...}
	RoomFacilities datatypes.JSON `gorm:"column:room_facilities" json:"room_facilities"`
	RoomIsActive   bool           `gorm:"not null;default:true;column:room_is_active" json:"room_is_active"`

	RoomCreatedAt time.Time      `gorm:"column:room_created_at;autoCreateTime" json:"room_created_at"`
	RoomUpdatedAt time.Time      `gorm:"column:room_updated_at;autoUpdateTime" json:"room_updated_at"`
	RoomDeletedAt gorm.DeletedAt `gorm:"column:room_deleted_at;index" json:"room_deleted_at,omitempty"`
}

func (RoomModel) TableName() string { return "rooms" }

func (m *RoomModel) BeforeCreate(tx *gorm.DB) error {
	if m.RoomID == uuid.Nil {
		m.RoomID = uuid.New()
	}
	return nil
}
