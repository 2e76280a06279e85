package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"collegehub_backend/internals/configs"
	academicsModel "collegehub_backend/internals/features/academics/model"
	attendanceModel "collegehub_backend/internals/features/attendance/model"
	timetableModel "collegehub_backend/internals/features/timetable/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("[INFO] connecting to PostgreSQL...")

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: configs.DatabaseDSN(),
		// simple protocol plays nice with PgBouncer transaction pooling
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("[ERROR] DB connect failed: %v", err)
	}
	DB = db
	log.Println("[INFO] DB connected")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// Partial unique indexes on the timetable slot composites. These are the
// serialization point for concurrent entry writes: two transactions that
// both pass the conflict validator on a snapshot cannot both commit the
// same active faculty, room or section slot. Inactive rows stay out of the
// index, so soft-deleted entries free their slot. Raw DDL because GORM
// tags cannot express a WHERE clause; the statements are valid on both
// Postgres and the SQLite test driver.
var entrySlotIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_timetable_entries_slot
		ON timetable_entries (timetable_entry_section_id, timetable_entry_period_definition_id, timetable_entry_semester_id)
		WHERE timetable_entry_period_definition_id IS NOT NULL AND timetable_entry_is_active`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_timetable_entries_faculty_slot
		ON timetable_entries (timetable_entry_faculty_id, timetable_entry_period_definition_id, timetable_entry_semester_id)
		WHERE timetable_entry_faculty_id IS NOT NULL AND timetable_entry_period_definition_id IS NOT NULL AND timetable_entry_is_active`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_timetable_entries_room_slot
		ON timetable_entries (timetable_entry_room_id, timetable_entry_period_definition_id, timetable_entry_semester_id)
		WHERE timetable_entry_room_id IS NOT NULL AND timetable_entry_period_definition_id IS NOT NULL AND timetable_entry_is_active`,
}

// Migrate keeps the schema in sync. Unique composite indexes are the
// backstop for the conflict validator and the double-mark upsert, so
// migration must run before the app serves traffic.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	for _, stmt := range entrySlotIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&academicsModel.AcademicYearModel{},
		&academicsModel.SemesterModel{},
		&academicsModel.UserModel{},
		&academicsModel.SectionModel{},
		&academicsModel.SectionStudentModel{},
		&academicsModel.SubjectModel{},
		&academicsModel.RoomModel{},
		&timetableModel.TimetableConfigurationModel{},
		&timetableModel.PeriodDefinitionModel{},
		&timetableModel.TimetableEntryModel{},
		&attendanceModel.AttendanceSessionModel{},
		&attendanceModel.StudentAttendanceModel{},
		&attendanceModel.AttendanceReportModel{},
	)
}

func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
