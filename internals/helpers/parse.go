package helper

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// ClockTimeLayout is the wall-clock format used by period definitions
// ("09:30"). Stored as text so the schema is portable across drivers.
const ClockTimeLayout = "15:04"

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s is required", name)
	}
	return uuid.Parse(raw)
}

func ParseDate(raw string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(raw))
}

// ParseClockTime validates an "HH:MM" string and returns it normalized.
func ParseClockTime(raw string) (string, error) {
	t, err := time.Parse(ClockTimeLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", raw)
	}
	return t.Format(ClockTimeLayout), nil
}

// ClockMinutes converts "HH:MM" to minutes since midnight.
func ClockMinutes(clock string) (int, error) {
	t, err := time.Parse(ClockTimeLayout, clock)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesClock is the inverse of ClockMinutes.
func MinutesClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// IsDuplicateKey sniffs driver duplicate-key failures; the DB unique
// constraints are the concurrency backstop behind the pre-write validators.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "violates unique constraint") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
