package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collegehub_backend/internals/features/timetable/service"
	"collegehub_backend/internals/helpers/apperr"
	"collegehub_backend/internals/testutil"
)

func validConfigInput(semesterID uuid.UUID) service.ConfigurationInput {
	return service.ConfigurationInput{
		SemesterID:            semesterID,
		PeriodsPerDay:         8,
		DefaultPeriodDuration: 50,
		DayStartTime:          "09:30",
		DayEndTime:            "16:30",
		LunchBreakAfterPeriod: 4,
		LunchBreakDuration:    30,
		ShortBreakDuration:    10,
		WorkingDays:           []int{1, 2, 3, 4, 5},
	}
}

func TestUpsertConfiguration_CreateThenUpdate(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	svc := service.NewConfigurationService(db)

	in := validConfigInput(semester.SemesterID)
	created, err := svc.UpsertConfiguration(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 8, created.TimetableConfigurationPeriodsPerDay)

	in.PeriodsPerDay = 6
	in.WorkingDays = []int{1, 2, 3}
	updated, err := svc.UpsertConfiguration(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, created.TimetableConfigurationID, updated.TimetableConfigurationID, "one configuration row per semester")
	assert.Equal(t, 6, updated.TimetableConfigurationPeriodsPerDay)
	assert.Equal(t, []int{1, 2, 3}, []int(updated.TimetableConfigurationWorkingDays))
}

func TestUpsertConfiguration_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	semester := testutil.NewSemester(t, db)
	svc := service.NewConfigurationService(db)

	cases := []struct {
		name   string
		mutate func(*service.ConfigurationInput)
	}{
		{"lunch after last period", func(in *service.ConfigurationInput) { in.LunchBreakAfterPeriod = 9 }},
		{"end before start", func(in *service.ConfigurationInput) { in.DayEndTime = "08:00" }},
		{"bad clock value", func(in *service.ConfigurationInput) { in.DayStartTime = "9am" }},
		{"empty working days", func(in *service.ConfigurationInput) { in.WorkingDays = nil }},
		{"day out of range", func(in *service.ConfigurationInput) { in.WorkingDays = []int{1, 8} }},
		{"duplicate day", func(in *service.ConfigurationInput) { in.WorkingDays = []int{1, 1} }},
		{"zero periods", func(in *service.ConfigurationInput) { in.PeriodsPerDay = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validConfigInput(semester.SemesterID)
			tc.mutate(&in)
			_, err := svc.UpsertConfiguration(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindPrecondition, apperr.KindOf(err))
		})
	}
}

func TestGetConfiguration_NotFound(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := service.NewConfigurationService(db)
	_, err := svc.GetConfiguration(context.Background(), testutil.NewID())
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
