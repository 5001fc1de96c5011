package schedule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowContains(t *testing.T) {
	w := Window{Start: 9, Stop: 18}

	assert.False(t, w.Contains(8))
	assert.True(t, w.Contains(9))
	assert.True(t, w.Contains(17))
	assert.False(t, w.Contains(18))
	assert.False(t, w.Contains(23))
}

func TestWindowOnHours(t *testing.T) {
	assert.Equal(t, 9, Window{Start: 9, Stop: 18}.OnHours())
	assert.Equal(t, 0, Window{Start: 9, Stop: 9}.OnHours())
	assert.Equal(t, 0, Window{Start: 18, Stop: 9}.OnHours())
}

func TestWeeklyScheduleOffHours(t *testing.T) {
	ws := WeeklySchedule{
		"monday":  {Start: 9, Stop: 18},
		"tuesday": {Start: 9, Stop: 18},
		"sunday":  {Start: 0, Stop: 0},
	}

	assert.Equal(t, 18, ws.OnHoursPerWeek())
	assert.Equal(t, HoursPerWeek-18, ws.OffHoursPerWeek())
}

func TestWeeklyScheduleOffHoursBusinessWeek(t *testing.T) {
	ws := WeeklySchedule{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		ws[day] = Window{Start: 9, Stop: 18}
	}

	assert.Equal(t, 45, ws.OnHoursPerWeek())
	assert.Equal(t, 123, ws.OffHoursPerWeek())
}

func TestTagFilterUnmarshal(t *testing.T) {
	t.Run("single string", func(t *testing.T) {
		var f TagFilter
		require.NoError(t, json.Unmarshal([]byte(`"web-*"`), &f))
		assert.Equal(t, TagFilter{"web-*"}, f)
	})

	t.Run("array of strings", func(t *testing.T) {
		var f TagFilter
		require.NoError(t, json.Unmarshal([]byte(`["web-*","worker-*"]`), &f))
		assert.Equal(t, TagFilter{"web-*", "worker-*"}, f)
	})

	t.Run("rejects other shapes", func(t *testing.T) {
		var f TagFilter
		assert.Error(t, json.Unmarshal([]byte(`{"tag":"web"}`), &f))
	})
}

func validProfile() Profile {
	return Profile{
		Name:         "web",
		Region:       "sa-east-1",
		InstanceTags: TagFilter{"web-*"},
		Schedule:     WeeklySchedule{"monday": {Start: 9, Stop: 18}},
	}
}

func TestProfileValidate(t *testing.T) {
	require.NoError(t, validProfile().Validate())

	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{"empty name", func(p *Profile) { p.Name = "" }, "name must not be empty"},
		{"empty region", func(p *Profile) { p.Region = "" }, "region must not be empty"},
		{"no tags", func(p *Profile) { p.InstanceTags = nil }, "instance_tags must not be empty"},
		{"empty tag value", func(p *Profile) { p.InstanceTags = TagFilter{""} }, "empty values"},
		{"no schedule", func(p *Profile) { p.Schedule = nil }, "schedule must not be empty"},
		{"unknown weekday", func(p *Profile) { p.Schedule["funday"] = Window{Start: 9, Stop: 18} }, "unknown weekday"},
		{"start out of range", func(p *Profile) { p.Schedule["monday"] = Window{Start: 24, Stop: 18} }, "start hour 24 out of range"},
		{"negative stop", func(p *Profile) { p.Schedule["monday"] = Window{Start: 9, Stop: -1} }, "stop hour -1 out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
