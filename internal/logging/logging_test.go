package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseLevel(tc.in, zerolog.InfoLevel), "level %q", tc.in)
	}
}

func TestNewHonorsLevel(t *testing.T) {
	log := New("warn", "json")
	assert.Equal(t, zerolog.WarnLevel, log.GetLevel())

	log = New("debug", "console")
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())
}
