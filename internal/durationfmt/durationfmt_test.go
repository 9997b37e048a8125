package durationfmt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanlin/lexibook/internal/durationfmt"
)

func TestHoursMinutes(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0分钟"},
		{name: "negative", seconds: -10, expected: "0分钟"},
		{name: "under a minute drops seconds", seconds: 59, expected: "0分钟"},
		{name: "exactly one minute", seconds: 60, expected: "1分钟"},
		{name: "one hour one minute one second", seconds: 3661, expected: "1小时1分钟"},
		{name: "exactly one hour", seconds: 3600, expected: "1小时0分钟"},
		{name: "several hours", seconds: 7384, expected: "2小时3分钟"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, durationfmt.HoursMinutes(tt.seconds))
		})
	}
}

func TestMinutesSeconds(t *testing.T) {
	tests := []struct {
		name     string
		seconds  int
		expected string
	}{
		{name: "zero", seconds: 0, expected: "0秒"},
		{name: "negative", seconds: -1, expected: "0秒"},
		{name: "under a minute", seconds: 42, expected: "42秒"},
		{name: "one minute five seconds", seconds: 65, expected: "1分钟5秒"},
		{name: "exact minutes", seconds: 180, expected: "3分钟0秒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, durationfmt.MinutesSeconds(tt.seconds))
		})
	}
}
