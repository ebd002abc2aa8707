package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"SAFE", StatusSafe},
		{"safe", StatusSafe},
		{" Safe ", StatusSafe},
		{"NEED_HELP", StatusNeedHelp},
		{"need_help", StatusNeedHelp},
		{"help", StatusNeedHelp},
		{"UNKNOWN", StatusUnknown},
		{"unknown", StatusUnknown},
		{"", StatusUnknown},
		{"injured", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.raw))
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "安全", StatusSafe.Label())
	assert.Equal(t, "支援が必要", StatusNeedHelp.Label())
	assert.Equal(t, "不明", StatusUnknown.Label())
	assert.Equal(t, "不明", Status("BOGUS").Label())
}

func TestSafetyStatus_LocationOrUnknown(t *testing.T) {
	assert.Equal(t, "東京都中央区", SafetyStatus{Location: "東京都中央区"}.LocationOrUnknown())
	assert.Equal(t, UnknownLocation, SafetyStatus{}.LocationOrUnknown())
	assert.Equal(t, UnknownLocation, SafetyStatus{Location: "  "}.LocationOrUnknown())
}

func TestEntry_DisplayName(t *testing.T) {
	resolved := Entry{User: &User{ID: "u1", Name: "田中 一郎"}}
	assert.True(t, resolved.Resolved())
	assert.Equal(t, "田中 一郎", resolved.DisplayName())

	unresolved := Entry{Report: SafetyStatus{UserID: "u99"}}
	assert.False(t, unresolved.Resolved())
	assert.Equal(t, UnknownUserName, unresolved.DisplayName())
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "田一", Initials("田中 一郎"))
	assert.Equal(t, "JD", Initials("jane doe"))
	assert.Equal(t, "", Initials(""))
}
