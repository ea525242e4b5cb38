package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusOpening, StatusOpen, true},
		{StatusOpen, StatusDismissing, true},
		{StatusDismissing, StatusDismissed, true},
		{StatusOpening, StatusDismissing, false},
		{StatusOpen, StatusOpening, false},
		{StatusOpen, StatusOpen, false},
		{StatusDismissed, StatusDismissed + 1, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestStatus_Live(t *testing.T) {
	assert.True(t, StatusOpening.Live())
	assert.True(t, StatusOpen.Live())
	assert.False(t, StatusDismissing.Live())
	assert.False(t, StatusDismissed.Live())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "confirm", KindConfirm.String())
	assert.Equal(t, "unknown", Kind(9).String())
	assert.Equal(t, "outside_click", ReasonOutsideClick.String())
	assert.Equal(t, "escape_key", ReasonEscapeKey.String())
	assert.Equal(t, "failed", SettlementFailed.String())
	assert.Equal(t, "warning", ToastWarning.String())
}

func TestToast_Expired(t *testing.T) {
	now := time.Now()
	assert.True(t, Toast{Expires: now}.Expired(now))
	assert.False(t, Toast{Expires: now.Add(time.Second)}.Expired(now))
}
