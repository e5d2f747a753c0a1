package taskfield

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain", "Write spec", "Write spec", false},
		{"trims surrounding space", "  Write spec  ", "Write spec", false},
		{"empty", "", "", true},
		{"whitespace only", "   \t ", "", true},
		{"exactly 200", strings.Repeat("a", 200), strings.Repeat("a", 200), false},
		{"201 is too long", strings.Repeat("a", 201), "", true},
		{"200 after trim", " " + strings.Repeat("a", 200) + " ", strings.Repeat("a", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateTitle(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePriority(t *testing.T) {
	for _, raw := range []string{"low", "LOW", "Low", " lOw "} {
		got, err := ValidatePriority(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, PriorityLow, got)
	}

	for _, raw := range []string{"", "critical", "lowest", "med ium"} {
		_, err := ValidatePriority(raw)
		assert.Error(t, err, raw)
	}
}

func TestValidateStatus(t *testing.T) {
	got, err := ValidateStatus("inProgress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got)

	_, err = ValidateStatus("cancelled")
	assert.Error(t, err)
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"low", PriorityLow},
		{"MEDIUM", PriorityMedium},
		{"High", PriorityHigh},
		{"hIgH", PriorityHigh},
		{"", PriorityMedium},
		{"urgent", PriorityMedium},
		{"critical", PriorityMedium},
	}

	for _, tt := range tests {
		got := NormalizePriority(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Contains(t, Priorities(), got)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"todo", StatusTodo},
		{"TODO", StatusTodo},
		{"InProgress", StatusInProgress},
		{"done", StatusDone},
		{"", StatusTodo},
		{"archived", StatusTodo},
	}

	for _, tt := range tests {
		got := NormalizeStatus(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Contains(t, Statuses(), got)
	}
}

func TestNormalizeDescription(t *testing.T) {
	assert.Nil(t, NormalizeDescription(""))
	assert.Nil(t, NormalizeDescription("   \n\t"))

	got := NormalizeDescription("  details  ")
	require.NotNil(t, got)
	assert.Equal(t, "details", *got)
}
