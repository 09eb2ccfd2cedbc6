package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/langtrends/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTrendDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected schema.TrendDirection
	}{
		{
			name:     "no change",
			input:    0.0,
			expected: schema.FlatTrend,
		},
		{
			name:     "just below rising",
			input:    0.49,
			expected: schema.FlatTrend,
		},
		{
			name:     "exactly rising",
			input:    0.5,
			expected: schema.RisingTrend,
		},
		{
			name:     "just above falling",
			input:    -0.49,
			expected: schema.FlatTrend,
		},
		{
			name:     "exactly falling",
			input:    -0.5,
			expected: schema.FallingTrend,
		},
		{
			name:     "large drop",
			input:    -12.3,
			expected: schema.FallingTrend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetTrendDirection(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	for _, direction := range []schema.TrendDirection{schema.RisingTrend, schema.FallingTrend, schema.FlatTrend} {
		t.Run(string(direction), func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorLabel(direction), string(direction))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})

	t.Run("missing directory fails", func(t *testing.T) {
		_, err := SelectOutputFile(filepath.Join(t.TempDir(), "nope", "out.txt"))
		assert.Error(t, err)
	})
}

func TestParseBoolString(t *testing.T) {
	tests := []struct {
		input       string
		expected    bool
		expectError bool
	}{
		{"yes", true, false},
		{"YES", true, false},
		{"true", true, false},
		{"1", true, false},
		{"no", false, false},
		{"False", false, false},
		{"0", false, false},
		{"maybe", false, true},
		{"", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBoolString(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"JavaScript", "Python", "C++"}, SplitList(" JavaScript, Python ,,C++ "))
	assert.Empty(t, SplitList(""))
	assert.Empty(t, SplitList(" , "))
}
