package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDimensions(t *testing.T) {
	_, err := NewDimensions(decimal.NewFromInt(-1), decimal.NewFromInt(10))
	assert.Error(t, err)

	d, err := NewDimensions(decimal.NewFromInt(200), decimal.NewFromInt(100))
	require.NoError(t, err)
	assert.True(t, d.IsComplete())
}

func TestDimensions_AreaM2(t *testing.T) {
	tests := []struct {
		name     string
		widthCm  int64
		heightCm int64
		wantM2   string
	}{
		{"2m x 1m", 200, 100, "2"},
		{"50cm x 50cm", 50, 50, "0.25"},
		{"1cm x 1cm", 1, 1, "0.0001"},
		{"missing width", 0, 100, "0"},
		{"missing height", 100, 0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Dimensions{
				WidthCm:  decimal.NewFromInt(tt.widthCm),
				HeightCm: decimal.NewFromInt(tt.heightCm),
			}
			want, err := decimal.NewFromString(tt.wantM2)
			require.NoError(t, err)
			assert.True(t, d.AreaM2().Equal(want), "got %s", d.AreaM2())
		})
	}
}

func TestDimensions_IsComplete(t *testing.T) {
	complete := Dimensions{WidthCm: decimal.NewFromInt(10), HeightCm: decimal.NewFromInt(20)}
	assert.True(t, complete.IsComplete())

	missing := Dimensions{WidthCm: decimal.NewFromInt(10)}
	assert.False(t, missing.IsComplete())

	empty := Dimensions{}
	assert.False(t, empty.IsComplete())
}
