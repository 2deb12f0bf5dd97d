package valueobject

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var secondsPerMinute = decimal.NewFromInt(60)

// CutDuration is the laser cutting time for one piece as a minutes:seconds pair
type CutDuration struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// NewCutDuration creates a CutDuration from minute and second components
func NewCutDuration(minutes, seconds int) (CutDuration, error) {
	if minutes < 0 || seconds < 0 {
		return CutDuration{}, fmt.Errorf("duration components cannot be negative: %d:%d", minutes, seconds)
	}
	if seconds > 59 {
		return CutDuration{}, fmt.Errorf("seconds must be in [0, 59]: got %d", seconds)
	}
	return CutDuration{Minutes: minutes, Seconds: seconds}, nil
}

// ParseCutDuration parses a "MM:SS" string into a CutDuration
func ParseCutDuration(s string) (CutDuration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return CutDuration{}, fmt.Errorf("duration must be in MM:SS format: %q", s)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return CutDuration{}, fmt.Errorf("invalid minutes in duration %q: %w", s, err)
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return CutDuration{}, fmt.Errorf("invalid seconds in duration %q: %w", s, err)
	}
	return NewCutDuration(minutes, seconds)
}

// IsZero returns true when no cutting time has been entered
func (d CutDuration) IsZero() bool {
	return d.Minutes == 0 && d.Seconds == 0
}

// TotalMinutes returns the duration as fractional minutes (minutes + seconds/60)
func (d CutDuration) TotalMinutes() decimal.Decimal {
	return decimal.NewFromInt(int64(d.Minutes)).
		Add(decimal.NewFromInt(int64(d.Seconds)).Div(secondsPerMinute))
}

// String returns the duration in MM:SS format
func (d CutDuration) String() string {
	return fmt.Sprintf("%02d:%02d", d.Minutes, d.Seconds)
}
