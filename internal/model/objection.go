package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ObjectionRecord is a persisted objection raised during a call.
type ObjectionRecord struct {
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ID                   string
	ClientID             string
	CallID               string
	CloserName           string
	Type                 string
	Text                 string
	CloserResponse       string
	TimestampApproximate *string
	TimestampSeconds     *int
	TimestampMinutes     *float64
	WasOvercome          bool
}

// DeriveTimestamps fills TimestampSeconds and TimestampMinutes from
// TimestampApproximate. Unparseable values leave both nil.
func (o *ObjectionRecord) DeriveTimestamps() {
	o.TimestampSeconds = nil
	o.TimestampMinutes = nil
	if o.TimestampApproximate == nil {
		return
	}
	seconds, ok := parseClockTimestamp(*o.TimestampApproximate)
	if !ok {
		return
	}
	minutes := math.Round(float64(seconds)/60*100) / 100
	o.TimestampSeconds = &seconds
	o.TimestampMinutes = &minutes
}

// parseClockTimestamp accepts "H:MM:SS" or "MM:SS" and returns total seconds.
func parseClockTimestamp(ts string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(ts), ":")

	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, false
		}
		nums = append(nums, n)
	}

	switch len(nums) {
	case 3:
		return nums[0]*3600 + nums[1]*60 + nums[2], true
	case 2:
		return nums[0]*60 + nums[1], true
	default:
		return 0, false
	}
}
