package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/mmynk/splitpool/internal/stamp"
)

// Stamp is a point in time as written in group documents: a local
// "02.01.2006 15:04:05" string. Decoding also accepts a bare date,
// RFC 3339 and Unix seconds as a number.
type Stamp struct {
	time.Time
}

func NewStamp(t time.Time) Stamp {
	return Stamp{Time: t}
}

// MarshalJSON writes the full layout in local time, second precision.
// The zero time is written as null.
func (s Stamp) MarshalJSON() ([]byte, error) {
	if s.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(s.Local().Format(stamp.Layout))
}

func (s *Stamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.Time = time.Time{}
		return nil
	}

	if data[0] != '"' {
		secs, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return fmt.Errorf("%w: %s", stamp.ErrInvalidStamp, data)
		}
		whole, frac := math.Modf(secs)
		s.Time = time.Unix(int64(whole), int64(math.Round(frac*1e9)))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		s.Time = time.Time{}
		return nil
	}
	if t, err := stamp.Parse(str); err == nil {
		s.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return fmt.Errorf("%w: %q", stamp.ErrInvalidStamp, str)
	}
	s.Time = t
	return nil
}
