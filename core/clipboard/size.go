package clipboard

import (
	"fmt"
	"math"
	"strconv"
)

const (
	bytesPerMB   = 1024 * 1024
	sizeMBScale  = 10000
	sizeMBDigits = 4
)

// SizeMB is a size in megabytes kept in fixed point (ten-thousandths of a MB),
// so the truncated value never picks up float rounding.
type SizeMB int64

// ComputeSizeMB sums the raw lengths of blobs and truncates the megabyte
// value toward zero at four decimal places.
func ComputeSizeMB(blobs []Blob) SizeMB {
	var total int64
	for _, b := range blobs {
		total += int64(b.Size())
	}
	return SizeMB(total * sizeMBScale / bytesPerMB)
}

// Float returns the size as a float64 number of megabytes.
func (s SizeMB) Float() float64 {
	return float64(s) / sizeMBScale
}

// String formats the size with exactly four decimals, e.g. "3.0000".
func (s SizeMB) String() string {
	return fmt.Sprintf("%d.%0*d", s/sizeMBScale, sizeMBDigits, s%sizeMBScale)
}

// MarshalJSON writes the size as a JSON number with four decimals.
func (s SizeMB) MarshalJSON() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalJSON accepts any JSON number.
func (s *SizeMB) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("clipboard: invalid size %q: %w", data, err)
	}
	*s = SizeMB(math.Floor(f*sizeMBScale + 0.5))
	return nil
}
