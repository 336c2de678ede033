// Package units renders byte counts as human-readable magnitude strings.
package units

import (
	"math"
	"strconv"
)

// Base selects the unit system used when scaling a byte count.
type Base int64

const (
	Binary Base = 1024
	Metric Base = 1000
)

var (
	binaryUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}
	metricUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}
)

// Format renders a byte count such as "12.34 MB". A nil count means the size
// is unknown and renders as "Unknown". The quotient is rounded to two
// decimal places; trailing zeros are dropped.
func Format(n *int64, base Base, spaced bool) string {
	if n == nil {
		return "Unknown"
	}

	names := binaryUnits
	if base == Metric {
		names = metricUnits
	}

	value := float64(*n)
	unit := 0
	for value >= float64(base) && unit < len(names)-1 {
		value /= float64(base)
		unit++
	}

	sep := ""
	if spaced {
		sep = " "
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + sep + names[unit]
}
