// Package units provides shared constants and conversions for the display
// units accepted on the command line. Curvature is stored in rad/m and
// speed in m/s; conversion happens only at presentation time.
package units

import "strings"

// Speed unit constants
const (
	MPS = "mps"
	MPH = "mph"
	KPH = "kph"
)

// Curvature unit constants
const (
	RadPerM  = "rad/m"
	RadPerKM = "rad/km"
)

// ValidSpeedUnits contains all accepted speed unit values.
var ValidSpeedUnits = []string{MPS, MPH, KPH}

// IsValidSpeedUnit checks if the given unit is an accepted speed unit.
func IsValidSpeedUnit(unit string) bool {
	for _, u := range ValidSpeedUnits {
		if unit == u {
			return true
		}
	}
	return false
}

// SpeedUnitsHelp returns a comma-separated list of accepted speed units
// for flag usage strings and error messages.
func SpeedUnitsHelp() string {
	return strings.Join(ValidSpeedUnits, ", ")
}

// ConvertSpeed converts a speed in m/s to the target display units.
// Unknown units pass the value through unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ConvertCurvature converts a curvature in rad/m to the target display
// units. Unknown units pass the value through unchanged.
func ConvertCurvature(kappa float64, targetUnits string) float64 {
	switch targetUnits {
	case RadPerKM:
		return kappa * 1000
	default:
		return kappa
	}
}
