package weather

import "math"

// Unit is a display temperature unit.
type Unit string

const (
	UnitCelsius    Unit = "C"
	UnitFahrenheit Unit = "F"
)

// CToF converts Celsius to Fahrenheit, rounded to the nearest degree.
func CToF(c float64) float64 {
	return math.Round(c*9.0/5.0 + 32.0)
}

// ConvertForDisplay maps a Celsius value to the requested display unit,
// rounding to the nearest degree.
func ConvertForDisplay(c float64, unit Unit) float64 {
	if unit == UnitFahrenheit {
		return CToF(c)
	}
	return math.Round(c)
}
