// Package dosing holds the worksheet arithmetic: body surface area, body
// mass index, absolute dose derivation and the informational dose-range
// check. Everything here is pure; persistence and transport live elsewhere.
package dosing

import (
	"fmt"
	"math"
	"strings"
)

// Dose units offered on the worksheet.
const (
	UnitMgPerKgDose  = "mg/kg/dose"
	UnitMgPerDose    = "mg/dose"
	UnitMcgPerKgDose = "mcg/kg/dose"
)

// Dosing intervals and the doses per day each implies.
var dosesPerDay = map[string]int{
	"q6h":  4,
	"q8h":  3,
	"q12h": 2,
	"q24h": 1,
	"once": 1,
}

// BSA computes body surface area via the Du Bois formula, rounded to two
// decimals for display. ok is false when either input is absent or
// non-positive; callers must treat that as "cannot compute", never as zero.
func BSA(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	v := 0.007184 * math.Pow(weightKg, 0.425) * math.Pow(heightCm, 0.725)
	return Round2(v), true
}

// BMI computes body mass index (metric), rounded to two decimals.
func BMI(weightKg, heightCm float64) (float64, bool) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, false
	}
	m := heightCm / 100
	return Round2(weightKg / (m * m)), true
}

// IsPerKilogram reports whether unit scales by patient weight.
func IsPerKilogram(unit string) bool {
	return strings.Contains(unit, "/kg/")
}

// AbsoluteDose derives the absolute dose from the entered dose. Per-kilogram
// units multiply by weight; absolute units pass through unchanged. ok is
// false when the entered dose is not finite, or when the unit needs a weight
// that is absent.
func AbsoluteDose(dose float64, unit string, weightKg float64) (float64, bool) {
	if math.IsNaN(dose) || math.IsInf(dose, 0) {
		return 0, false
	}
	if !IsPerKilogram(unit) {
		return dose, true
	}
	if weightKg <= 0 {
		return 0, false
	}
	return dose * weightKg, true
}

// DosesPerDay returns how many doses the interval implies per day, or 0 for
// an unknown interval.
func DosesPerDay(interval string) int {
	return dosesPerDay[interval]
}

// ValidInterval reports whether interval is one of the worksheet choices.
func ValidInterval(interval string) bool {
	_, ok := dosesPerDay[interval]
	return ok
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Limits are a drug's dosing limit fields. Nil means "no limit defined",
// not zero.
type Limits struct {
	MinPerKgDose *float64 // mg/kg/dose
	MaxPerKgDose *float64 // mg/kg/dose
	MaxPerDose   *float64 // mg/dose
	MaxPerDay    *float64 // mg/day
}

// CheckRange compares the entered dose against the drug's limits and returns
// human-readable warnings. Warnings are informational only; an out-of-range
// dose is never a blocking error. Doses entered in mcg are normalized to mg
// before comparison.
func CheckRange(dose float64, unit string, weightKg float64, interval string, lim Limits) []string {
	var warnings []string

	doseMg := dose
	if strings.HasPrefix(unit, "mcg") {
		doseMg = dose / 1000
	}

	if IsPerKilogram(unit) {
		if lim.MinPerKgDose != nil && doseMg < *lim.MinPerKgDose {
			warnings = append(warnings, fmt.Sprintf(
				"dose %.2f mg/kg/dose is below the recommended minimum %.2f mg/kg/dose", doseMg, *lim.MinPerKgDose))
		}
		if lim.MaxPerKgDose != nil && doseMg > *lim.MaxPerKgDose {
			warnings = append(warnings, fmt.Sprintf(
				"dose %.2f mg/kg/dose exceeds the recommended maximum %.2f mg/kg/dose", doseMg, *lim.MaxPerKgDose))
		}
	}

	abs, ok := AbsoluteDose(doseMg, unit, weightKg)
	if !ok {
		return warnings
	}

	if lim.MaxPerDose != nil && abs > *lim.MaxPerDose {
		warnings = append(warnings, fmt.Sprintf(
			"absolute dose %.2f mg exceeds the maximum single dose %.2f mg", abs, *lim.MaxPerDose))
	}
	if lim.MaxPerDay != nil {
		if n := DosesPerDay(interval); n > 0 {
			daily := abs * float64(n)
			if daily > *lim.MaxPerDay {
				warnings = append(warnings, fmt.Sprintf(
					"daily dose %.2f mg (%d doses) exceeds the maximum daily dose %.2f mg", daily, n, *lim.MaxPerDay))
			}
		}
	}

	return warnings
}
