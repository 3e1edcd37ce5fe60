package engine

import "math"

// ToReal converts a nominal future value into today's purchasing power:
// nominal / (1+rate)^years. Identity at zero inflation or zero elapsed time.
func ToReal(nominal, annualInflation float64, yearsElapsed int) float64 {
	if annualInflation == 0 || yearsElapsed == 0 {
		return nominal
	}
	return nominal / math.Pow(1+annualInflation, float64(yearsElapsed))
}

// CompoundFactor returns (1+rate)^years, the escalation multiplier shared by
// rent increases, home appreciation and inflation
func CompoundFactor(rate float64, years int) float64 {
	if rate == 0 || years == 0 {
		return 1
	}
	return math.Pow(1+rate, float64(years))
}
