package engine

// GrowStep advances an investment balance by one compounding period:
// balance·(1+periodRate) + contribution. Contributions may be negative to
// model withdrawals. The result is clamped at zero: a depleted account stays
// empty rather than carrying an unrealistic negative balance forward.
func GrowStep(balance, periodRate, contribution float64) float64 {
	next := balance*(1+periodRate) + contribution
	if next < 0 {
		return 0
	}
	return next
}

// ProjectGrowth compounds an initial balance with a level per-period
// contribution at the chosen granularity, returning the balance after each
// of the first `periods` periods. A negative initial balance starts at zero.
func ProjectGrowth(initial, contributionPerPeriod, annualRate float64, periods int, g Granularity) []float64 {
	if periods <= 0 {
		return nil
	}
	rate := g.PeriodRate(annualRate)
	balance := initial
	if balance < 0 {
		balance = 0
	}

	out := make([]float64, periods)
	for p := 0; p < periods; p++ {
		balance = GrowStep(balance, rate, contributionPerPeriod)
		out[p] = balance
	}
	return out
}

// FutureValue returns the balance after `periods` periods of ProjectGrowth
func FutureValue(initial, contributionPerPeriod, annualRate float64, periods int, g Granularity) float64 {
	series := ProjectGrowth(initial, contributionPerPeriod, annualRate, periods, g)
	if len(series) == 0 {
		if initial < 0 {
			return 0
		}
		return initial
	}
	return series[len(series)-1]
}
