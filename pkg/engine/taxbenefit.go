package engine

// DeductionValue prices a year of mortgage interest as a tax benefit:
// interest times the combined marginal rate. The combined rate (state +
// federal) is resolved by the caller from a tax-rate snapshot; no lookup
// happens here. Full interest is treated as deductible; there is no
// standard-deduction comparison (CostModel.Deduction is the opt-out).
func DeductionValue(interestPaid, combinedMarginalRate float64) float64 {
	if interestPaid <= 0 {
		return 0
	}
	return interestPaid * combinedMarginalRate
}

// deductionValueFor applies the cost model's deduction policy
func (c CostModel) deductionValueFor(interestPaid, combinedMarginalRate float64) float64 {
	if c.Deduction == DeductNone {
		return 0
	}
	return DeductionValue(interestPaid, combinedMarginalRate)
}
