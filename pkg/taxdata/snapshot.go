package taxdata

import "strings"

// RateSnapshot is the resolved tax context for one analysis: the state's
// rates plus the federal bracket table for the filing status. Callers
// resolve it once and pass it down; the analysis layers treat it as
// read-only.
type RateSnapshot struct {
	State        StateTax
	FilingStatus FilingStatus
	Brackets     []FederalBracket
}

// ParseFilingStatus normalizes a user-supplied filing status string.
// Anything unrecognized resolves to single.
func ParseFilingStatus(s string) FilingStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "married-joint", "married", "joint", "mfj":
		return FilingMarriedJoint
	default:
		return FilingSingle
	}
}

// Resolve builds the rate snapshot for a state and filing status.
// Unknown states fall back to the national average rates rather than
// failing; an analysis should not abort because a state string was
// misspelled.
func Resolve(state, filingStatus string) RateSnapshot {
	filing := ParseFilingStatus(filingStatus)
	st := LookupState(state)
	if st == nil {
		return RateSnapshot{
			State:        NationalAverage(),
			FilingStatus: filing,
			Brackets:     BracketsFor(filing),
		}
	}
	return RateSnapshot{
		State:        *st,
		FilingStatus: filing,
		Brackets:     BracketsFor(filing),
	}
}

// FederalMarginalRate returns the federal marginal rate for a given income.
func (s RateSnapshot) FederalMarginalRate(income float64) float64 {
	if income <= 0 {
		return 0
	}
	for _, b := range s.Brackets {
		if income >= b.Lower && income < b.Upper {
			return b.Rate
		}
	}
	if len(s.Brackets) > 0 {
		return s.Brackets[len(s.Brackets)-1].Rate
	}
	return 0
}

// CombinedMarginalRate returns the federal marginal rate plus the state
// income rate. This is the rate a mortgage interest deduction saves at,
// and what scenario tax brackets are resolved from.
func (s RateSnapshot) CombinedMarginalRate(income float64) float64 {
	return s.FederalMarginalRate(income) + s.State.IncomeTaxRate
}
