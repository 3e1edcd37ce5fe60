// Package taxdata bundles the state and federal tax tables the analysis
// layers resolve rates from. The data is static and ships with the binary;
// nothing here performs I/O.
package taxdata

import (
	"math"
	"strings"
)

// FilingStatus selects which federal bracket table applies.
type FilingStatus string

const (
	FilingSingle       FilingStatus = "single"
	FilingMarriedJoint FilingStatus = "married-joint"
)

// StateTax holds the bundled rates for one state (or DC).
type StateTax struct {
	Code            string  // Two-letter postal code (e.g. "IN")
	Name            string  // Full name (e.g. "Indiana")
	IncomeTaxRate   float64 // Top marginal state income tax as decimal (0.0323 = 3.23%)
	PropertyTaxRate float64 // Average effective property tax as decimal of home value
}

// FederalBracket is one federal income tax band. Upper is +Inf on the top band.
type FederalBracket struct {
	Lower float64
	Upper float64
	Rate  float64 // Marginal rate as decimal (0.22 = 22%)
}

// StateTaxes contains all fifty states plus DC.
// Income rates are top marginal state rates; property rates are average
// effective rates on home value. Data as of the 2024 tax year.
// Sources: Tax Foundation, Census Bureau ACS property tax medians.
var StateTaxes = []StateTax{
	{Code: "AL", Name: "Alabama", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0041},
	{Code: "AK", Name: "Alaska", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0119},
	{Code: "AZ", Name: "Arizona", IncomeTaxRate: 0.0450, PropertyTaxRate: 0.0066},
	{Code: "AR", Name: "Arkansas", IncomeTaxRate: 0.0590, PropertyTaxRate: 0.0063},
	{Code: "CA", Name: "California", IncomeTaxRate: 0.1330, PropertyTaxRate: 0.0075},
	{Code: "CO", Name: "Colorado", IncomeTaxRate: 0.0440, PropertyTaxRate: 0.0051},
	{Code: "CT", Name: "Connecticut", IncomeTaxRate: 0.0690, PropertyTaxRate: 0.0214},
	{Code: "DE", Name: "Delaware", IncomeTaxRate: 0.0660, PropertyTaxRate: 0.0057},
	{Code: "FL", Name: "Florida", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0083},
	{Code: "GA", Name: "Georgia", IncomeTaxRate: 0.0575, PropertyTaxRate: 0.0089},
	{Code: "HI", Name: "Hawaii", IncomeTaxRate: 0.1100, PropertyTaxRate: 0.0028},
	{Code: "ID", Name: "Idaho", IncomeTaxRate: 0.0600, PropertyTaxRate: 0.0069},
	{Code: "IL", Name: "Illinois", IncomeTaxRate: 0.0495, PropertyTaxRate: 0.0227},
	{Code: "IN", Name: "Indiana", IncomeTaxRate: 0.0323, PropertyTaxRate: 0.0087},
	{Code: "IA", Name: "Iowa", IncomeTaxRate: 0.0853, PropertyTaxRate: 0.0153},
	{Code: "KS", Name: "Kansas", IncomeTaxRate: 0.0570, PropertyTaxRate: 0.0141},
	{Code: "KY", Name: "Kentucky", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0086},
	{Code: "LA", Name: "Louisiana", IncomeTaxRate: 0.0600, PropertyTaxRate: 0.0055},
	{Code: "ME", Name: "Maine", IncomeTaxRate: 0.0715, PropertyTaxRate: 0.0128},
	{Code: "MD", Name: "Maryland", IncomeTaxRate: 0.0575, PropertyTaxRate: 0.0104},
	{Code: "MA", Name: "Massachusetts", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0104},
	{Code: "MI", Name: "Michigan", IncomeTaxRate: 0.0425, PropertyTaxRate: 0.0134},
	{Code: "MN", Name: "Minnesota", IncomeTaxRate: 0.0985, PropertyTaxRate: 0.0112},
	{Code: "MS", Name: "Mississippi", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0081},
	{Code: "MO", Name: "Missouri", IncomeTaxRate: 0.0540, PropertyTaxRate: 0.0097},
	{Code: "MT", Name: "Montana", IncomeTaxRate: 0.0690, PropertyTaxRate: 0.0083},
	{Code: "NE", Name: "Nebraska", IncomeTaxRate: 0.0684, PropertyTaxRate: 0.0173},
	{Code: "NV", Name: "Nevada", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0053},
	{Code: "NH", Name: "New Hampshire", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0218},
	{Code: "NJ", Name: "New Jersey", IncomeTaxRate: 0.1075, PropertyTaxRate: 0.0249},
	{Code: "NM", Name: "New Mexico", IncomeTaxRate: 0.0590, PropertyTaxRate: 0.0080},
	{Code: "NY", Name: "New York", IncomeTaxRate: 0.1090, PropertyTaxRate: 0.0140},
	{Code: "NC", Name: "North Carolina", IncomeTaxRate: 0.0499, PropertyTaxRate: 0.0084},
	{Code: "ND", Name: "North Dakota", IncomeTaxRate: 0.0290, PropertyTaxRate: 0.0098},
	{Code: "OH", Name: "Ohio", IncomeTaxRate: 0.0399, PropertyTaxRate: 0.0153},
	{Code: "OK", Name: "Oklahoma", IncomeTaxRate: 0.0500, PropertyTaxRate: 0.0090},
	{Code: "OR", Name: "Oregon", IncomeTaxRate: 0.0990, PropertyTaxRate: 0.0087},
	{Code: "PA", Name: "Pennsylvania", IncomeTaxRate: 0.0307, PropertyTaxRate: 0.0143},
	{Code: "RI", Name: "Rhode Island", IncomeTaxRate: 0.0599, PropertyTaxRate: 0.0153},
	{Code: "SC", Name: "South Carolina", IncomeTaxRate: 0.0700, PropertyTaxRate: 0.0057},
	{Code: "SD", Name: "South Dakota", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0117},
	{Code: "TN", Name: "Tennessee", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0066},
	{Code: "TX", Name: "Texas", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0180},
	{Code: "UT", Name: "Utah", IncomeTaxRate: 0.0485, PropertyTaxRate: 0.0060},
	{Code: "VT", Name: "Vermont", IncomeTaxRate: 0.0875, PropertyTaxRate: 0.0186},
	{Code: "VA", Name: "Virginia", IncomeTaxRate: 0.0575, PropertyTaxRate: 0.0082},
	{Code: "WA", Name: "Washington", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0087},
	{Code: "WV", Name: "West Virginia", IncomeTaxRate: 0.0650, PropertyTaxRate: 0.0059},
	{Code: "WI", Name: "Wisconsin", IncomeTaxRate: 0.0765, PropertyTaxRate: 0.0185},
	{Code: "WY", Name: "Wyoming", IncomeTaxRate: 0.0000, PropertyTaxRate: 0.0062},
	{Code: "DC", Name: "Washington DC", IncomeTaxRate: 0.0975, PropertyTaxRate: 0.0056},
}

// FederalBracketsSingle holds the 2024 single-filer brackets.
var FederalBracketsSingle = []FederalBracket{
	{Lower: 0, Upper: 11600, Rate: 0.10},
	{Lower: 11600, Upper: 47150, Rate: 0.12},
	{Lower: 47150, Upper: 100525, Rate: 0.22},
	{Lower: 100525, Upper: 191950, Rate: 0.24},
	{Lower: 191950, Upper: 243725, Rate: 0.32},
	{Lower: 243725, Upper: 609350, Rate: 0.35},
	{Lower: 609350, Upper: math.Inf(1), Rate: 0.37},
}

// FederalBracketsMarriedJoint holds the 2024 married-filing-jointly brackets.
var FederalBracketsMarriedJoint = []FederalBracket{
	{Lower: 0, Upper: 23200, Rate: 0.10},
	{Lower: 23200, Upper: 94300, Rate: 0.12},
	{Lower: 94300, Upper: 201050, Rate: 0.22},
	{Lower: 201050, Upper: 383900, Rate: 0.24},
	{Lower: 383900, Upper: 487450, Rate: 0.32},
	{Lower: 487450, Upper: 731200, Rate: 0.35},
	{Lower: 731200, Upper: math.Inf(1), Rate: 0.37},
}

// LookupState finds a state by postal code or full name, case-insensitive.
// Returns nil if not found.
func LookupState(state string) *StateTax {
	s := strings.TrimSpace(state)
	for i := range StateTaxes {
		if strings.EqualFold(StateTaxes[i].Code, s) || strings.EqualFold(StateTaxes[i].Name, s) {
			return &StateTaxes[i]
		}
	}
	return nil
}

// NationalAverage returns the unweighted mean of the bundled state rates.
// Used as the fallback when a state is unknown.
func NationalAverage() StateTax {
	var income, property float64
	for _, st := range StateTaxes {
		income += st.IncomeTaxRate
		property += st.PropertyTaxRate
	}
	n := float64(len(StateTaxes))
	return StateTax{
		Code:            "US",
		Name:            "National Average",
		IncomeTaxRate:   income / n,
		PropertyTaxRate: property / n,
	}
}

// BracketsFor returns the federal bracket table for a filing status.
// Unknown statuses get the single-filer table.
func BracketsFor(filing FilingStatus) []FederalBracket {
	if filing == FilingMarriedJoint {
		return FederalBracketsMarriedJoint
	}
	return FederalBracketsSingle
}

// NoIncomeTaxStates returns the states that levy no income tax.
func NoIncomeTaxStates() []StateTax {
	var out []StateTax
	for _, st := range StateTaxes {
		if st.IncomeTaxRate == 0 {
			out = append(out, st)
		}
	}
	return out
}
