package taxdata

import (
	"math"
	"testing"
)

// ============================================================================
// Bundled catalog
// ============================================================================

func TestStateTaxes_CatalogShape(t *testing.T) {
	if len(StateTaxes) != 51 {
		t.Errorf("Expected 50 states + DC = 51 entries, got %d", len(StateTaxes))
	}

	seenCode := make(map[string]bool)
	seenName := make(map[string]bool)
	for _, st := range StateTaxes {
		if len(st.Code) != 2 {
			t.Errorf("State %s: code %q is not two letters", st.Name, st.Code)
		}
		if seenCode[st.Code] {
			t.Errorf("Duplicate state code %q", st.Code)
		}
		if seenName[st.Name] {
			t.Errorf("Duplicate state name %q", st.Name)
		}
		seenCode[st.Code] = true
		seenName[st.Name] = true

		if st.IncomeTaxRate < 0 || st.IncomeTaxRate > 0.15 {
			t.Errorf("State %s: income tax rate %.4f outside plausible range", st.Name, st.IncomeTaxRate)
		}
		if st.PropertyTaxRate < 0.002 || st.PropertyTaxRate > 0.03 {
			t.Errorf("State %s: property tax rate %.4f outside plausible range", st.Name, st.PropertyTaxRate)
		}
	}
}

func TestStateTaxes_KnownRates(t *testing.T) {
	tests := []struct {
		state        string
		incomeRate   float64
		propertyRate float64
	}{
		{"Indiana", 0.0323, 0.0087},
		{"California", 0.1330, 0.0075},
		{"Texas", 0.0000, 0.0180},
		{"New Jersey", 0.1075, 0.0249},
		{"Hawaii", 0.1100, 0.0028},
	}

	for _, tc := range tests {
		st := LookupState(tc.state)
		if st == nil {
			t.Fatalf("State %s missing from catalog", tc.state)
		}
		if st.IncomeTaxRate != tc.incomeRate {
			t.Errorf("%s income tax: expected %.4f, got %.4f", tc.state, tc.incomeRate, st.IncomeTaxRate)
		}
		if st.PropertyTaxRate != tc.propertyRate {
			t.Errorf("%s property tax: expected %.4f, got %.4f", tc.state, tc.propertyRate, st.PropertyTaxRate)
		}
	}
}

func TestLookupState_CodeNameAndCase(t *testing.T) {
	tests := []struct {
		description string
		query       string
		wantCode    string
	}{
		{"postal code", "IN", "IN"},
		{"full name", "Indiana", "IN"},
		{"lowercase code", "ca", "CA"},
		{"lowercase name", "california", "CA"},
		{"surrounding whitespace", "  TX  ", "TX"},
		{"district of columbia", "Washington DC", "DC"},
	}

	for _, tc := range tests {
		st := LookupState(tc.query)
		if st == nil {
			t.Errorf("%s: LookupState(%q) returned nil", tc.description, tc.query)
			continue
		}
		if st.Code != tc.wantCode {
			t.Errorf("%s: LookupState(%q) = %s, expected %s", tc.description, tc.query, st.Code, tc.wantCode)
		}
	}
}

func TestLookupState_UnknownReturnsNil(t *testing.T) {
	for _, query := range []string{"Puerto Rico", "ZZ", ""} {
		if st := LookupState(query); st != nil {
			t.Errorf("LookupState(%q) = %s, expected nil", query, st.Code)
		}
	}
}

func TestNoIncomeTaxStates(t *testing.T) {
	states := NoIncomeTaxStates()
	if len(states) != 8 {
		t.Errorf("Expected 8 no-income-tax states, got %d", len(states))
	}
	for _, st := range states {
		if st.IncomeTaxRate != 0 {
			t.Errorf("State %s listed as no-income-tax but rate is %.4f", st.Name, st.IncomeTaxRate)
		}
	}
}

func TestNationalAverage_IsCatalogMean(t *testing.T) {
	avg := NationalAverage()

	if avg.Code != "US" {
		t.Errorf("Expected code US, got %s", avg.Code)
	}
	if avg.IncomeTaxRate < 0.050 || avg.IncomeTaxRate > 0.060 {
		t.Errorf("National average income tax %.4f outside expected band", avg.IncomeTaxRate)
	}
	if avg.PropertyTaxRate < 0.009 || avg.PropertyTaxRate > 0.012 {
		t.Errorf("National average property tax %.4f outside expected band", avg.PropertyTaxRate)
	}

	t.Logf("National averages: income %.2f%%, property %.2f%%",
		avg.IncomeTaxRate*100, avg.PropertyTaxRate*100)
}

// ============================================================================
// Federal brackets
// ============================================================================

func TestFederalBrackets_Contiguous(t *testing.T) {
	tables := map[string][]FederalBracket{
		"single":        FederalBracketsSingle,
		"married-joint": FederalBracketsMarriedJoint,
	}

	for name, brackets := range tables {
		if len(brackets) != 7 {
			t.Errorf("%s: expected 7 brackets, got %d", name, len(brackets))
		}
		if brackets[0].Lower != 0 {
			t.Errorf("%s: first bracket starts at %.0f, expected 0", name, brackets[0].Lower)
		}
		if !math.IsInf(brackets[len(brackets)-1].Upper, 1) {
			t.Errorf("%s: top bracket upper bound should be +Inf", name)
		}
		for i := 1; i < len(brackets); i++ {
			if brackets[i].Lower != brackets[i-1].Upper {
				t.Errorf("%s: bracket %d lower %.0f does not meet previous upper %.0f",
					name, i, brackets[i].Lower, brackets[i-1].Upper)
			}
			if brackets[i].Rate <= brackets[i-1].Rate {
				t.Errorf("%s: bracket rates should increase, %.2f then %.2f",
					name, brackets[i-1].Rate, brackets[i].Rate)
			}
		}
	}
}

func TestBracketsFor_FilingStatus(t *testing.T) {
	if got := BracketsFor(FilingMarriedJoint); got[1].Upper != 94300 {
		t.Errorf("Married-joint second bracket upper: expected 94300, got %.0f", got[1].Upper)
	}
	if got := BracketsFor(FilingSingle); got[1].Upper != 47150 {
		t.Errorf("Single second bracket upper: expected 47150, got %.0f", got[1].Upper)
	}
	if got := BracketsFor(FilingStatus("unknown")); got[1].Upper != 47150 {
		t.Errorf("Unknown filing status should get the single table")
	}
}
