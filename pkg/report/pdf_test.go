package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAnalysisPDF(t *testing.T) {
	a := testAnalysis(t)

	data, err := GenerateAnalysisPDF(a)
	require.NoError(t, err)

	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF-", string(data[:5]))
	assert.Greater(t, len(data), 5000, "a full document with all sections is several pages")
}

func TestGenerateAnalysisPDF_MinimalSections(t *testing.T) {
	a := testAnalysis(t)
	a.RentVsBuy = nil
	a.Affordability = nil

	full := testAnalysis(t)
	fullData, err := GenerateAnalysisPDF(full)
	require.NoError(t, err)

	minData, err := GenerateAnalysisPDF(a)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-", string(minData[:5]))
	assert.Less(t, len(minData), len(fullData), "optional sections add pages")
}
