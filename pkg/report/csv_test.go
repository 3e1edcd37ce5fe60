package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeinlake/know-your-mortgage/pkg/engine"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteScheduleCSV(t *testing.T) {
	rows, err := engine.Schedule(400000, 0.061, 30)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteScheduleCSV(&buf, rows))

	records := parseCSV(t, &buf)
	require.Len(t, records, 361) // header + 360 months
	assert.Equal(t, []string{"period", "payment", "principal", "interest", "balance"}, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "0.00", records[360][4], "final balance is exactly zero")
}

func TestWriteYearlyCSV(t *testing.T) {
	sc, err := engine.NewMortgageScenario(500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.0087, 0.25)
	require.NoError(t, err)
	years := engine.NewEngine(engine.DefaultCostModel()).AnalyzeScenario(sc, 30)

	var buf bytes.Buffer
	require.NoError(t, WriteYearlyCSV(&buf, years))

	records := parseCSV(t, &buf)
	require.Len(t, records, 31)
	assert.Equal(t, "year", records[0][0])
	assert.Equal(t, "net_worth_real", records[0][9])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "30", records[30][0])
	for _, record := range records {
		assert.Len(t, record, 10)
	}
}

func TestWriteComparisonCSV(t *testing.T) {
	sc, err := engine.NewMortgageScenario(500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.0087, 0.25)
	require.NoError(t, err)
	rent, err := engine.NewRentScenario(2650, 0.03, 15, 30)
	require.NoError(t, err)

	outcomes, err := engine.NewEngine(engine.DefaultCostModel()).CompareStrategies(sc, &rent, 30)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteComparisonCSV(&buf, outcomes))

	records := parseCSV(t, &buf)
	require.Len(t, records, len(outcomes)+1)
	assert.Equal(t, "rank", records[0][0])
	assert.Equal(t, "1", records[1][0], "first data row is the winner")
	assert.Equal(t, outcomes[0].Label, records[1][1])
}

func TestWriteRentVsBuyCSV(t *testing.T) {
	sc, err := engine.NewMortgageScenario(500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.0087, 0.25)
	require.NoError(t, err)
	rent, err := engine.NewRentScenario(2650, 0.03, 15, 30)
	require.NoError(t, err)

	res := engine.NewEngine(engine.DefaultCostModel()).CompareRentVsBuy(sc, rent)

	var buf bytes.Buffer
	require.NoError(t, WriteRentVsBuyCSV(&buf, res))

	records := parseCSV(t, &buf)
	require.Len(t, records, 31)
	assert.Equal(t, []string{"year", "buy_net_worth", "rent_net_worth", "difference"}, records[0])
	assert.Equal(t, "30", records[30][0])
}

func TestWriteSensitivityCSV(t *testing.T) {
	sc, err := engine.NewMortgageScenario(500000, 100000, 0.061, 30, 0.07, 0.03, 0.04, 0.0087, 0.25)
	require.NoError(t, err)
	rent, err := engine.NewRentScenario(2650, 0.03, 15, 30)
	require.NoError(t, err)

	grid, err := engine.NewEngine(engine.DefaultCostModel()).RunSensitivity(sc, rent,
		engine.SensitivityRange{Min: 0.06, Max: 0.08, Step: 0.01},
		engine.SensitivityRange{Min: 0.03, Max: 0.05, Step: 0.01})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSensitivityCSV(&buf, grid))

	records := parseCSV(t, &buf)
	require.Len(t, records, 10) // header + 3x3 cells
	assert.Equal(t, "stock_return_rate", records[0][0])
	assert.Equal(t, "0.0600", records[1][0])
	assert.Equal(t, "0.0300", records[1][1])
}
