package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// ErrExternalDataUnavailable marks failures of optional external lookups.
// Callers are expected to fall back to bundled data rather than abort.
var ErrExternalDataUnavailable = errors.New("external market data unavailable")

const (
	censusBaseURL = "https://api.census.gov/data"
	censusTimeout = 10 * time.Second

	// ACS 5-year data profile variables
	varPopulation   = "DP05_0033E"
	varMedianIncome = "DP03_0062E"
)

// Data source labels reported alongside demographic context.
const (
	SourceCensusAPI  = "Census API"
	SourceSampleData = "Sample Data"
)

// DefaultCensusYears are the survey years fetched when none are given.
// ACS 5-year profiles lag a couple of years behind the calendar.
var DefaultCensusYears = []int{2019, 2020, 2021, 2022}

// Place identifies a city in Census geography terms.
type Place struct {
	Name      string
	StateFIPS string
	PlaceFIPS string
}

// DefaultPlaces are the two reference markets reports compare.
var DefaultPlaces = []Place{
	{Name: "Carmel", StateFIPS: "18", PlaceFIPS: "10342"},
	{Name: "Fishers", StateFIPS: "18", PlaceFIPS: "23278"},
}

// Demographics is one place-year observation.
type Demographics struct {
	Place        string `json:"place"`
	Year         int    `json:"year"`
	Population   int    `json:"population"`
	MedianIncome int    `json:"median_income"`
}

// CensusConfig configures the demographics client. Zero values get
// sensible defaults; an empty APIKey disables live fetching entirely.
type CensusConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Cache   Cache
}

// CensusClient fetches ACS demographic data with a cache in front and the
// bundled samples behind it.
type CensusClient struct {
	http   *resty.Client
	apiKey string
	cache  Cache
}

func NewCensusClient(cfg CensusConfig) *CensusClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = censusBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = censusTimeout
	}
	if cfg.Cache == nil {
		cfg.Cache = NewMemoryCache()
	}

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &CensusClient{
		http:   client,
		apiKey: cfg.APIKey,
		cache:  cfg.Cache,
	}
}

// FetchDemographics returns one place-year observation, from cache when
// possible. Failures wrap ErrExternalDataUnavailable.
func (c *CensusClient) FetchDemographics(ctx context.Context, place Place, year int) (Demographics, error) {
	key := fmt.Sprintf("census:%s:%s:%d", place.StateFIPS, place.PlaceFIPS, year)
	if raw, ok := c.cache.Get(ctx, key); ok {
		var d Demographics
		if err := json.Unmarshal([]byte(raw), &d); err == nil {
			return d, nil
		}
	}

	if c.apiKey == "" {
		return Demographics{}, fmt.Errorf("no census api key configured: %w", ErrExternalDataUnavailable)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"get": varPopulation + "," + varMedianIncome,
			"for": "place:" + place.PlaceFIPS,
			"in":  "state:" + place.StateFIPS,
			"key": c.apiKey,
		}).
		Get(fmt.Sprintf("/%d/acs/acs5/profile", year))
	if err != nil {
		return Demographics{}, fmt.Errorf("census request for %s %d failed: %w", place.Name, year, ErrExternalDataUnavailable)
	}
	if resp.IsError() {
		return Demographics{}, fmt.Errorf("census returned %s for %s %d: %w", resp.Status(), place.Name, year, ErrExternalDataUnavailable)
	}

	d, err := parseCensusResponse(resp.Body(), place.Name, year)
	if err != nil {
		return Demographics{}, err
	}

	if encoded, err := json.Marshal(d); err == nil {
		_ = c.cache.Set(ctx, key, string(encoded), DemographicsTTL)
	}
	return d, nil
}

// parseCensusResponse decodes the ACS array-of-arrays format: the first
// row is variable headers, the second the values for the requested place.
func parseCensusResponse(body []byte, placeName string, year int) (Demographics, error) {
	var rows [][]string
	if err := json.Unmarshal(body, &rows); err != nil {
		return Demographics{}, fmt.Errorf("census response for %s %d not parseable: %w", placeName, year, ErrExternalDataUnavailable)
	}
	if len(rows) < 2 {
		return Demographics{}, fmt.Errorf("census returned no data for %s %d: %w", placeName, year, ErrExternalDataUnavailable)
	}

	headers, values := rows[0], rows[1]
	population, err := censusIntField(headers, values, varPopulation)
	if err != nil {
		return Demographics{}, fmt.Errorf("%s %d: %w", placeName, year, err)
	}
	income, err := censusIntField(headers, values, varMedianIncome)
	if err != nil {
		return Demographics{}, fmt.Errorf("%s %d: %w", placeName, year, err)
	}

	return Demographics{
		Place:        placeName,
		Year:         year,
		Population:   population,
		MedianIncome: income,
	}, nil
}

func censusIntField(headers, values []string, variable string) (int, error) {
	for i, h := range headers {
		if h != variable {
			continue
		}
		if i >= len(values) {
			break
		}
		n, err := strconv.Atoi(values[i])
		if err != nil {
			return 0, fmt.Errorf("variable %s value %q not numeric: %w", variable, values[i], ErrExternalDataUnavailable)
		}
		return n, nil
	}
	return 0, fmt.Errorf("variable %s missing from census response: %w", variable, ErrExternalDataUnavailable)
}

// DemographicContext fetches observations for the given places and years,
// falling back to the bundled samples on the first failure so callers
// always get a usable series. The returned label names the source used.
func (c *CensusClient) DemographicContext(ctx context.Context, places []Place, years []int) ([]Demographics, string) {
	if len(places) == 0 {
		places = DefaultPlaces
	}
	if len(years) == 0 {
		years = DefaultCensusYears
	}
	logger := zerolog.Ctx(ctx)

	var out []Demographics
	for _, place := range places {
		for _, year := range years {
			d, err := c.FetchDemographics(ctx, place, year)
			if err != nil {
				logger.Warn().
					Err(err).
					Str("place", place.Name).
					Int("year", year).
					Msg("census fetch failed, using sample data")
				return bundledContext(places, years), SourceSampleData
			}
			out = append(out, d)
		}
	}
	return out, SourceCensusAPI
}

func bundledContext(places []Place, years []int) []Demographics {
	var out []Demographics
	for _, place := range places {
		out = append(out, sampleFor(place.Name, years)...)
	}
	return out
}
