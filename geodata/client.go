package geodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Degradation classes. An unreachable provider and a provider that answered
// with garbage both end in the same fallback, but they are logged apart so a
// parsing bug is not mistaken for an outage.
var (
	errUnreachable = errors.New("provider unreachable")
	errUnusable    = errors.New("unusable payload")
)

// ClientConfig carries provider endpoints and credentials for the adapter.
type ClientConfig struct {
	BhuvanBaseURL      string
	BhuvanGeocodeToken string
	BhuvanLULCToken    string

	// SoilGridsURL empty disables the chemistry provider entirely.
	SoilGridsURL string

	Timeout time.Duration
}

// Client fetches geocode, land-cover and soil-chemistry data. Every operation
// is guaranteed to return a usable value: missing credentials or any provider
// failure degrade to a deterministic estimate carrying a fallback marker.
type Client struct {
	cfg   ClientConfig
	httpc *http.Client
}

// NewClient builds an adapter from the given provider configuration.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
	}
}

// ResolveLocation resolves a village/state pair to coordinates.
func (c *Client) ResolveLocation(ctx context.Context, village, state string) Geocode {
	if c.cfg.BhuvanGeocodeToken == "" {
		log.Printf("geodata: no geocode token, using fallback for %s, %s", village, state)
		return FallbackGeocode(village, state)
	}

	geo, err := c.fetchGeocode(ctx, village, state)
	if err != nil {
		logDegraded("bhuvan geocode", err)
		return FallbackGeocode(village, state)
	}
	return geo
}

// FetchLandCover returns land use / land cover attributes for a coordinate.
func (c *Client) FetchLandCover(ctx context.Context, lat, lon float64) LandCoverSample {
	if c.cfg.BhuvanLULCToken == "" {
		log.Printf("geodata: no LULC token, using fallback for %.4f, %.4f", lat, lon)
		return FallbackLandCover()
	}

	sample, err := c.fetchLandCover(ctx, lat, lon)
	if err != nil {
		logDegraded("bhuvan lulc", err)
		return FallbackLandCover()
	}
	return sample
}

// FetchSoilChemistry returns chemical soil properties for a coordinate.
func (c *Client) FetchSoilChemistry(ctx context.Context, lat, lon float64) SoilChemistrySample {
	if c.cfg.SoilGridsURL == "" {
		log.Printf("geodata: soilgrids disabled, using fallback for %.4f, %.4f", lat, lon)
		return FallbackSoilChemistry()
	}

	sample, err := c.fetchSoilChemistry(ctx, lat, lon)
	if err != nil {
		logDegraded("soilgrids", err)
		return FallbackSoilChemistry()
	}
	return sample
}

func (c *Client) fetchGeocode(ctx context.Context, village, state string) (Geocode, error) {
	params := url.Values{}
	params.Set("village", village)
	params.Set("state", state)
	params.Set("format", "json")

	var results []bhuvanGeocodeResult
	if err := c.getJSON(ctx, c.cfg.BhuvanBaseURL+"/geocode?"+params.Encode(), c.cfg.BhuvanGeocodeToken, &results); err != nil {
		return Geocode{}, err
	}
	if len(results) == 0 {
		return Geocode{}, fmt.Errorf("%w: empty geocode result", errUnusable)
	}

	first := results[0]
	geo := Geocode{
		Lat:      first.Lat,
		Lon:      first.Lon,
		Village:  first.DisplayName,
		District: first.District,
		State:    first.State,
	}
	if geo.Village == "" {
		geo.Village = village
	}
	if geo.State == "" {
		geo.State = state
	}
	return geo, nil
}

func (c *Client) fetchLandCover(ctx context.Context, lat, lon float64) (LandCoverSample, error) {
	params := url.Values{}
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	params.Set("buffer", "500")
	params.Set("format", "json")

	var result bhuvanLULCResult
	if err := c.getJSON(ctx, c.cfg.BhuvanBaseURL+"/lulc/query?"+params.Encode(), c.cfg.BhuvanLULCToken, &result); err != nil {
		return LandCoverSample{}, err
	}
	if result.SoilType == "" && result.LandUse == "" {
		return LandCoverSample{}, fmt.Errorf("%w: empty lulc result", errUnusable)
	}

	// Providers may omit individual attributes; missing ones take the same
	// constants the full fallback uses so the sample is always complete.
	sample := LandCoverSample{
		SoilType:        result.SoilType,
		LandUse:         result.LandUse,
		VegetationIndex: 0.5,
		SoilMoisture:    result.Moisture,
		ElevationM:      300,
	}
	if sample.SoilType == "" {
		sample.SoilType = "loamy"
	}
	if sample.LandUse == "" {
		sample.LandUse = "agricultural"
	}
	if sample.SoilMoisture == "" {
		sample.SoilMoisture = "medium"
	}
	if result.NDVI != nil {
		sample.VegetationIndex = *result.NDVI
	}
	if result.Elevation != nil {
		sample.ElevationM = *result.Elevation
	}
	return sample, nil
}

func (c *Client) fetchSoilChemistry(ctx context.Context, lat, lon float64) (SoilChemistrySample, error) {
	params := url.Values{}
	params.Set("lat", formatCoord(lat))
	params.Set("lon", formatCoord(lon))
	for _, prop := range []string{"phh2o", "soc", "nitrogen"} {
		params.Add("property", prop)
	}
	params.Set("depth", "0-5cm")
	params.Set("value", "mean")

	var payload soilGridsResponse
	if err := c.getJSON(ctx, c.cfg.SoilGridsURL+"/properties/query?"+params.Encode(), "", &payload); err != nil {
		return SoilChemistrySample{}, err
	}
	if len(payload.Properties.Layers) == 0 {
		return SoilChemistrySample{}, fmt.Errorf("%w: no soilgrids layers", errUnusable)
	}

	sample := SoilChemistrySample{
		OrganicCarbon: 1.2,
		Nitrogen:      "medium",
		Phosphorus:    "medium",
		Potassium:     "medium",
	}
	parsed := false
	for _, layer := range payload.Properties.Layers {
		if len(layer.Depths) == 0 || layer.Depths[0].Values.Mean == nil {
			continue
		}
		mean := *layer.Depths[0].Values.Mean
		switch layer.Name {
		case "phh2o":
			ph := mean / 10 // SoilGrids reports pH*10
			sample.PH = &ph
			parsed = true
		case "soc":
			sample.OrganicCarbon = mean / 10 // dg/kg -> %
			parsed = true
		case "nitrogen":
			sample.Nitrogen = nitrogenTier(mean)
			parsed = true
		}
	}
	if !parsed {
		return SoilChemistrySample{}, fmt.Errorf("%w: no usable soilgrids values", errUnusable)
	}
	return sample, nil
}

// nitrogenTier buckets SoilGrids total nitrogen (cg/kg) into a level.
func nitrogenTier(value float64) string {
	switch {
	case value > 2000:
		return "high"
	case value > 1000:
		return "medium"
	default:
		return "low"
	}
}

// getJSON performs one bounded GET and decodes the JSON body into dest.
func (c *Client) getJSON(ctx context.Context, rawURL, bearer string, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", errUnreachable, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", errUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %s", errUnreachable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decode: %v", errUnusable, err)
	}
	return nil
}

func logDegraded(op string, err error) {
	if errors.Is(err, errUnusable) {
		log.Printf("geodata: %s returned unusable data, using fallback: %v", op, err)
		return
	}
	log.Printf("geodata: %s unavailable, using fallback: %v", op, err)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
