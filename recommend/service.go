package recommend

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/krishisetu/agri-advisor/geodata"
	"github.com/krishisetu/agri-advisor/soil"
)

var (
	// ErrProfileIncomplete signals a farmer profile without village/state.
	ErrProfileIncomplete = errors.New("farmer profile missing village or state")
	// ErrUnavailable signals that no geocode could be produced at all.
	// The adapter guarantees a value, so hitting this is a defect.
	ErrUnavailable = errors.New("location data unavailable")
)

// Sources is the geophysical data adapter consumed by the orchestrator.
// Implementations never fail: every call yields a usable value, degrading to
// deterministic estimates internally.
type Sources interface {
	ResolveLocation(ctx context.Context, village, state string) geodata.Geocode
	FetchLandCover(ctx context.Context, lat, lon float64) geodata.LandCoverSample
	FetchSoilChemistry(ctx context.Context, lat, lon float64) geodata.SoilChemistrySample
}

// CacheEntry is the stored recommendation set for one farmer.
type CacheEntry struct {
	FarmerID  string    `json:"farmer_id"`
	Response  Response  `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Cache stores at most one live recommendation set per farmer. Get returns
// nil when no live entry exists; expired entries behave as absent. Put is an
// unconditional upsert. Invalidate is idempotent.
type Cache interface {
	Get(ctx context.Context, farmerID string) (*CacheEntry, error)
	Put(ctx context.Context, entry CacheEntry, ttl time.Duration) error
	Invalidate(ctx context.Context, farmerID string) error
}

// Request carries one recommendation computation's inputs. PrevCrops holds
// the farmer's last up-to-5 crops; it is reserved input, not yet weighted.
type Request struct {
	FarmerID     string
	Village      string
	State        string
	Language     string
	PrevCrops    []string
	ForceRefresh bool
	TopN         int
}

// Coordinates is a lat/lon pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SoilSummary is the response-facing view of the aggregated soil profile.
type SoilSummary struct {
	Type               string      `json:"type"`
	PH                 *float64    `json:"ph,omitempty"`
	Moisture           string      `json:"moisture"`
	Nitrogen           string      `json:"nitrogen"`
	Phosphorus         string      `json:"phosphorus"`
	Potassium          string      `json:"potassium"`
	OrganicCarbon      float64     `json:"organic_carbon"`
	Coordinates        Coordinates `json:"coordinates"`
	LandCoverEstimated bool        `json:"land_cover_estimated"`
	ChemistryEstimated bool        `json:"chemistry_estimated"`
}

// MarketInsights is an opaque static block assembled from catalog demand
// tiers. No live market integration backs it.
type MarketInsights struct {
	Trend        string   `json:"trend"`
	HighDemand   []string `json:"high_demand"`
	MediumDemand []string `json:"medium_demand"`
	Note         string   `json:"note"`
}

// Response is the complete recommendation payload for one farmer.
type Response struct {
	FarmerID        string                 `json:"farmer_id"`
	Village         string                 `json:"village"`
	State           string                 `json:"state"`
	Recommendations []ScoredRecommendation `json:"recommendations"`
	Soil            SoilSummary            `json:"soil_info"`
	MarketInsights  MarketInsights         `json:"market_insights"`
	Timestamp       time.Time              `json:"timestamp"`
	FromCache       bool                   `json:"from_cache"`
}

// Options configures a Service.
type Options struct {
	CacheTTL    time.Duration
	DefaultTopN int
	Now         func() time.Time
}

// Service orchestrates source resolution, aggregation, scoring and caching.
type Service struct {
	sources Sources
	cache   Cache
	catalog Catalog
	ttl     time.Duration
	topN    int
	now     func() time.Time
}

// NewService wires the orchestrator. The catalog must already be validated.
func NewService(sources Sources, cache Cache, catalog Catalog, opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.DefaultTopN <= 0 {
		opts.DefaultTopN = 5
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		sources: sources,
		cache:   cache,
		catalog: catalog,
		ttl:     opts.CacheTTL,
		topN:    opts.DefaultTopN,
		now:     opts.Now,
	}
}

// Recommend computes (or serves from cache) the ranked crop recommendations
// for one farmer.
func (s *Service) Recommend(ctx context.Context, req Request) (*Response, error) {
	if req.Village == "" || req.State == "" {
		return nil, ErrProfileIncomplete
	}

	topN := req.TopN
	if topN <= 0 {
		topN = s.topN
	}
	if topN > 10 {
		topN = 10
	}

	now := s.now().UTC()

	if !req.ForceRefresh {
		entry, err := s.cache.Get(ctx, req.FarmerID)
		if err != nil {
			log.Printf("recommend: cache read failed for %s, computing fresh: %v", req.FarmerID, err)
		} else if entry != nil && now.Before(entry.ExpiresAt) {
			resp := entry.Response
			resp.FromCache = true
			return &resp, nil
		}
	}

	geocode := s.sources.ResolveLocation(ctx, req.Village, req.State)
	if geocode.Lat == 0 && geocode.Lon == 0 {
		return nil, ErrUnavailable
	}

	// The two source calls are independent network fetches; issue them
	// concurrently and join before aggregation.
	var (
		landCover geodata.LandCoverSample
		chemistry geodata.SoilChemistrySample
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		landCover = s.sources.FetchLandCover(gctx, geocode.Lat, geocode.Lon)
		return nil
	})
	g.Go(func() error {
		chemistry = s.sources.FetchSoilChemistry(gctx, geocode.Lat, geocode.Lon)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		// Caller gone: discard partial results instead of caching them.
		return nil, err
	}

	profile := soil.Aggregate(landCover, chemistry, geocode.Lat, geocode.Lon)

	season := CurrentSeason(now)
	ranked := rank(s.catalog, profile, season, nil, req.Language)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	resp := Response{
		FarmerID:        req.FarmerID,
		Village:         geocode.Village,
		State:           geocode.State,
		Recommendations: ranked,
		Soil: SoilSummary{
			Type:               profile.SoilType,
			PH:                 profile.PH,
			Moisture:           profile.Moisture,
			Nitrogen:           profile.Nitrogen,
			Phosphorus:         profile.Phosphorus,
			Potassium:          profile.Potassium,
			OrganicCarbon:      profile.OrganicCarbon,
			Coordinates:        Coordinates{Lat: profile.Lat, Lon: profile.Lon},
			LandCoverEstimated: profile.LandCoverEstimated,
			ChemistryEstimated: profile.ChemistryEstimated,
		},
		MarketInsights: s.marketInsights(),
		Timestamp:      now,
		FromCache:      false,
	}

	entry := CacheEntry{
		FarmerID:  req.FarmerID,
		Response:  resp,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.cache.Put(ctx, entry, s.ttl); err != nil {
		log.Printf("recommend: cache write failed for %s: %v", req.FarmerID, err)
	}

	return &resp, nil
}

// InvalidateCache removes the farmer's cached recommendation set.
func (s *Service) InvalidateCache(ctx context.Context, farmerID string) error {
	return s.cache.Invalidate(ctx, farmerID)
}

// LastCached returns the live cached recommendation set, or nil when none
// exists.
func (s *Service) LastCached(ctx context.Context, farmerID string) (*CacheEntry, error) {
	return s.cache.Get(ctx, farmerID)
}

// marketInsights assembles the static market block from catalog demand tiers.
func (s *Service) marketInsights() MarketInsights {
	insights := MarketInsights{
		Trend: "stable",
		Note:  "Demand tiers are reference data; no live market feed is integrated",
	}
	for _, crop := range s.catalog {
		switch crop.MarketDemand {
		case "High":
			insights.HighDemand = append(insights.HighDemand, crop.Name)
		case "Medium":
			insights.MediumDemand = append(insights.MediumDemand, crop.Name)
		}
	}
	return insights
}
