package recommend

import "fmt"

// CropProfile is the static reference record for one catalog crop. Profiles
// are validated once at startup and shared read-only by all scoring calls.
type CropProfile struct {
	Name      string
	NameHindi string

	PHMin    float64
	PHMax    float64
	TempMinC float64
	TempMaxC float64

	WaterNeed    string // Low, Medium or High
	DurationDays int
	Seasons      []Season

	NitrogenKgPerHa  float64
	ProfitPerHectare float64
	YieldPerHectare  float64
	Sustainability   float64 // fixed 0-10 rating

	MarketDemand string // High, Medium or Low
}

// Catalog is an ordered set of crop profiles. Catalog order is significant:
// it breaks ties between equal suitability scores.
type Catalog []CropProfile

// allSeasons marks year-round crops.
var allSeasons = []Season{SeasonKharif, SeasonRabi, SeasonSummer}

// DefaultCatalog returns the built-in crop reference data.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name: "Rice", NameHindi: "धान",
			PHMin: 5.5, PHMax: 7.0, TempMinC: 20, TempMaxC: 35,
			WaterNeed: "High", DurationDays: 120,
			Seasons:         []Season{SeasonKharif, SeasonRabi},
			NitrogenKgPerHa: 120, ProfitPerHectare: 45000, YieldPerHectare: 4.0,
			Sustainability: 7.0, MarketDemand: "High",
		},
		{
			Name: "Wheat", NameHindi: "गेहूं",
			PHMin: 6.0, PHMax: 7.5, TempMinC: 15, TempMaxC: 25,
			WaterNeed: "Medium", DurationDays: 120,
			Seasons:         []Season{SeasonRabi},
			NitrogenKgPerHa: 100, ProfitPerHectare: 65000, YieldPerHectare: 4.5,
			Sustainability: 8.5, MarketDemand: "High",
		},
		{
			Name: "Sugarcane", NameHindi: "गन्ना",
			PHMin: 6.0, PHMax: 7.5, TempMinC: 25, TempMaxC: 35,
			WaterNeed: "High", DurationDays: 365,
			Seasons:         allSeasons,
			NitrogenKgPerHa: 200, ProfitPerHectare: 120000, YieldPerHectare: 70.0,
			Sustainability: 6.0, MarketDemand: "Medium",
		},
		{
			Name: "Cotton", NameHindi: "कपास",
			PHMin: 6.0, PHMax: 8.0, TempMinC: 21, TempMaxC: 30,
			WaterNeed: "Medium", DurationDays: 180,
			Seasons:         []Season{SeasonKharif},
			NitrogenKgPerHa: 120, ProfitPerHectare: 55000, YieldPerHectare: 2.5,
			Sustainability: 6.5, MarketDemand: "Medium",
		},
		{
			Name: "Maize", NameHindi: "मक्का",
			PHMin: 5.5, PHMax: 7.0, TempMinC: 20, TempMaxC: 30,
			WaterNeed: "Medium", DurationDays: 90,
			Seasons:         []Season{SeasonKharif, SeasonRabi},
			NitrogenKgPerHa: 150, ProfitPerHectare: 40000, YieldPerHectare: 3.5,
			Sustainability: 8.0, MarketDemand: "Medium",
		},
		{
			Name: "Groundnut", NameHindi: "मूंगफली",
			PHMin: 6.0, PHMax: 7.0, TempMinC: 25, TempMaxC: 30,
			WaterNeed: "Low", DurationDays: 120,
			Seasons:         []Season{SeasonKharif},
			NitrogenKgPerHa: 25, ProfitPerHectare: 50000, YieldPerHectare: 2.0,
			Sustainability: 9.0, MarketDemand: "Low",
		},
		{
			Name: "Pulses", NameHindi: "दालें",
			PHMin: 6.0, PHMax: 7.5, TempMinC: 20, TempMaxC: 30,
			WaterNeed: "Low", DurationDays: 90,
			Seasons:         []Season{SeasonRabi},
			NitrogenKgPerHa: 20, ProfitPerHectare: 35000, YieldPerHectare: 1.5,
			Sustainability: 9.5, MarketDemand: "Low",
		},
		{
			Name: "Potato", NameHindi: "आलू",
			PHMin: 5.0, PHMax: 6.5, TempMinC: 15, TempMaxC: 25,
			WaterNeed: "Medium", DurationDays: 90,
			Seasons:         []Season{SeasonRabi},
			NitrogenKgPerHa: 120, ProfitPerHectare: 80000, YieldPerHectare: 25.0,
			Sustainability: 7.5, MarketDemand: "High",
		},
		{
			Name: "Tomato", NameHindi: "टमाटर",
			PHMin: 6.0, PHMax: 7.0, TempMinC: 18, TempMaxC: 27,
			WaterNeed: "Medium", DurationDays: 120,
			Seasons:         []Season{SeasonRabi, SeasonSummer},
			NitrogenKgPerHa: 100, ProfitPerHectare: 90000, YieldPerHectare: 30.0,
			Sustainability: 7.0, MarketDemand: "High",
		},
		{
			Name: "Onion", NameHindi: "प्याज",
			PHMin: 6.0, PHMax: 7.0, TempMinC: 20, TempMaxC: 30,
			WaterNeed: "Medium", DurationDays: 120,
			Seasons:         []Season{SeasonKharif, SeasonRabi},
			NitrogenKgPerHa: 100, ProfitPerHectare: 70000, YieldPerHectare: 20.0,
			Sustainability: 7.5, MarketDemand: "High",
		},
	}
}

var validWaterNeeds = map[string]bool{"Low": true, "Medium": true, "High": true}

// Validate checks catalog invariants. Run once at startup; the catalog is
// treated as immutable afterwards.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog is empty")
	}
	seen := make(map[string]bool, len(c))
	for _, crop := range c {
		if crop.Name == "" {
			return fmt.Errorf("catalog crop with empty name")
		}
		if seen[crop.Name] {
			return fmt.Errorf("%s: duplicate catalog entry", crop.Name)
		}
		seen[crop.Name] = true
		if crop.PHMin > crop.PHMax {
			return fmt.Errorf("%s: pH interval inverted (%.1f > %.1f)", crop.Name, crop.PHMin, crop.PHMax)
		}
		if crop.TempMinC > crop.TempMaxC {
			return fmt.Errorf("%s: temperature interval inverted (%.1f > %.1f)", crop.Name, crop.TempMinC, crop.TempMaxC)
		}
		if crop.DurationDays <= 0 {
			return fmt.Errorf("%s: non-positive duration", crop.Name)
		}
		if crop.Sustainability < 0 || crop.Sustainability > 10 {
			return fmt.Errorf("%s: sustainability %.1f outside [0,10]", crop.Name, crop.Sustainability)
		}
		if crop.NitrogenKgPerHa < 0 {
			return fmt.Errorf("%s: negative nitrogen requirement", crop.Name)
		}
		if len(crop.Seasons) == 0 {
			return fmt.Errorf("%s: no applicable seasons", crop.Name)
		}
		if !validWaterNeeds[crop.WaterNeed] {
			return fmt.Errorf("%s: invalid water need %q", crop.Name, crop.WaterNeed)
		}
	}
	return nil
}

func (c CropProfile) inSeason(season Season) bool {
	for _, s := range c.Seasons {
		if s == season {
			return true
		}
	}
	return false
}
