package recommend

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/krishisetu/agri-advisor/soil"
)

// Factor weights. The graded factors together carry 90 points; the
// sustainability rating adds its 0-10 value directly as a catalog-level
// tie-breaker.
const (
	phWeight             = 30.0
	tempWeight           = 25.0
	seasonWeight         = 20.0
	nitrogenWeight       = 15.0
	sustainabilityWeight = 10.0
)

// inclusionThreshold excludes crops scoring under half of the achievable
// points from the result set.
const inclusionThreshold = 0.5

// ScoredRecommendation is one ranked catalog crop with its justification.
// Ordering within a result list is significant (descending score).
type ScoredRecommendation struct {
	CropName         string   `json:"crop_name"`
	CropNameLocal    string   `json:"crop_name_local,omitempty"`
	SuitabilityScore float64  `json:"suitability_score"` // 0-100
	ExpectedYield    float64  `json:"expected_yield"`
	EstimatedProfit  float64  `json:"estimated_profit"`
	WaterRequirement string   `json:"water_requirement"`
	DurationDays     int      `json:"duration_days"`
	Seasons          []Season `json:"seasons"`
	Reasons          []string `json:"reasons"`
	Warnings         []string `json:"warnings"`
}

// scoreCrop evaluates one crop against the soil profile. It returns the
// normalized score in [0,1] together with deterministic reason and warning
// sentences. Factors without data contribute neither awarded nor possible
// points, so a partially known profile does not depress the ratio beyond the
// missing factor's own weight. tempC is the optional temperature observation.
func scoreCrop(crop CropProfile, sp soil.Profile, season Season, tempC *float64) (float64, []string, []string) {
	var awarded, possible float64
	reasons := make([]string, 0, 5)
	warnings := make([]string, 0, 2)

	// Season match (20).
	possible += seasonWeight
	if crop.inSeason(season) {
		awarded += seasonWeight
		reasons = append(reasons, fmt.Sprintf("Current %s season is ideal for %s", season, crop.Name))
	} else {
		reasons = append(reasons, fmt.Sprintf("%s is not normally grown in the %s season", crop.Name, season))
	}

	// pH fit (30), skipped when pH is unknown.
	if sp.PH != nil {
		possible += phWeight
		ph := *sp.PH
		points := bandedPoints(ph, crop.PHMin, crop.PHMax, 0.5, 1.0, phWeight, 20, 10)
		awarded += points
		if points == phWeight {
			reasons = append(reasons, fmt.Sprintf("Soil pH (%.1f) is optimal", ph))
		} else {
			reasons = append(reasons, fmt.Sprintf("Soil pH (%.1f) may need adjustment", ph))
			if points == 0 {
				warnings = append(warnings, fmt.Sprintf("Soil pH (%.1f) is far outside the tolerated %.1f-%.1f range", ph, crop.PHMin, crop.PHMax))
			}
		}
	}

	// Temperature fit (25), skipped without an observation.
	if tempC != nil {
		possible += tempWeight
		temp := *tempC
		points := bandedPoints(temp, crop.TempMinC, crop.TempMaxC, 3, 5, tempWeight, 15, 8)
		awarded += points
		if points == tempWeight {
			reasons = append(reasons, fmt.Sprintf("Temperature (%.0f°C) is favorable", temp))
		} else {
			reasons = append(reasons, fmt.Sprintf("Temperature (%.0f°C) is outside the preferred range", temp))
		}
	}

	// Nitrogen sufficiency (15).
	possible += nitrogenWeight
	available := sp.NitrogenKgPerHa()
	switch {
	case available >= crop.NitrogenKgPerHa:
		awarded += nitrogenWeight
	case available >= 0.8*crop.NitrogenKgPerHa:
		awarded += 10
	case available >= 0.6*crop.NitrogenKgPerHa:
		awarded += 5
	default:
		warnings = append(warnings, fmt.Sprintf("Available nitrogen (%.0f kg/ha) falls well short of the %.0f kg/ha requirement", available, crop.NitrogenKgPerHa))
	}

	// Sustainability bonus (10): the catalog rating added directly.
	possible += sustainabilityWeight
	awarded += crop.Sustainability

	reasons = append(reasons,
		fmt.Sprintf("%s water requirement", crop.WaterNeed),
		fmt.Sprintf("Expected profit: ₹%s/hectare", groupDigits(crop.ProfitPerHectare)),
	)

	if possible == 0 {
		return 0, reasons, warnings
	}
	return awarded / possible, reasons, warnings
}

// bandedPoints grades a value against [min,max]: full points inside the
// interval, nearPoints within nearBand of either bound, farPoints within
// farBand, zero otherwise.
func bandedPoints(value, min, max, nearBand, farBand, full, nearPoints, farPoints float64) float64 {
	var dist float64
	switch {
	case value < min:
		dist = min - value
	case value > max:
		dist = value - max
	default:
		return full
	}
	if dist <= nearBand {
		return nearPoints
	}
	if dist <= farBand {
		return farPoints
	}
	return 0
}

// rank scores the full catalog and returns the crops above the inclusion
// threshold, sorted descending by score. The sort is stable so equal scores
// keep catalog order.
func rank(catalog Catalog, sp soil.Profile, season Season, tempC *float64, language string) []ScoredRecommendation {
	out := make([]ScoredRecommendation, 0, len(catalog))
	for _, crop := range catalog {
		frac, reasons, warnings := scoreCrop(crop, sp, season, tempC)
		if frac < inclusionThreshold {
			continue
		}
		rec := ScoredRecommendation{
			CropName:         crop.Name,
			SuitabilityScore: math.Round(frac*10000) / 100,
			ExpectedYield:    crop.YieldPerHectare,
			EstimatedProfit:  crop.ProfitPerHectare,
			WaterRequirement: crop.WaterNeed,
			DurationDays:     crop.DurationDays,
			Seasons:          crop.Seasons,
			Reasons:          reasons,
			Warnings:         warnings,
		}
		if language == "hi" {
			rec.CropNameLocal = crop.NameHindi
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuitabilityScore > out[j].SuitabilityScore
	})
	return out
}

// groupDigits renders a non-negative amount with thousands separators.
func groupDigits(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	n := len(s)
	if n <= 3 {
		return s
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
