package geodata

import "strings"

// stateCentroids maps lowercased state names to approximate state centroids.
var stateCentroids = map[string][2]float64{
	"punjab":         {30.9010, 75.8573},
	"haryana":        {29.0588, 76.0856},
	"uttar pradesh":  {26.8467, 80.9462},
	"madhya pradesh": {22.9734, 78.6569},
	"rajasthan":      {27.0238, 74.2179},
	"maharashtra":    {19.7515, 75.7139},
	"karnataka":      {15.3173, 75.7139},
	"tamil nadu":     {11.1271, 78.6569},
	"andhra pradesh": {15.9129, 79.7400},
	"telangana":      {18.1124, 79.0193},
	"delhi":          {28.7041, 77.1025},
	"bihar":          {25.0961, 85.3131},
	"west bengal":    {22.9868, 87.8550},
	"odisha":         {20.9517, 85.0985},
	"kerala":         {10.8505, 76.2711},
	"gujarat":        {22.2587, 71.1924},
}

// nationalCentroid is used for states missing from the table.
var nationalCentroid = [2]float64{20.5937, 78.9629}

// FallbackGeocode returns the deterministic geocode estimate for a village.
// The village name is echoed verbatim; the district is unknown.
func FallbackGeocode(village, state string) Geocode {
	coords, ok := stateCentroids[strings.ToLower(state)]
	if !ok {
		coords = nationalCentroid
	}
	return Geocode{
		Lat:      coords[0],
		Lon:      coords[1],
		Village:  village,
		District: "Unknown",
		State:    state,
		Fallback: true,
	}
}

// FallbackLandCover returns the constant land-cover estimate.
func FallbackLandCover() LandCoverSample {
	return LandCoverSample{
		SoilType:        "loamy",
		LandUse:         "agricultural",
		VegetationIndex: 0.6,
		SoilMoisture:    "medium",
		ElevationM:      300,
		Fallback:        true,
	}
}

// FallbackSoilChemistry returns the constant mid-range chemistry estimate.
func FallbackSoilChemistry() SoilChemistrySample {
	ph := 6.8
	return SoilChemistrySample{
		PH:            &ph,
		OrganicCarbon: 1.2,
		Nitrogen:      "medium",
		Phosphorus:    "medium",
		Potassium:     "medium",
		Fallback:      true,
	}
}
