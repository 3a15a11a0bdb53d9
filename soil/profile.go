// Package soil merges the outputs of the independent geodata source calls
// into one normalized soil profile.
package soil

import "github.com/krishisetu/agri-advisor/geodata"

// Profile is the per-request soil picture the scoring engine consumes.
// Every field is populated; PH alone may be absent when the live chemistry
// provider omitted it. The two provenance flags record, per source call,
// whether a deterministic estimate was substituted.
type Profile struct {
	SoilType        string   `json:"soil_type"`
	LandUse         string   `json:"land_use"`
	VegetationIndex float64  `json:"vegetation_index"`
	Moisture        string   `json:"moisture"`
	ElevationM      float64  `json:"elevation"`
	PH              *float64 `json:"ph,omitempty"`
	OrganicCarbon   float64  `json:"organic_carbon"`
	Nitrogen        string   `json:"nitrogen"`
	Phosphorus      string   `json:"phosphorus"`
	Potassium       string   `json:"potassium"`
	Lat             float64  `json:"lat"`
	Lon             float64  `json:"lon"`

	LandCoverEstimated bool `json:"land_cover_estimated"`
	ChemistryEstimated bool `json:"chemistry_estimated"`
}

// Aggregate merges a land-cover sample and a chemistry sample. Land-cover
// fields come from the land-cover sample, chemistry fields from the chemistry
// sample; both sources already guarantee complete values, so the merge cannot
// fail and has no error conditions.
func Aggregate(lc geodata.LandCoverSample, chem geodata.SoilChemistrySample, lat, lon float64) Profile {
	return Profile{
		SoilType:        lc.SoilType,
		LandUse:         lc.LandUse,
		VegetationIndex: lc.VegetationIndex,
		Moisture:        lc.SoilMoisture,
		ElevationM:      lc.ElevationM,
		PH:              chem.PH,
		OrganicCarbon:   chem.OrganicCarbon,
		Nitrogen:        chem.Nitrogen,
		Phosphorus:      chem.Phosphorus,
		Potassium:       chem.Potassium,
		Lat:             lat,
		Lon:             lon,

		LandCoverEstimated: lc.Fallback,
		ChemistryEstimated: chem.Fallback,
	}
}

// tierKgPerHa maps categorical nutrient tiers to representative kg/ha values
// comparable against crop requirements.
var tierKgPerHa = map[string]float64{
	"low":    60,
	"medium": 120,
	"high":   240,
}

// NitrogenKgPerHa converts the profile's nitrogen tier to kg/ha. Unknown
// tiers report 0 so scoring treats the factor as unmet rather than guessing.
func (p Profile) NitrogenKgPerHa() float64 {
	return tierKgPerHa[p.Nitrogen]
}
