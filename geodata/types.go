package geodata

// Geocode is a resolved village location. Fallback marks values substituted
// from the deterministic centroid table rather than observed from Bhuvan.
type Geocode struct {
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Village  string  `json:"village"`
	District string  `json:"district"`
	State    string  `json:"state"`
	Fallback bool    `json:"fallback"`
}

// LandCoverSample holds land use / land cover attributes for a coordinate.
type LandCoverSample struct {
	SoilType        string  `json:"soil_type"`
	LandUse         string  `json:"land_use"`
	VegetationIndex float64 `json:"vegetation_index"`
	SoilMoisture    string  `json:"soil_moisture"`
	ElevationM      float64 `json:"elevation"`
	Fallback        bool    `json:"fallback"`
}

// SoilChemistrySample holds chemical soil properties for a coordinate.
// PH is nil when the live provider returned data but omitted the pH layer.
// Nutrient levels are categorical tiers: "low", "medium" or "high".
type SoilChemistrySample struct {
	PH            *float64 `json:"ph,omitempty"`
	OrganicCarbon float64  `json:"organic_carbon"`
	Nitrogen      string   `json:"nitrogen"`
	Phosphorus    string   `json:"phosphorus"`
	Potassium     string   `json:"potassium"`
	Fallback      bool     `json:"fallback"`
}

// bhuvanGeocodeResult models one entry of the Bhuvan geocode payload.
type bhuvanGeocodeResult struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"display_name"`
	District    string  `json:"district"`
	State       string  `json:"state"`
}

// bhuvanLULCResult models the Bhuvan LULC query payload.
type bhuvanLULCResult struct {
	SoilType  string   `json:"soil_type"`
	LandUse   string   `json:"land_use"`
	NDVI      *float64 `json:"ndvi"`
	Moisture  string   `json:"moisture"`
	Elevation *float64 `json:"elevation"`
}

// soilGridsResponse models the SoilGrids properties query payload.
type soilGridsResponse struct {
	Properties struct {
		Layers []struct {
			Name   string `json:"name"`
			Depths []struct {
				Values struct {
					Mean *float64 `json:"mean"`
				} `json:"values"`
			} `json:"depths"`
		} `json:"layers"`
	} `json:"properties"`
}
