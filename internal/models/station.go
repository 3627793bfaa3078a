package models

// Station is a fixed monitoring site identified by name and coordinates.
type Station struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// StationAttributes holds the quantities sampled at a station point. A nil
// field means the lookup for that quantity failed and was recorded as null.
type StationAttributes struct {
	Station
	Elevation      *float64 `json:"elevation"`
	CanopyHeight   *float64 `json:"height_canopy"`
	CanopyHeightSD *float64 `json:"sd_height_canopy"`
}
