package cds

import "fmt"

// Dataset identifiers on the Copernicus stores.
const (
	DatasetERA5Land  = "reanalysis-era5-land"
	DatasetLandCover = "satellite-land-cover"
	DatasetCAMSEGG4  = "cams-global-ghg-reanalysis-egg4"
)

// Area is a geographic bounding box in the CDS convention:
// north, west, south, east.
type Area [4]float64

func (a Area) payload() []float64 {
	return []float64{a[0], a[1], a[2], a[3]}
}

// ERA5LandPayload builds the request for one month of hourly ERA5-Land
// data for a single variable over an area, in NetCDF format.
func ERA5LandPayload(variable string, year int, month string, area Area) map[string]any {
	return map[string]any{
		"variable": []string{variable},
		"year":     fmt.Sprint(year),
		"month":    month,
		"day":      allDays(),
		"time":     allTimes(),
		"area":     area.payload(),
		"format":   "netcdf",
	}
}

// LandCoverPayload builds the request for one yearly ESA-CCI land-cover
// map. The product version changed with the 2016 map.
func LandCoverPayload(year int) map[string]any {
	version := "v2.1.1"
	if year < 2016 {
		version = "v2.0.7cds"
	}
	return map[string]any{
		"variable": "all",
		"format":   "zip",
		"year":     fmt.Sprint(year),
		"version":  version,
	}
}

// CAMSEGG4Payload builds the request for the CAMS greenhouse-gas
// reanalysis over a date span at one model level.
func CAMSEGG4Payload(variable, dateRange, modelLevel, step string, area Area) map[string]any {
	return map[string]any{
		"variable":    variable,
		"model_level": modelLevel,
		"date":        dateRange,
		"step":        step,
		"area":        area.payload(),
		"format":      "netcdf",
	}
}

func allDays() []string {
	days := make([]string, 31)
	for i := range days {
		days[i] = fmt.Sprintf("%02d", i+1)
	}
	return days
}

func allTimes() []string {
	times := make([]string, 24)
	for i := range times {
		times[i] = fmt.Sprintf("%02d:00", i)
	}
	return times
}
