package geocoding

import (
	"strconv"
	"strings"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/tidwall/gjson"
)

// Census geography sections and the fields read from each.
const (
	SectionStates       = "States"
	SectionPlaces       = "Incorporated Places"
	SectionCensusBlocks = "2020 Census Blocks"
	SectionCensusTracts = "Census Tracts"
)

type geographySection struct {
	name   string
	fields []string
}

// Later sections overwrite earlier ones on a shared key, so BASENAME ends up
// holding the tract name.
var geographySections = []geographySection{
	{name: SectionStates, fields: []string{"STATE", "BASENAME"}},
	{name: SectionPlaces, fields: []string{"NAME"}},
	{name: SectionCensusBlocks, fields: []string{"BLOCK", "CENTLAT", "CENTLON", "AREALAND"}},
	{name: SectionCensusTracts, fields: []string{"BASENAME"}},
}

// BuildGeography flattens a census geographies object into a GeographyRecord.
func BuildGeography(data gjson.Result) (*models.GeographyRecord, error) {
	fields := make(map[string]string)
	for _, section := range geographySections {
		values, err := ExtractFields(data, section.name, section.fields...)
		if err != nil {
			return nil, err
		}
		for key, value := range values {
			fields[key] = value
		}
	}

	// CENTLAT carries a leading hemisphere sign, e.g. "+39.7990".
	lat, err := parseCoordinate(fields["CENTLAT"], true)
	if err != nil {
		return nil, err
	}
	lng, err := parseCoordinate(fields["CENTLON"], false)
	if err != nil {
		return nil, err
	}

	return &models.GeographyRecord{
		Fields:      fields,
		BlockCenter: models.Coordinates{Latitude: lat, Longitude: lng},
	}, nil
}

func parseCoordinate(raw string, stripFirst bool) (float64, error) {
	value := raw
	if stripFirst {
		if value == "" {
			return 0, newError(KindInvalidValue, nil, "empty coordinate")
		}
		value = value[1:]
	}

	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, newError(KindInvalidValue, err, "invalid coordinate %q", raw)
	}

	return parsed, nil
}
