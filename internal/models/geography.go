package models

// GeographyRecord is the flattened set of census identifiers for one location.
// Fields holds the raw values keyed by their census field names (STATE, NAME,
// BLOCK, CENTLAT, CENTLON, AREALAND, BASENAME).
type GeographyRecord struct {
	Fields      map[string]string `json:"fields"`
	BlockCenter Coordinates       `json:"blockCenter"`
}

// Map returns the flat mapping, with BLOCK_CENTER as a [lat, lng] pair.
func (gr GeographyRecord) Map() map[string]any {
	out := make(map[string]any, len(gr.Fields)+1)
	for key, value := range gr.Fields {
		out[key] = value
	}
	out["BLOCK_CENTER"] = [2]float64{gr.BlockCenter.Latitude, gr.BlockCenter.Longitude}

	return out
}
