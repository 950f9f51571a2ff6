package models

// MatchStatusMatch is the batch service status of a matched row.
const MatchStatusMatch = "Match"

// IndexedRecord is an address tagged with its position in the original input.
type IndexedRecord struct {
	RowIndex int
	Record   AddressRecord
}

// Chunk is a contiguous, bounded slice of the input submitted in one batch call.
type Chunk struct {
	Index  int             // Index is the chunk position, starting at zero.
	Offset int             // Offset is the row index of the first row.
	Rows   []IndexedRecord // Rows are the chunk rows in input order.
}

// BatchResult is one row of the census batch response.
type BatchResult struct {
	RowIndex       int
	InputAddress   string
	Match          string // "Match", "No_Match" or "Tie"
	MatchType      string // "Exact" or "Non_Exact" on a match
	MatchedAddress string
	Coordinates    *Coordinates
	TigerLineID    string
	Side           string
	StateFP        string
	CountyFP       string
	Tract          string
	Block          string
}

// Matched reports whether the service resolved the address.
func (br BatchResult) Matched() bool {
	return br.Match == MatchStatusMatch
}

// BatchRow is one output row: the original record and the service result.
// Result is nil when the service returned nothing for the row.
type BatchRow struct {
	RowIndex int
	Record   AddressRecord
	Result   *BatchResult
}
