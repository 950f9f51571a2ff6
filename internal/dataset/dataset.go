// Package dataset reads address tables from CSV and writes them back with
// the batch geocoding columns appended.
package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/rotisserie/eris"
)

// ResultColumns are appended to the input header on Write.
var ResultColumns = []string{
	"match", "match_type", "matched_address", "latitude", "longitude",
	"tiger_line_id", "side", "state_fp", "county_fp", "tract", "block",
}

var (
	// ErrNoHeader is returned for input without a header row.
	ErrNoHeader = errors.New("input has no header row")

	// ErrMissingColumn is returned when a role column is not in the header.
	ErrMissingColumn = errors.New("role column not found in header")

	// ErrDuplicateColumn is returned when two header columns share a name.
	ErrDuplicateColumn = errors.New("duplicate column name in header")
)

// Table describes the columns of a dataset read by Read.
type Table struct {
	Header []string
	roles  models.ColumnRoles
}

// Read parses a CSV table with a header row. Street, City and State roles are
// required; Zip may be left empty. Columns other than the roles end up in
// AddressRecord.Extra, so header names must be unique.
func Read(r io.Reader, roles models.ColumnRoles) (*Table, []models.AddressRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrNoHeader
		}
		return nil, nil, eris.Wrap(err, "failed to read header")
	}

	positions := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := positions[name]; dup {
			return nil, nil, eris.Wrapf(ErrDuplicateColumn, "column %q", name)
		}
		positions[name] = i
	}
	for _, name := range []string{roles.Street, roles.City, roles.State} {
		if _, ok := positions[name]; name == "" || !ok {
			return nil, nil, eris.Wrapf(ErrMissingColumn, "column %q", name)
		}
	}
	if _, ok := positions[roles.Zip]; roles.Zip != "" && !ok {
		return nil, nil, eris.Wrapf(ErrMissingColumn, "column %q", roles.Zip)
	}

	table := &Table{Header: header, roles: roles}

	var records []models.AddressRecord
	for line := 2; ; line++ {
		row, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, nil, eris.Wrapf(readErr, "failed to read line %d", line)
		}
		records = append(records, table.record(row))
	}

	return table, records, nil
}

func (t *Table) record(row []string) models.AddressRecord {
	record := models.AddressRecord{Extra: make(map[string]string)}
	for i, name := range t.Header {
		value := ""
		if i < len(row) {
			value = row[i]
		}

		switch {
		case name == t.roles.Street:
			record.Street = value
		case name == t.roles.City:
			record.City = value
		case name == t.roles.State:
			record.State = value
		case t.hasZip() && name == t.roles.Zip:
			record.Zip = value
		default:
			record.Extra[name] = value
		}
	}

	return record
}

func (t *Table) hasZip() bool {
	return t.roles.Zip != ""
}

func (t *Table) value(record models.AddressRecord, name string) string {
	switch {
	case name == t.roles.Street:
		return record.Street
	case name == t.roles.City:
		return record.City
	case name == t.roles.State:
		return record.State
	case t.hasZip() && name == t.roles.Zip:
		return record.Zip
	default:
		return record.Extra[name]
	}
}

// Write emits the table header followed by ResultColumns, then one line per
// row. Rows without a result get empty result columns.
func Write(w io.Writer, table *Table, rows []models.BatchRow) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, len(table.Header)+len(ResultColumns))
	header = append(header, table.Header...)
	header = append(header, ResultColumns...)
	if err := writer.Write(header); err != nil {
		return eris.Wrap(err, "failed to write header")
	}

	for _, row := range rows {
		line := make([]string, 0, len(header))
		for _, name := range table.Header {
			line = append(line, table.value(row.Record, name))
		}
		line = append(line, resultFields(row.Result)...)

		if err := writer.Write(line); err != nil {
			return eris.Wrapf(err, "failed to write row %d", row.RowIndex)
		}
	}

	writer.Flush()

	return eris.Wrap(writer.Error(), "failed to flush output")
}

func resultFields(result *models.BatchResult) []string {
	if result == nil {
		return make([]string, len(ResultColumns))
	}

	var lat, lng string
	if result.Coordinates != nil {
		lat = strconv.FormatFloat(result.Coordinates.Latitude, 'f', -1, 64)
		lng = strconv.FormatFloat(result.Coordinates.Longitude, 'f', -1, 64)
	}

	return []string{
		result.Match, result.MatchType, result.MatchedAddress, lat, lng,
		result.TigerLineID, result.Side, result.StateFP, result.CountyFP, result.Tract, result.Block,
	}
}
