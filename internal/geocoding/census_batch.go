package geocoding

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/jszwec/csvutil"
)

// batchHeader names the columns of a geographies batch response. Rows for
// unmatched addresses and locations-only responses are shorter.
var batchHeader = []string{
	"id", "address", "match", "matchtype", "parsed", "coordinate",
	"tigerlineid", "side", "statefp", "countyfp", "tract", "block",
}

type batchLine struct {
	ID          string `csv:"id"`
	Address     string `csv:"address"`
	Match       string `csv:"match"`
	MatchType   string `csv:"matchtype"`
	Parsed      string `csv:"parsed"`
	Coordinate  string `csv:"coordinate"`
	TigerLineID string `csv:"tigerlineid"`
	Side        string `csv:"side"`
	StateFP     string `csv:"statefp"`
	CountyFP    string `csv:"countyfp"`
	Tract       string `csv:"tract"`
	Block       string `csv:"block"`
}

// paddedReader right-pads short records so every row has the header width.
type paddedReader struct {
	reader *csv.Reader
	width  int
}

func (pr *paddedReader) Read() ([]string, error) {
	record, err := pr.reader.Read()
	if err != nil {
		return nil, err
	}
	if len(record) > pr.width {
		return record[:pr.width], nil
	}
	for len(record) < pr.width {
		record = append(record, "")
	}

	return record, nil
}

// SubmitBatch uploads a headerless index,street,city,state,zip file to the
// census batch endpoint and decodes the returned rows.
func (cc *CensusClient) SubmitBatch(
	ctx context.Context,
	filename string,
	file io.Reader,
) ([]models.BatchResult, error) {
	start := time.Now()
	results, err := cc.submitBatch(ctx, filename, file)
	cc.observer.ObserveRequest(ServiceCensusBatch, time.Since(start), err)

	return results, err
}

func (cc *CensusClient) submitBatch(ctx context.Context, filename string, file io.Reader) ([]models.BatchResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("benchmark", cc.benchmark); err != nil {
		return nil, newError(KindTransport, err, "failed to write benchmark field")
	}
	if err := writer.WriteField("vintage", cc.vintage); err != nil {
		return nil, newError(KindTransport, err, "failed to write vintage field")
	}

	part, err := writer.CreateFormFile("addressFile", filename)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to create form file")
	}
	if _, err = io.Copy(part, file); err != nil {
		return nil, newError(KindTransport, err, "failed to copy batch file")
	}
	if err = writer.Close(); err != nil {
		return nil, newError(KindTransport, err, "failed to close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.baseURL+censusBatchPath, &buf)
	if err != nil {
		return nil, newError(KindInvalidInput, err, "failed to create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	cc.log.DebugContext(ctx, "Submitting census batch", "file", filename, "bytes", buf.Len())

	resp, err := cc.client.Do(req)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to execute census batch request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindTransport, err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		cc.log.ErrorContext(ctx, "Census batch API error", "status", resp.StatusCode, "body", string(body))
		return nil, newError(KindServiceStatus, nil,
			"census batch API returned status %d: %s", resp.StatusCode, censusErrorMessage(body))
	}

	return ParseBatchResponse(body)
}

// ParseBatchResponse decodes a census batch CSV body. Row ids are coerced to
// integers; a non-integer id fails the whole response.
func ParseBatchResponse(body []byte) ([]models.BatchResult, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []models.BatchResult{}, nil
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	dec, err := csvutil.NewDecoder(&paddedReader{reader: reader, width: len(batchHeader)}, batchHeader...)
	if err != nil {
		return nil, newError(KindDecode, err, "failed to create batch decoder")
	}

	var results []models.BatchResult
	for {
		var line batchLine
		if err = dec.Decode(&line); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, newError(KindDecode, err, "failed to decode batch row")
		}

		result, convErr := line.toResult()
		if convErr != nil {
			return nil, convErr
		}
		results = append(results, result)
	}

	return results, nil
}

func (bl batchLine) toResult() (models.BatchResult, error) {
	rowIndex, err := strconv.Atoi(strings.TrimSpace(bl.ID))
	if err != nil {
		return models.BatchResult{}, newError(KindDecode, err, "invalid batch row id %q", bl.ID)
	}

	result := models.BatchResult{
		RowIndex:       rowIndex,
		InputAddress:   bl.Address,
		Match:          bl.Match,
		MatchType:      bl.MatchType,
		MatchedAddress: bl.Parsed,
		TigerLineID:    bl.TigerLineID,
		Side:           bl.Side,
		StateFP:        bl.StateFP,
		CountyFP:       bl.CountyFP,
		Tract:          bl.Tract,
		Block:          bl.Block,
	}

	if bl.Coordinate != "" {
		coords, coordErr := parseBatchCoordinate(bl.Coordinate)
		if coordErr != nil {
			return models.BatchResult{}, coordErr
		}
		result.Coordinates = coords
	}

	return result, nil
}

// parseBatchCoordinate parses the "lon,lat" pair of a matched row.
func parseBatchCoordinate(raw string) (*models.Coordinates, error) {
	const coordsListLength = 2

	parts := strings.Split(raw, ",")
	if len(parts) != coordsListLength {
		return nil, newError(KindInvalidValue, nil, "invalid batch coordinate %q", raw)
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, newError(KindInvalidValue, err, "invalid batch longitude %q", parts[0])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, newError(KindInvalidValue, err, "invalid batch latitude %q", parts[1])
	}

	return &models.Coordinates{Longitude: lon, Latitude: lat}, nil
}
