package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/metrics"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/internal/staging"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// DefaultChunkSize is the number of rows submitted per batch call.
const DefaultChunkSize = 500

// JoinMode selects which input rows appear in the batch output.
type JoinMode int

const (
	// JoinInner keeps only rows the service matched.
	JoinInner JoinMode = iota
	// JoinOuter keeps every input row; rows without a result carry a nil Result.
	JoinOuter
)

// ChunkStager writes a chunk to a file the submitter can upload.
type ChunkStager interface {
	Stage(chunk models.Chunk) (*staging.File, error)
}

// BatchService geocodes address collections through the census batch
// service, one bounded chunk at a time.
type BatchService struct {
	log       *slog.Logger             // Logger for batch progress
	submitter geocoding.BatchSubmitter // Batch endpoint client
	stager    ChunkStager              // Writes chunk files before upload
	metrics   *metrics.Metrics         // Metrics for chunks, rows and staged files
	chunkSize int                      // Maximum rows per chunk
	joinMode  JoinMode                 // Which rows to keep in the output
}

// Option configures a BatchService.
type Option func(*BatchService) error

// WithChunkSize sets the maximum number of rows per batch call.
func WithChunkSize(size int) Option {
	return func(bs *BatchService) error {
		if size <= 0 {
			return &geocoding.Error{
				Kind:    geocoding.KindInvalidInput,
				Message: "chunk size must be positive",
			}
		}
		bs.chunkSize = size
		return nil
	}
}

// WithJoinMode sets how input rows are joined with the service results.
func WithJoinMode(mode JoinMode) Option {
	return func(bs *BatchService) error {
		bs.joinMode = mode
		return nil
	}
}

// NewBatchService creates a batch service. Without options it submits
// DefaultChunkSize rows per call and keeps matched rows only.
func NewBatchService(
	log *slog.Logger,
	submitter geocoding.BatchSubmitter,
	stager ChunkStager,
	metrics *metrics.Metrics,
	opts ...Option,
) (*BatchService, error) {
	bs := &BatchService{
		log:       log,
		submitter: submitter,
		stager:    stager,
		metrics:   metrics,
		chunkSize: DefaultChunkSize,
		joinMode:  JoinInner,
	}
	for _, opt := range opts {
		if err := opt(bs); err != nil {
			return nil, err
		}
	}

	return bs, nil
}

// Partition splits records into consecutive chunks of at most size rows.
// Every row is tagged with its position in records. A non-positive size
// yields a single chunk.
func Partition(records []models.AddressRecord, size int) []models.Chunk {
	if len(records) == 0 {
		return nil
	}
	if size <= 0 {
		size = len(records)
	}

	chunks := make([]models.Chunk, 0, (len(records)+size-1)/size)
	for offset := 0; offset < len(records); offset += size {
		end := min(offset+size, len(records))

		rows := make([]models.IndexedRecord, 0, end-offset)
		for i := offset; i < end; i++ {
			rows = append(rows, models.IndexedRecord{RowIndex: i, Record: records[i]})
		}
		chunks = append(chunks, models.Chunk{Index: len(chunks), Offset: offset, Rows: rows})
	}

	return chunks
}

// Geocode runs records through the batch service and returns the joined rows
// in input order. Any failing chunk aborts the run without a partial result.
func (bs *BatchService) Geocode(ctx context.Context, records []models.AddressRecord) ([]models.BatchRow, error) {
	if len(records) == 0 {
		return []models.BatchRow{}, nil
	}

	runID := uuid.NewString()
	chunks := Partition(records, bs.chunkSize)
	startTime := time.Now()

	bs.log.InfoContext(ctx, "Batch geocoding started",
		"run", runID, "rows", len(records), "chunks", len(chunks), "chunk_size", bs.chunkSize)

	rows := make([]models.BatchRow, 0, len(records))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrapf(err, "batch run %s interrupted before chunk %d", runID, chunk.Index)
		}

		joined, err := bs.processChunk(ctx, runID, chunk)
		if err != nil {
			bs.log.ErrorContext(ctx, "Batch chunk failed", "run", runID, "chunk", chunk.Index, "error", err)
			return nil, eris.Wrapf(err, "batch run %s failed on chunk %d", runID, chunk.Index)
		}
		rows = append(rows, joined...)
	}

	bs.log.InfoContext(ctx, "Batch geocoding finished",
		"run", runID, "rows", len(rows), "duration", time.Since(startTime))

	return rows, nil
}

func (bs *BatchService) processChunk(ctx context.Context, runID string, chunk models.Chunk) ([]models.BatchRow, error) {
	file, err := bs.stager.Stage(chunk)
	if err != nil {
		return nil, eris.Wrap(err, "failed to stage chunk")
	}
	bs.metrics.StagedFiles.Inc()
	defer func() {
		if rmErr := file.Remove(); rmErr != nil {
			bs.log.WarnContext(ctx, "Failed to remove staged file", "run", runID, "file", file.Path(), "error", rmErr)
			return
		}
		bs.metrics.StagedFiles.Dec()
	}()

	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	bs.log.DebugContext(ctx, "Submitting chunk",
		"run", runID, "chunk", chunk.Index, "offset", chunk.Offset, "rows", len(chunk.Rows))

	results, err := bs.submitter.SubmitBatch(ctx, file.Name(), reader)
	if err != nil {
		return nil, err
	}
	bs.metrics.BatchChunks.Inc()

	return bs.join(ctx, runID, chunk, results), nil
}

// join pairs chunk rows with results by row index, in chunk order.
func (bs *BatchService) join(
	ctx context.Context,
	runID string,
	chunk models.Chunk,
	results []models.BatchResult,
) []models.BatchRow {
	byIndex := make(map[int]*models.BatchResult, len(results))
	for i := range results {
		result := &results[i]
		if _, dup := byIndex[result.RowIndex]; dup {
			bs.log.WarnContext(ctx, "Duplicate result row, keeping the first",
				"run", runID, "chunk", chunk.Index, "row", result.RowIndex)
			continue
		}
		byIndex[result.RowIndex] = result
	}

	joined := make([]models.BatchRow, 0, len(chunk.Rows))
	for _, row := range chunk.Rows {
		result, ok := byIndex[row.RowIndex]
		delete(byIndex, row.RowIndex)

		switch {
		case !ok:
			bs.metrics.BatchRows.WithLabelValues(metrics.RowMissing).Inc()
		case result.Matched():
			bs.metrics.BatchRows.WithLabelValues(metrics.RowMatched).Inc()
		default:
			bs.metrics.BatchRows.WithLabelValues(metrics.RowUnmatched).Inc()
		}

		if bs.joinMode == JoinInner && (!ok || !result.Matched()) {
			continue
		}
		joined = append(joined, models.BatchRow{RowIndex: row.RowIndex, Record: row.Record, Result: result})
	}

	for rowIndex := range byIndex {
		bs.log.WarnContext(ctx, "Result row outside of chunk ignored",
			"run", runID, "chunk", chunk.Index, "row", rowIndex)
	}

	return joined
}
