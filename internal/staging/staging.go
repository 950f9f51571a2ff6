// Package staging writes batch chunks to short-lived CSV files.
package staging

import (
	"encoding/csv"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// chunkLine is one row of a staged file: index,street,city,state,zip.
type chunkLine struct {
	Index  int    `csv:"index"`
	Street string `csv:"street"`
	City   string `csv:"city"`
	State  string `csv:"state"`
	Zip    string `csv:"zip"`
}

// Stager writes chunks into a directory of a filesystem.
type Stager struct {
	fs  afero.Fs
	dir string
	log *slog.Logger
}

// File is a staged chunk on the stager's filesystem.
type File struct {
	fs   afero.Fs
	path string
	rows int
}

// New creates a stager writing into dir. The directory is created on first use.
func New(fs afero.Fs, dir string, log *slog.Logger) *Stager {
	return &Stager{fs: fs, dir: dir, log: log}
}

// Stage writes the chunk as a headerless CSV file with a unique name.
// On failure nothing is left behind.
func (s *Stager) Stage(chunk models.Chunk) (*File, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "failed to create staging directory %s", s.dir)
	}

	f, err := afero.TempFile(s.fs, s.dir, "chunk_"+strconv.Itoa(chunk.Index)+"_*.csv")
	if err != nil {
		return nil, eris.Wrap(err, "failed to create staging file")
	}
	staged := &File{fs: s.fs, path: f.Name(), rows: len(chunk.Rows)}

	if err = writeChunk(f, chunk); err != nil {
		_ = f.Close()
		_ = staged.Remove()
		return nil, err
	}
	if err = f.Close(); err != nil {
		_ = staged.Remove()
		return nil, eris.Wrap(err, "failed to close staging file")
	}

	s.log.Debug("Staged chunk", "chunk", chunk.Index, "rows", len(chunk.Rows), "file", staged.path)

	return staged, nil
}

func writeChunk(f afero.File, chunk models.Chunk) error {
	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	enc.AutoHeader = false

	for _, row := range chunk.Rows {
		line := chunkLine{
			Index:  row.RowIndex,
			Street: row.Record.Street,
			City:   row.Record.City,
			State:  row.Record.State,
			Zip:    row.Record.Zip,
		}
		if err := enc.Encode(line); err != nil {
			return eris.Wrapf(err, "failed to encode row %d", row.RowIndex)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "failed to flush staging file")
	}

	return nil
}

// Name returns the base name of the file.
func (f *File) Name() string {
	return filepath.Base(f.path)
}

// Path returns the full path of the file.
func (f *File) Path() string {
	return f.path
}

// Rows returns the number of rows written.
func (f *File) Rows() int {
	return f.rows
}

// Open opens the file for reading. The caller closes it.
func (f *File) Open() (afero.File, error) {
	file, err := f.fs.Open(f.path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open staged file %s", f.path)
	}

	return file, nil
}

// Remove deletes the file. Removing an already removed file is not an error.
func (f *File) Remove() error {
	if err := f.fs.Remove(f.path); err != nil {
		if exists, _ := afero.Exists(f.fs, f.path); !exists {
			return nil
		}
		return eris.Wrapf(err, "failed to remove staged file %s", f.path)
	}

	return nil
}
