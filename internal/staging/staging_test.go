package staging_test

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/UnknownOlympus/meridian/internal/staging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChunk() models.Chunk {
	return models.Chunk{
		Index:  3,
		Offset: 10,
		Rows: []models.IndexedRecord{
			{RowIndex: 10, Record: models.AddressRecord{
				Street: "4600 Silver Hill Rd", City: "Washington", State: "DC", Zip: "20233",
			}},
			{RowIndex: 11, Record: models.AddressRecord{
				Street: "1 Main St, Apt 2", City: "Springfield", State: "IL",
			}},
		},
	}
}

func TestStager_Stage(t *testing.T) {
	logger := slog.Default()

	t.Run("writes headerless chunk file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		stager := staging.New(fs, "/staging", logger)

		file, err := stager.Stage(testChunk())
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(file.Name(), "chunk_3_"))
		assert.True(t, strings.HasSuffix(file.Name(), ".csv"))
		assert.Equal(t, "/staging", filepath.Dir(file.Path()))
		assert.Equal(t, 2, file.Rows())

		content, err := afero.ReadFile(fs, file.Path())
		require.NoError(t, err)
		assert.Equal(t,
			"10,4600 Silver Hill Rd,Washington,DC,20233\n11,\"1 Main St, Apt 2\",Springfield,IL,\n",
			string(content))
	})

	t.Run("same chunk index gets distinct files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		stager := staging.New(fs, "/staging", logger)

		first, err := stager.Stage(testChunk())
		require.NoError(t, err)
		second, err := stager.Stage(testChunk())
		require.NoError(t, err)

		assert.NotEqual(t, first.Path(), second.Path())
	})

	t.Run("open and remove", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		file, err := staging.New(fs, "/staging", logger).Stage(testChunk())
		require.NoError(t, err)

		reader, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(reader)
		require.NoError(t, err)
		require.NoError(t, reader.Close())
		assert.NotEmpty(t, data)

		require.NoError(t, file.Remove())
		exists, err := afero.Exists(fs, file.Path())
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, file.Remove())
		_, err = file.Open()
		require.Error(t, err)
	})

	t.Run("read-only filesystem", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())

		file, err := staging.New(fs, "/staging", logger).Stage(testChunk())

		require.Error(t, err)
		assert.Nil(t, file)
	})
}

func TestStager_StageOnDisk(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	stager := staging.New(afero.NewOsFs(), dir, slog.Default())

	file, err := stager.Stage(testChunk())
	require.NoError(t, err)

	assert.True(t, filet.Exists(t, file.Path()))
	assert.True(t, filet.DirContains(t, dir, file.Name()))
	assert.True(t, filet.FileSays(t, file.Path(),
		[]byte("10,4600 Silver Hill Rd,Washington,DC,20233\n11,\"1 Main St, Apt 2\",Springfield,IL,\n")))

	require.NoError(t, file.Remove())
	assert.False(t, filet.Exists(t, file.Path()))
}
