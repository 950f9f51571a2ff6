package geocoding_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchResponseCSV = `"0","100 Main St, Springfield, IL, 62701","Match","Exact","100 MAIN ST, SPRINGFIELD, IL, 62701","-89.6436,39.8017","112135428","L","17","167","000500","1012"
"1","1 Nowhere Rd, Faketown, XX, 00000","No_Match"
"2","5 Elm St, Springfield, IL, 62701","Tie"
`

func TestCensusClient_SubmitBatch(t *testing.T) {
	ctx := t.Context()

	t.Run("uploads the chunk file and decodes rows", func(t *testing.T) {
		const upload = "0,100 Main St,Springfield,IL,62701\n1,1 Nowhere Rd,Faketown,XX,00000\n"

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/geographies/addressbatch", r.URL.Path)
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, geocoding.DefaultBenchmark, r.FormValue("benchmark"))
			assert.Equal(t, geocoding.DefaultVintage, r.FormValue("vintage"))

			file, header, err := r.FormFile("addressFile")
			if assert.NoError(t, err) {
				defer file.Close()
				assert.Equal(t, "chunk_0.csv", header.Filename)
				content, _ := io.ReadAll(file)
				assert.Equal(t, upload, string(content))
			}

			_, _ = io.WriteString(w, batchResponseCSV)
		}))
		defer srv.Close()

		observer := &recordingObserver{}
		client := geocoding.NewCensusClient(srv.Client(), geocoding.CensusConfig{BaseURL: srv.URL}, observer, slog.Default())

		results, err := client.SubmitBatch(ctx, "chunk_0.csv", strings.NewReader(upload))

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 0, results[0].RowIndex)
		assert.True(t, results[0].Matched())
		assert.Equal(t, 1, results[1].RowIndex)
		assert.False(t, results[1].Matched())
		assert.Equal(t, 2, results[2].RowIndex)
		assert.Equal(t, "Tie", results[2].Match)

		require.Len(t, observer.calls, 1)
		assert.Equal(t, geocoding.ServiceCensusBatch, observer.calls[0].service)
	})

	t.Run("service error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"errors": ["A file must be provided"]}`)
		}))
		defer srv.Close()

		client := geocoding.NewCensusClient(srv.Client(), geocoding.CensusConfig{BaseURL: srv.URL}, nil, slog.Default())

		results, err := client.SubmitBatch(ctx, "chunk_0.csv", strings.NewReader(""))

		require.Error(t, err)
		assert.Nil(t, results)
		assert.Equal(t, geocoding.KindServiceStatus, geocoding.KindOf(err))
		assert.Contains(t, err.Error(), "A file must be provided")
	})

	t.Run("transport failure", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}
		client := geocoding.NewCensusClient(mockClient, geocoding.CensusConfig{}, nil, slog.Default())

		_, err := client.SubmitBatch(ctx, "chunk_0.csv", strings.NewReader("0,a,b,c,d\n"))

		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, geocoding.KindTransport, geocoding.KindOf(err))
	})
}

func TestParseBatchResponse(t *testing.T) {
	t.Run("matched row fields", func(t *testing.T) {
		results, err := geocoding.ParseBatchResponse([]byte(batchResponseCSV))

		require.NoError(t, err)
		require.Len(t, results, 3)

		matched := results[0]
		assert.Equal(t, "100 Main St, Springfield, IL, 62701", matched.InputAddress)
		assert.Equal(t, "Exact", matched.MatchType)
		assert.Equal(t, "100 MAIN ST, SPRINGFIELD, IL, 62701", matched.MatchedAddress)
		require.NotNil(t, matched.Coordinates)
		assert.InEpsilon(t, -89.6436, matched.Coordinates.Longitude, 1e-9)
		assert.InEpsilon(t, 39.8017, matched.Coordinates.Latitude, 1e-9)
		assert.Equal(t, "112135428", matched.TigerLineID)
		assert.Equal(t, "L", matched.Side)
		assert.Equal(t, "17", matched.StateFP)
		assert.Equal(t, "167", matched.CountyFP)
		assert.Equal(t, "000500", matched.Tract)
		assert.Equal(t, "1012", matched.Block)

		assert.Nil(t, results[1].Coordinates)
		assert.Empty(t, results[1].MatchedAddress)
	})

	t.Run("locations response without geography columns", func(t *testing.T) {
		body := `"7","1 Main St, A, IL, 1","Match","Non_Exact","1 MAIN ST, A, IL, 1","-90.1,40.2","99","R"`

		results, err := geocoding.ParseBatchResponse([]byte(body))

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 7, results[0].RowIndex)
		assert.Equal(t, "Non_Exact", results[0].MatchType)
		assert.Empty(t, results[0].Tract)
	})

	t.Run("row id is coerced to integer", func(t *testing.T) {
		results, err := geocoding.ParseBatchResponse([]byte("\" 42 \",\"x\",\"No_Match\"\n"))

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 42, results[0].RowIndex)
	})

	t.Run("non-integer row id", func(t *testing.T) {
		_, err := geocoding.ParseBatchResponse([]byte(`"abc","x","No_Match"`))

		require.Error(t, err)
		assert.Equal(t, geocoding.KindDecode, geocoding.KindOf(err))
	})

	t.Run("malformed coordinate", func(t *testing.T) {
		_, err := geocoding.ParseBatchResponse([]byte(`"1","x","Match","Exact","X","not-a-point","1","L"`))

		require.Error(t, err)
		assert.Equal(t, geocoding.KindInvalidValue, geocoding.KindOf(err))
	})

	t.Run("empty body", func(t *testing.T) {
		results, err := geocoding.ParseBatchResponse([]byte("  \n"))

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
