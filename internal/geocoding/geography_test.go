package geocoding_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func geographiesWithCenter(lat, lng string) gjson.Result {
	return gjson.Parse(fmt.Sprintf(`{
		"States": [{"STATE": "17", "BASENAME": "Illinois"}],
		"Incorporated Places": [{"NAME": "Springfield city"}],
		"2020 Census Blocks": [{"BLOCK": "1012", "CENTLAT": %q, "CENTLON": %q, "AREALAND": "20417"}],
		"Census Tracts": [{"BASENAME": "5"}]
	}`, lat, lng))
}

func TestBuildGeography(t *testing.T) {
	t.Run("merged record", func(t *testing.T) {
		record, err := geocoding.BuildGeography(gjson.Parse(geographiesJSON))

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "17", record.Fields["STATE"])
		assert.Equal(t, "Springfield city", record.Fields["NAME"])
		assert.Equal(t, "1012", record.Fields["BLOCK"])
		assert.Equal(t, "20417", record.Fields["AREALAND"])
		// The tract section is merged last and wins the shared key.
		assert.Equal(t, "5", record.Fields["BASENAME"])
		assert.InDelta(t, 39.8017366, record.BlockCenter.Latitude, 1e-9)
		assert.InDelta(t, -89.6436457, record.BlockCenter.Longitude, 1e-9)
	})

	t.Run("flat mapping carries BLOCK_CENTER", func(t *testing.T) {
		record, err := geocoding.BuildGeography(gjson.Parse(geographiesJSON))
		require.NoError(t, err)

		flat := record.Map()

		assert.Equal(t, [2]float64{39.8017366, -89.6436457}, flat["BLOCK_CENTER"])
		assert.Equal(t, "+39.8017366", flat["CENTLAT"])
	})

	t.Run("latitude drops exactly the first character", func(t *testing.T) {
		for _, lat := range []string{"+39.8017366", "N40.5", "+00.0001", "-33.25"} {
			record, err := geocoding.BuildGeography(geographiesWithCenter(lat, "-089.6"))
			require.NoError(t, err, lat)

			want, parseErr := strconv.ParseFloat(lat[1:], 64)
			require.NoError(t, parseErr)
			assert.InDelta(t, want, record.BlockCenter.Latitude, 1e-12, lat)
		}
	})

	t.Run("empty latitude", func(t *testing.T) {
		record, err := geocoding.BuildGeography(geographiesWithCenter("", "-089.6"))

		require.Error(t, err)
		assert.Nil(t, record)
		assert.Equal(t, geocoding.KindInvalidValue, geocoding.KindOf(err))
	})

	t.Run("non-numeric latitude", func(t *testing.T) {
		_, err := geocoding.BuildGeography(geographiesWithCenter("+north", "-089.6"))

		require.Error(t, err)
		assert.Equal(t, geocoding.KindInvalidValue, geocoding.KindOf(err))
	})

	t.Run("non-numeric longitude", func(t *testing.T) {
		_, err := geocoding.BuildGeography(geographiesWithCenter("+39.8", "west"))

		require.Error(t, err)
		assert.Equal(t, geocoding.KindInvalidValue, geocoding.KindOf(err))
	})

	t.Run("missing section propagates", func(t *testing.T) {
		data := gjson.Parse(`{"States": [{"STATE": "17", "BASENAME": "Illinois"}]}`)

		_, err := geocoding.BuildGeography(data)

		require.Error(t, err)
		assert.Equal(t, geocoding.KindMissingField, geocoding.KindOf(err))
		assert.Contains(t, err.Error(), "Incorporated Places")
	})
}
