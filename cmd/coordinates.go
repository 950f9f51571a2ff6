package main

import (
	"context"
	"io"
	"strconv"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var coordinatesCmd = &cobra.Command{
	Use:   "coordinates LAT LNG",
	Short: "Look up census geographies for a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseLatLng(args[0], args[1])
		if err != nil {
			return err
		}

		return runCoordinates(cmd.Context(), &cli, lat, lng, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(coordinatesCmd)
}

func runCoordinates(ctx context.Context, a *app, lat, lng float64, out io.Writer) error {
	raw, err := a.clients.Census.GeocodeCoordinates(ctx, lat, lng)
	if err != nil {
		return err
	}

	geography, err := geocoding.BuildGeography(raw)
	if err != nil {
		return err
	}

	return printJSON(out, geography.Map())
}

func parseLatLng(rawLat, rawLng string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid latitude %q", rawLat)
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "invalid longitude %q", rawLng)
	}

	return lat, lng, nil
}
