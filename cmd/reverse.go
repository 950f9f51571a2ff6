package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var reverseAPIKey string

var reverseCmd = &cobra.Command{
	Use:   "reverse LAT LNG",
	Short: "Reverse geocode a point with Google Maps",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, lng, err := parseLatLng(args[0], args[1])
		if err != nil {
			return err
		}

		return runReverse(cmd.Context(), &cli, lat, lng, reverseAPIKey, cmd.OutOrStdout())
	},
}

func init() {
	reverseCmd.Flags().StringVar(&reverseAPIKey, "key", "", "Google API key (default google.api_key from config)")
	rootCmd.AddCommand(reverseCmd)
}

func runReverse(ctx context.Context, a *app, lat, lng float64, apiKey string, out io.Writer) error {
	if apiKey == "" {
		apiKey = a.cfg.Google.APIKey
	}
	if apiKey == "" {
		return eris.New("google API key is required, set --key or MERIDIAN_GOOGLE_API_KEY")
	}

	address, err := a.clients.Reverse.ReverseGeocode(ctx, lat, lng, apiKey)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, address)

	return err
}
