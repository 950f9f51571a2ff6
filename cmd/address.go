package main

import (
	"context"
	"io"
	"strings"

	"github.com/UnknownOlympus/meridian/internal/geocoding"
	"github.com/UnknownOlympus/meridian/internal/models"
	"github.com/spf13/cobra"
)

// addressOutput is the JSON shape printed by the address command.
type addressOutput struct {
	MatchedAddress string             `json:"matchedAddress"`
	Coordinates    models.Coordinates `json:"coordinates"`
	Address        map[string]string  `json:"address"`
	Geography      map[string]any     `json:"geography,omitempty"`
}

var addressQuery geocoding.AddressQuery

var addressCmd = &cobra.Command{
	Use:   "address [one-line address]",
	Short: "Geocode a single address with the census geocoder",
	Long:  "Resolves one address to its matched address, coordinates, address components and census geographies. Pass the address as one argument or with --street, --city and --state.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := addressQuery
		if len(args) == 1 {
			query.Full = strings.TrimSpace(args[0])
		}

		return runAddress(cmd.Context(), &cli, query, cmd.OutOrStdout())
	},
}

func init() {
	addressCmd.Flags().StringVar(&addressQuery.Street, "street", "", "street line, including the house number")
	addressCmd.Flags().StringVar(&addressQuery.City, "city", "", "city name")
	addressCmd.Flags().StringVar(&addressQuery.State, "state", "", "state name or abbreviation")
	rootCmd.AddCommand(addressCmd)
}

func runAddress(ctx context.Context, a *app, query geocoding.AddressQuery, out io.Writer) error {
	match, err := a.clients.Census.GeocodeAddress(ctx, query)
	if err != nil {
		return err
	}

	components, err := match.Address()
	if err != nil {
		return err
	}

	result := addressOutput{
		MatchedAddress: match.MatchedAddress(),
		Coordinates:    match.Coordinates(),
		Address:        components.Map(),
	}

	geography, err := match.Geography()
	if err != nil {
		a.log.WarnContext(ctx, "Match carries no usable geographies", "error", err)
	} else {
		result.Geography = geography.Map()
	}

	return printJSON(out, result)
}
