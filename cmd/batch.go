package main

import (
	"context"
	"io"
	"os"

	"github.com/UnknownOlympus/meridian/internal/dataset"
	"github.com/UnknownOlympus/meridian/internal/service"
	"github.com/UnknownOlympus/meridian/internal/staging"
	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// batchOptions are the flags of the batch command. Zero values fall back to config.
type batchOptions struct {
	input         string
	output        string
	chunkSize     int
	keepUnmatched bool
	street        string
	city          string
	state         string
	zip           string
}

var batchOpts batchOptions

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch geocode a CSV file with the census batch service",
	Long:  "Reads a CSV file with a header row, submits its addresses in chunks to the census batch geocoder and writes the input columns followed by the geocoding columns.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := os.Open(batchOpts.input)
		if err != nil {
			return eris.Wrapf(err, "failed to open input %s", batchOpts.input)
		}
		defer in.Close()

		out := cmd.OutOrStdout()
		if batchOpts.output != "" && batchOpts.output != "-" {
			file, createErr := os.Create(batchOpts.output)
			if createErr != nil {
				return eris.Wrapf(createErr, "failed to create output %s", batchOpts.output)
			}
			defer file.Close()
			out = file
		}

		opts := batchOpts
		opts.keepUnmatched = opts.keepUnmatched || cli.cfg.Batch.KeepUnmatched

		return runBatch(cmd.Context(), &cli, afero.NewOsFs(), opts, in, out)
	},
}

func init() {
	flags := batchCmd.Flags()
	flags.StringVarP(&batchOpts.input, "input", "i", "", "input CSV file with a header row")
	flags.StringVarP(&batchOpts.output, "output", "o", "-", "output CSV file, - for stdout")
	flags.IntVar(&batchOpts.chunkSize, "chunk-size", 0, "rows per batch call (default batch.chunk_size from config)")
	flags.BoolVar(&batchOpts.keepUnmatched, "keep-unmatched", false, "keep rows the service could not match")
	flags.StringVar(&batchOpts.street, "street-col", "", "street column (default batch.columns.street)")
	flags.StringVar(&batchOpts.city, "city-col", "", "city column (default batch.columns.city)")
	flags.StringVar(&batchOpts.state, "state-col", "", "state column (default batch.columns.state)")
	flags.StringVar(&batchOpts.zip, "zip-col", "", "zip column (default batch.columns.zip)")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(ctx context.Context, a *app, fs afero.Fs, opts batchOptions, in io.Reader, out io.Writer) error {
	roles := a.cfg.Batch.Columns
	override := func(flag string, target *string) {
		if flag != "" {
			*target = flag
		}
	}
	override(opts.street, &roles.Street)
	override(opts.city, &roles.City)
	override(opts.state, &roles.State)
	override(opts.zip, &roles.Zip)

	chunkSize := a.cfg.Batch.ChunkSize
	if opts.chunkSize != 0 {
		chunkSize = opts.chunkSize
	}
	joinMode := service.JoinInner
	if opts.keepUnmatched {
		joinMode = service.JoinOuter
	}

	table, records, err := dataset.Read(in, roles)
	if err != nil {
		return err
	}

	svc, err := service.NewBatchService(
		a.log,
		a.clients.Census,
		staging.New(fs, a.cfg.Batch.StagingDir, a.log),
		a.metrics,
		service.WithChunkSize(chunkSize),
		service.WithJoinMode(joinMode),
	)
	if err != nil {
		return err
	}

	rows, err := svc.Geocode(ctx, records)
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "Batch finished", "input_rows", len(records), "output_rows", len(rows))

	return dataset.Write(out, table, rows)
}
