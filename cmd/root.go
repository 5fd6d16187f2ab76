package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	appextract "github.com/RustedBytes/extract-audio/application/extract"
	"github.com/RustedBytes/extract-audio/domain/extract"
	"github.com/RustedBytes/extract-audio/infrastructure/columnar"
	"github.com/RustedBytes/extract-audio/infrastructure/config"
	"github.com/RustedBytes/extract-audio/infrastructure/filesystem"
	"github.com/RustedBytes/extract-audio/infrastructure/metadata"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config

	flagInput            string
	flagInputDir         string
	flagFormat           string
	flagOutput           string
	flagThreads          int
	flagMetadataFile     string
	flagSkipFailedShards bool
)

var rootCmd = &cobra.Command{
	Use:   "extract-audio",
	Short: "Extract audio payloads from columnar dataset exports",
	Long: `extract-audio materializes the binary audio payloads embedded in
columnar machine-learning dataset exports as individual files on disk:

  - Reads Parquet tables and Arrow streaming files
  - Extracts each row's audio blob under its recorded file name
  - Skips files that already exist, so interrupted runs can be resumed
  - Optionally writes a file_name,transcription CSV index

Example:
  extract-audio --input shard.parquet --output out/
  extract-audio --input-dir shards/ --format arrow --output out/ \
    --threads 8 --metadata-file meta.csv`,
	RunE: runExtraction,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")

	rootCmd.Flags().StringVar(&flagInput, "input", "", "Path to a single input shard")
	rootCmd.Flags().StringVar(&flagInputDir, "input-dir", "", "Path to a directory of input shards")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", fmt.Sprintf("Input format: %s or %s (default %s)", extract.FormatArrow, extract.FormatParquet, extract.DefaultFormat))
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "Directory for extracted audio files (required)")
	rootCmd.Flags().IntVar(&flagThreads, "threads", 0, fmt.Sprintf("Number of concurrent extraction workers (default %d)", config.DefaultThreads))
	rootCmd.Flags().StringVar(&flagMetadataFile, "metadata-file", "", "CSV file where transcriptions should be written")
	rootCmd.Flags().BoolVar(&flagSkipFailedShards, "skip-failed-shards", false, "Continue with remaining shards when one fails fatally")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = "config/config.yaml"
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional; flags carry the full surface
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// RunOptions is the fully resolved configuration for one extraction run
type RunOptions struct {
	Input            string
	InputDir         string
	Format           extract.Format
	OutputDir        string
	Threads          int
	MetadataFile     string
	SkipFailedShards bool
}

// ResolveOptions merges flag values with config-file defaults and
// validates them. Flags win over config; config wins over built-in
// defaults.
func ResolveOptions(cfg *config.Config, flags RunOptions) (RunOptions, error) {
	opts := flags

	if cfg != nil {
		if opts.OutputDir == "" {
			opts.OutputDir = cfg.Output.Directory
		}
		if opts.MetadataFile == "" {
			opts.MetadataFile = cfg.Output.MetadataFile
		}
		if opts.Format == "" && cfg.Extraction.Format != "" {
			opts.Format = extract.Format(cfg.Extraction.Format)
		}
		if opts.Threads == 0 {
			opts.Threads = cfg.Extraction.Threads
		}
		if !opts.SkipFailedShards {
			opts.SkipFailedShards = cfg.Extraction.SkipFailedShards
		}
	}

	if opts.Format == "" {
		opts.Format = extract.DefaultFormat
	}
	format, err := extract.ParseFormat(string(opts.Format))
	if err != nil {
		return RunOptions{}, err
	}
	opts.Format = format

	if opts.OutputDir == "" {
		return RunOptions{}, fmt.Errorf("an output directory is required (--output)")
	}

	if opts.Threads == 0 {
		opts.Threads = config.DefaultThreads
	}
	if opts.Threads < 1 {
		return RunOptions{}, fmt.Errorf("thread count must be at least 1, got %d", opts.Threads)
	}

	return opts, nil
}

func runExtraction(cmd *cobra.Command, args []string) error {
	opts, err := ResolveOptions(GetConfig(), RunOptions{
		Input:            flagInput,
		InputDir:         flagInputDir,
		Format:           extract.Format(flagFormat),
		OutputDir:        flagOutput,
		Threads:          flagThreads,
		MetadataFile:     flagMetadataFile,
		SkipFailedShards: flagSkipFailedShards,
	})
	if err != nil {
		return err
	}

	return RunExtraction(cmd.Context(), opts, os.Stdout)
}

// RunExtraction wires the production pipeline for the resolved options
// and runs it. Exposed so integration scenarios can drive a full run
// against temporary directories.
func RunExtraction(ctx context.Context, opts RunOptions, output io.Writer) error {
	shards, err := appextract.ResolveShards(opts.Input, opts.InputDir, opts.Format)
	if err != nil {
		return err
	}

	writer, err := filesystem.NewWriter(opts.OutputDir)
	if err != nil {
		return err
	}

	var sink extract.MetadataSink
	if opts.MetadataFile != "" {
		sink = metadata.NewSink(opts.MetadataFile)
	}

	openReader := func(ctx context.Context, path string) (extract.ShardReader, error) {
		return columnar.Open(ctx, path, opts.Format)
	}

	service := appextract.NewService(openReader, writer, sink, appextract.NewDispatcher(opts.Threads), opts.SkipFailedShards, output)

	summary, err := service.Run(ctx, shards)
	fmt.Fprintf(output, "Total: %d written, %d skipped, %d failed\n",
		summary.TotalWritten(), summary.TotalSkipped(), summary.TotalFailed())
	if err != nil {
		return err
	}

	if opts.MetadataFile != "" {
		fmt.Fprintf(output, "Metadata written to %s\n", opts.MetadataFile)
	}
	fmt.Fprintln(output, "Done!")
	return nil
}
