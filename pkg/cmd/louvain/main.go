package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gilchrisn/louvain-modularity/pkg/louvain"
	"github.com/gilchrisn/louvain-modularity/pkg/metrics"
	"github.com/gilchrisn/louvain-modularity/pkg/output"
	"github.com/gilchrisn/louvain-modularity/pkg/parser"
	"github.com/gilchrisn/louvain-modularity/pkg/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("louvain", flag.ContinueOnError)
	configFile := fs.String("config", "", "configuration file (yaml, json or toml)")
	edgesFile := fs.String("edges", "", "edge list file, one \"from to [weight]\" per line (.sz for snappy)")
	labelsFile := fs.String("labels", "", "optional node labels file, one \"id label\" per line")
	outDir := fs.String("out", "", "output directory (overrides output.directory)")
	prefix := fs.String("prefix", "", "output file prefix (overrides output.prefix)")
	metricsFile := fs.String("metrics-file", "", "write Prometheus metrics to this textfile (overrides metrics.textfile)")
	seed := fs.Int64("seed", 0, "random seed; enables randomized node order when non-zero")
	if err := fs.Parse(args); err != nil {
		return err
	}

	config := louvain.NewConfig()
	if *configFile != "" {
		if err := config.LoadFromFile(*configFile); err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	if *outDir != "" {
		config.Set("output.directory", *outDir)
	}
	if *prefix != "" {
		config.Set("output.prefix", *prefix)
	}
	if *metricsFile != "" {
		config.Set("metrics.textfile", *metricsFile)
	}
	if *seed != 0 {
		config.Set("algorithm.randomized", true)
		config.Set("algorithm.random_seed", *seed)
	}

	if *edgesFile == "" {
		fs.Usage()
		return errors.New("missing -edges")
	}
	if err := validation.ValidateInputFile(*edgesFile); err != nil {
		return err
	}
	if *labelsFile != "" {
		if err := validation.ValidateInputFile(*labelsFile); err != nil {
			return err
		}
	}
	if err := validation.ValidateOutputDirectory(config.OutputDirectory()); err != nil {
		return err
	}

	logger := config.CreateLogger()

	g, err := parser.LoadGraph(*edgesFile, *labelsFile)
	if err != nil {
		return fmt.Errorf("failed to load graph: %w", err)
	}
	logger.Info().
		Str("edges", *edgesFile).
		Int("nodes", g.Order()).
		Int("edge_count", g.Size()).
		Msg("Graph loaded")

	reg := metrics.NewRegistry()
	result, runErr := louvain.Run(ctx, g, config, louvain.WithLogger(logger), louvain.WithMetrics(reg))

	if path := config.MetricsTextfile(); path != "" {
		if err := reg.WriteTextfile(path); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to write metrics")
		}
	}
	if runErr != nil {
		return fmt.Errorf("louvain failed: %w", runErr)
	}

	writer := output.NewFileWriter[string, string](logger)
	written, err := writer.WriteAll(result, config.OutputDirectory(), config.OutputPrefix())
	if err != nil {
		return err
	}

	displayResults(stdout, result, written)
	return nil
}

func displayResults(w io.Writer, result *louvain.Result[string, string], written []string) {
	fmt.Fprintln(w, "=== Results ===")
	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(w, "Number of levels: %d\n", result.NumLevels)
	fmt.Fprintf(w, "Communities: %d\n", result.NumCommunities)
	fmt.Fprintf(w, "Final modularity: %.6f\n", result.Modularity)
	fmt.Fprintf(w, "Normalized modularity: %.6f\n", result.NormalizedModularity)
	fmt.Fprintf(w, "Runtime: %d ms\n", result.Statistics.RuntimeMS)
	fmt.Fprintf(w, "Total moves: %d\n", result.Statistics.TotalMoves)

	for _, level := range result.Levels {
		fmt.Fprintf(w, "\nLevel %d:\n", level.Level)
		fmt.Fprintf(w, "  Nodes: %d\n", level.NumNodes)
		fmt.Fprintf(w, "  Communities: %d\n", level.NumCommunities)
		fmt.Fprintf(w, "  Modularity: %.6f\n", level.Modularity)
		fmt.Fprintf(w, "  Moves: %d\n", level.NumMoves)
		fmt.Fprintf(w, "  Passes: %d\n", level.NumPasses)
	}

	fmt.Fprintln(w, "\nGenerated files:")
	for _, path := range written {
		fmt.Fprintf(w, "  - %s\n", path)
	}
}
