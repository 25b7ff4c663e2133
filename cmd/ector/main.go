// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/ector"
	"github.com/poiesic/ector/catalog"
	"github.com/poiesic/ector/core"
	"github.com/poiesic/ector/storage/postgres"
	"github.com/poiesic/ector/verify"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {

	return &cli.App{
		Name:  "ector",
		Usage: "Regional catalog registry and table ingestion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "YAML catalog file (defaults to the built-in catalog)",
				EnvVars: []string{"ECTOR_CATALOG"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "regions",
				Usage:  "List region codes and their schemas",
				Action: regionsCommand,
			},
			{
				Name:      "filter",
				Usage:     "Assign a region's tables to workflows",
				ArgsUsage: "LABEL...",
				Action:    filterCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "region",
						Aliases:  []string{"r"},
						Usage:    "Region code",
						Required: true,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Register every catalog table in a table store",
				Action: seedCommand,
				Flags:  []cli.Flag{dbFlag()},
			},
			{
				Name:   "ingest",
				Usage:  "Read region tables and group them by label",
				Action: ingestCommand,
				Flags:  []cli.Flag{dbFlag(), regionFlag()},
			},
			{
				Name:   "verify",
				Usage:  "Check that every catalog table exists in a table store",
				Action: verifyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to BadgerDB table store directory",
					},
					&cli.StringFlag{
						Name:    "dsn",
						Usage:   "PostgreSQL connection string for an information_schema metastore",
						EnvVars: []string{"ECTOR_DSN"},
					},
					regionFlag(),
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent table probes",
						Value: 4,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N tables",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts per table",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				},
			},
		},
	}
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB table store directory",
		Required: true,
	}
}

func regionFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:    "region",
		Aliases: []string{"r"},
		Usage:   "Region code (repeatable)",
	}
}

func loadRegistry(c *cli.Context) (*catalog.Registry, error) {
	path := c.String("catalog")
	if path == "" {
		return catalog.DefaultRegistry(), nil
	}
	reg, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return reg, nil
}

func openWorkspace(c *cli.Context) (*ector.Workspace, error) {
	reg, err := loadRegistry(c)
	if err != nil {
		return nil, err
	}
	ws, err := ector.Open(c.String("db"), ector.WithRegistry(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to open table store: %w", err)
	}
	return ws, nil
}

func regionsCommand(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "Catalog: %s\n", reg.CatalogMaster())
	for _, region := range reg.Regions() {
		fmt.Fprintf(out, "%s\t%s\n", region.Code, region.Schema)
	}
	return nil
}

func filterCommand(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	labels := make([]core.Label, c.NArg())
	for i, arg := range c.Args().Slice() {
		labels[i] = core.Label(arg)
	}

	result, err := reg.FilterWorkflow(c.String("region"), labels...)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if result.Empty() {
		fmt.Fprintln(out, result.Message)
		return nil
	}
	for _, label := range result.Labels {
		fmt.Fprintf(out, "%s:\n", label)
		for _, description := range result.Assignments[label] {
			fmt.Fprintf(out, "  %s\n", description)
		}
	}
	return nil
}

func seedCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	handles, err := ws.Seed(context.Background())
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Registered %d tables\n", len(handles))
	return nil
}

func ingestCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	ingestor, err := ws.NewIngestor()
	if err != nil {
		return err
	}

	dataset, err := ingestor.Ingest(context.Background(), c.StringSlice("region"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	out := c.App.Writer
	for _, label := range core.DefaultLabels() {
		fmt.Fprintf(out, "%s\t%d\n", label, len(dataset[label]))
	}
	var extra []core.Label
	for label := range dataset {
		if !slices.Contains(core.DefaultLabels(), label) {
			extra = append(extra, label)
		}
	}
	slices.Sort(extra)
	for _, label := range extra {
		fmt.Fprintf(out, "%s\t%d\n", label, len(dataset[label]))
	}
	return nil
}

func verifyCommand(c *cli.Context) error {
	ctx := context.Background()

	dbPath, dsn := c.String("db"), c.String("dsn")
	if (dbPath == "") == (dsn == "") {
		return fmt.Errorf("exactly one of --db or --dsn is required")
	}

	config := &verify.Config{
		Workers:        c.Int("workers"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	var verifier *verify.Verifier
	if dsn != "" {
		reg, err := loadRegistry(c)
		if err != nil {
			return err
		}
		store, err := postgres.Open(ctx, dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to metastore: %w", err)
		}
		defer store.Close()
		verifier = verify.NewVerifier(reg, store, config, os.Stderr)
	} else {
		ws, err := openWorkspace(c)
		if err != nil {
			return err
		}
		defer ws.Close()
		verifier = ws.NewVerifier(config, os.Stderr)
	}

	report, err := verifier.Run(ctx, c.StringSlice("region"))
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	out := c.App.Writer
	for _, res := range report.Missing() {
		fmt.Fprintf(out, "MISSING\t%s\t%s\t%v\n", res.Region, res.Ref, res.Err)
	}
	fmt.Fprintf(out, "%d/%d tables found in %s\n", report.Found(), len(report.Results), report.Elapsed.Round(time.Millisecond))
	if !report.OK() {
		return cli.Exit(fmt.Sprintf("%d tables missing", len(report.Missing())), 1)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
