// Command corpusd is a demo binary wiring a ChromedpFetcher +
// ReadabilityExtractor to an Organizer: ingest a URL, search the
// resulting corpus, and save/load a snapshot. Grounded on the teacher's
// cmd/<name>/main.go convention of a thin main() calling into an
// Execute()-style root command (cmd/orchestrator, jpl-au-llmd's cmd/root.go),
// using github.com/spf13/cobra for subcommands the way jpl-au-llmd and
// TheApeMachine-a2a-go do in the example pack (the teacher's own many
// cmd/ binaries hand-roll flag parsing instead, which doesn't fit a
// multi-subcommand CLI as well as cobra does).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/manifold-docs/corpusd/internal/collab/extract"
	"github.com/manifold-docs/corpusd/internal/collab/fetch"
	"github.com/manifold-docs/corpusd/internal/collab/websearch"
	"github.com/manifold-docs/corpusd/internal/config"
	"github.com/manifold-docs/corpusd/internal/obs"
	"github.com/manifold-docs/corpusd/internal/organizer"
	"github.com/manifold-docs/corpusd/internal/snapshot"
)

var (
	cfgPath    string
	snapDir    string
	snapName   string
	sourceFlag string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corpusd",
		Short: "Document organization and retrieval core for a single library's docs",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a corpusd YAML config file")
	root.PersistentFlags().StringVar(&snapDir, "snapshot-dir", "", "override the configured snapshot FileStore directory")
	root.PersistentFlags().StringVar(&snapName, "snapshot-name", "", "override the configured snapshot name")

	root.AddCommand(newIngestCmd(), newSearchCmd(), newRelatedCmd(), newSnapshotCmd())
	return root
}

func loadConfig() (config.Config, obs.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	if snapDir != "" {
		cfg.Snapshot.Dir = snapDir
	}
	if snapName != "" {
		cfg.Snapshot.Name = snapName
	}
	log := obs.NewZerologLogger(obs.InitZerolog(cfg.LogLevel))
	return cfg, log, nil
}

// loadOrganizer builds an Organizer from cfg's similarity threshold and,
// if a prior snapshot exists in the configured backend, restores it.
func loadOrganizer(ctx context.Context, cfg config.Config, log obs.Logger) (*organizer.Organizer, error) {
	org := organizer.New(organizer.WithSimilarityThreshold(cfg.SimilarityThreshold), organizer.WithLogger(log))

	if cfg.Snapshot.Backend == "" {
		return org, nil
	}
	if cfg.Snapshot.Backend == "file" {
		if err := os.MkdirAll(cfg.Snapshot.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("prepare snapshot dir: %w", err)
		}
	}
	store, err := snapshot.NewStore(ctx, cfg.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("build snapshot store: %w", err)
	}
	data, err := store.Load(ctx, cfg.Snapshot.Name)
	if err != nil {
		if err == snapshot.ErrSnapshotNotFound {
			return org, nil
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	docs, err := snapshot.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	for _, d := range docs {
		org.Restore(d)
	}
	return org, nil
}

func saveOrganizer(ctx context.Context, cfg config.Config, org *organizer.Organizer) error {
	if cfg.Snapshot.Backend == "" {
		return nil
	}
	data, err := snapshot.Marshal(org.All())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	store, err := snapshot.NewStore(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("build snapshot store: %w", err)
	}
	return store.Save(ctx, cfg.Snapshot.Name, data)
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [url]",
		Short: "Fetch a URL with a headless browser, extract its article text, and ingest it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			org, err := loadOrganizer(ctx, cfg, log)
			if err != nil {
				return err
			}

			url := args[0]
			fetcher := fetch.NewChromedpFetcher()
			raw, err := fetcher.FetchOne(ctx, url)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			extractor := extract.NewReadabilityExtractor(url)
			content, title, err := extractor.Extract(ctx, raw.HTML)
			if err != nil {
				return fmt.Errorf("extract: %w", err)
			}

			source := sourceFlag
			if source == "" {
				source = "cli"
			}
			id, err := org.Ingest(organizer.Input{Source: source, URL: url, Title: title, Content: content})
			if err != nil {
				return fmt.Errorf("ingest: %w", err)
			}

			if err := saveOrganizer(ctx, cfg, org); err != nil {
				return err
			}
			fmt.Println(id.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceFlag, "source", "", "source label recorded on the ingested document")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var webFallback bool
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the ingested corpus, printing ranked results with match reasons",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			org, err := loadOrganizer(ctx, cfg, log)
			if err != nil {
				return err
			}

			results := org.Search(args[0])
			if len(results) == 0 && webFallback {
				web := org.WebSearch(ctx, websearch.NewChromeDDGSearch(), args[0], 10)
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(web)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		},
	}
	cmd.Flags().BoolVar(&webFallback, "web-fallback", false, "fall back to the external web search passthrough when the corpus has no matches")
	return cmd
}

func newRelatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related [document-id]",
		Short: "Print the documents related to the given document id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			org, err := loadOrganizer(ctx, cfg, log)
			if err != nil {
				return err
			}

			id, err := parseDocID(args[0])
			if err != nil {
				return err
			}
			views, err := org.GetRelated(id)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(views)
		},
	}
}

func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect the on-disk snapshot of the corpus",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current snapshot's document count",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			org, err := loadOrganizer(ctx, cfg, log)
			if err != nil {
				return err
			}
			fmt.Printf("%d documents\n", len(org.All()))
			return nil
		},
	})
	return cmd
}
