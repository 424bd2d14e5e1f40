package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/autoapply/internal/config"
	"github.com/jonathan/autoapply/internal/driver"
	"github.com/jonathan/autoapply/internal/llm"
	"github.com/jonathan/autoapply/internal/negotiator"
	"github.com/jonathan/autoapply/internal/observability"
	"github.com/jonathan/autoapply/internal/profile"
	"github.com/jonathan/autoapply/internal/resolver"
	"github.com/jonathan/autoapply/internal/resume"
	"github.com/jonathan/autoapply/internal/runner"
	"github.com/jonathan/autoapply/internal/sites"
	"github.com/jonathan/autoapply/internal/visitstore"
)

var (
	applyConfigPath    string
	applyProfilePath   string
	applyLinksPath     string
	applySitesPath     string
	applyVisitDB       string
	applyMaxConcurrent int
	applyHeadful       bool
	applyVerbose       bool
	applyNoSkip        bool
)

var applyCmd = &cobra.Command{
	Use:   "apply [urls...]",
	Short: "Apply to job postings",
	Long:  `Apply to the given job posting URLs, or to every URL in the configured links file. Each URL is processed independently and recorded in the visit database exactly once.`,
	RunE:  runApply,
}

func init() {
	applyCmd.Flags().StringVar(&applyConfigPath, "config", "", "Path to JSON configuration file")
	applyCmd.Flags().StringVar(&applyProfilePath, "profile", "", "Path to the applicant profile JSON")
	applyCmd.Flags().StringVar(&applyLinksPath, "links", "", "Path to a file of job URLs, one per line")
	applyCmd.Flags().StringVar(&applySitesPath, "sites", "", "Path to site configuration overrides")
	applyCmd.Flags().StringVar(&applyVisitDB, "visit-db", "", "Path to the SQLite visit database")
	applyCmd.Flags().IntVar(&applyMaxConcurrent, "max-concurrent", 0, "Maximum parallel application runs")
	applyCmd.Flags().BoolVar(&applyHeadful, "headful", false, "Show the browser window")
	applyCmd.Flags().BoolVar(&applyVerbose, "verbose", false, "Print detailed debug information")
	applyCmd.Flags().BoolVar(&applyNoSkip, "no-skip", false, "Re-apply to URLs already recorded as successful")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Profile == "" {
		return fmt.Errorf("an applicant profile is required: pass --profile or set it in the config file")
	}

	prof, err := profile.Load(cfg.Profile)
	if err != nil {
		return err
	}
	if err := prof.Validate(); err != nil {
		return err
	}

	registry := sites.NewRegistry()
	if cfg.Sites != "" {
		if registry, err = sites.NewRegistryFromFile(cfg.Sites); err != nil {
			return err
		}
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	candidates := make([]negotiator.CandidateSite, 0, len(args))
	for _, url := range args {
		candidates = append(candidates, negotiator.CandidateSite{URL: url})
	}
	if len(candidates) == 0 {
		if cfg.Links == "" {
			return fmt.Errorf("nothing to do: pass URLs as arguments or configure a links file")
		}
		if candidates, err = runner.ReadLinksFile(cfg.Links); err != nil {
			return err
		}
	}

	n := negotiator.New(negotiator.Options{
		Factory: driver.NewFactory(driver.SessionOptions{
			Headless: cfg.HeadlessEnabled(),
		}),
		Profile:     prof,
		Resolver:    resolver.New(prof, buildResponder(ctx, cfg, prof)),
		Store:       store,
		Registry:    registry,
		Attachments: resume.NewSelector(cfg.Resumes),
		Waits:       buildWaits(cfg.Waits),
		SkipVisited: cfg.SkipVisitedEnabled(),
		Verbose:     cfg.Verbose,
	})

	reports := runner.Run(ctx, n, candidates, cfg.MaxConcurrent)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		for _, report := range reports {
			printer.PrintReport(report)
		}
	}
	printer.PrintBatchSummary(reports)
	return nil
}

// effectiveConfig layers flag values over the config file over defaults.
func effectiveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if applyConfigPath != "" {
		loaded, err := config.LoadConfig(applyConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())

	if applyProfilePath != "" {
		cfg.Profile = applyProfilePath
	}
	if applyLinksPath != "" {
		cfg.Links = applyLinksPath
	}
	if applySitesPath != "" {
		cfg.Sites = applySitesPath
	}
	if applyVisitDB != "" {
		cfg.VisitDB = applyVisitDB
	}
	if applyMaxConcurrent > 0 {
		cfg.MaxConcurrent = applyMaxConcurrent
	}
	if cmd.Flags().Changed("headful") {
		headless := !applyHeadful
		cfg.Headless = &headless
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = applyVerbose
	}
	if cmd.Flags().Changed("no-skip") {
		skip := !applyNoSkip
		cfg.SkipVisited = &skip
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// openStore picks the Postgres backend when a database URL is configured,
// otherwise the local SQLite file.
func openStore(ctx context.Context, cfg config.Config) (visitstore.Store, error) {
	if cfg.DatabaseURL != "" {
		return visitstore.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	return visitstore.NewSQLiteStore(cfg.VisitDB)
}

// buildResponder wires the generative fallback. Any setup failure degrades to
// no fallback rather than aborting the batch.
func buildResponder(ctx context.Context, cfg config.Config, prof *profile.Profile) resolver.Responder {
	llmCfg := llm.DefaultConfig()
	llmCfg.Provider = llm.Provider(cfg.LLMProvider)
	if cfg.LLMModel != "" {
		llmCfg.Model = cfg.LLMModel
	}
	if cfg.LLMBaseURL != "" {
		llmCfg.BaseURL = cfg.LLMBaseURL
	}
	if cfg.LLMTemperature > 0 {
		llmCfg.Temperature = float32(cfg.LLMTemperature)
	}
	if cfg.LLMTimeoutMs > 0 {
		llmCfg.Timeout = time.Duration(cfg.LLMTimeoutMs) * time.Millisecond
	}
	if cfg.LLMMaxInFlight > 0 {
		llmCfg.MaxInFlight = cfg.LLMMaxInFlight
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	client, err := llm.NewClient(ctx, llmCfg, apiKey)
	if err != nil {
		log.Printf("generative fallback disabled: %v", err)
		return nil
	}
	return llm.NewResponder(client, prof, llmCfg.MaxInFlight, cfg.Verbose)
}

// buildWaits converts the millisecond configuration into durations, leaving
// zeros for the negotiator's defaults.
func buildWaits(w config.Waits) negotiator.Waits {
	return negotiator.Waits{
		Banner:       time.Duration(w.BannerMs) * time.Millisecond,
		Navigation:   time.Duration(w.NavigationMs) * time.Millisecond,
		Form:         time.Duration(w.FormMs) * time.Millisecond,
		SubmitVerify: time.Duration(w.SubmitVerifyMs) * time.Millisecond,
	}
}
