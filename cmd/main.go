// LinkedIn Outreach Tool - Educational Purpose Only
// This tool demonstrates browser automation techniques and anti-detection patterns.
// DO NOT use this on live LinkedIn accounts - it violates their Terms of Service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"linkedin-outreach/internal/actions"
	"linkedin-outreach/internal/browser"
	"linkedin-outreach/internal/collect"
	"linkedin-outreach/internal/config"
	"linkedin-outreach/internal/generate"
	"linkedin-outreach/internal/leadstore"
	"linkedin-outreach/internal/models"
	"linkedin-outreach/internal/probe"
	"linkedin-outreach/internal/registry"
	"linkedin-outreach/internal/state"
	"linkedin-outreach/internal/stealth"
	"linkedin-outreach/internal/workflow"
)

// Version info
const (
	AppName    = "linkedin-outreach"
	AppVersion = "1.0.0"
)

// Command line flags
var (
	configPath = flag.String("config", "./config/config.yaml", "Path to config file")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error)")
	headless   = flag.Bool("headless", false, "Run in headless mode")
	prompt     = flag.String("prompt", "", "Outreach prompt used to generate messages (run command)")
)

// App holds all application dependencies. Components are built at most once
// per process through the registry, so command paths can share them freely.
type App struct {
	config     *config.Config
	logger     zerolog.Logger
	components *registry.Registry

	stateStore     *state.FileStore
	archive        *state.Archive
	sessionManager *browser.SessionManager
	engine         *workflow.Engine
}

func main() {
	flag.Parse()

	printBanner()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	app, err := NewApp()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}
	defer app.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	app.setupSignalHandler(cancel)

	var cmdErr error
	switch command {
	case "collect":
		cmdErr = app.cmdCollect(ctx)
	case "run":
		cmdErr = app.cmdRun(ctx)
	case "resume":
		cmdErr = app.cmdResume(ctx)
	case "status":
		cmdErr = app.cmdStatus()
	case "clear":
		cmdErr = app.cmdClear()
	case "help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if cmdErr != nil {
		app.logger.Error().Err(cmdErr).Msg("Command failed")
		os.Exit(1)
	}
}

// NewApp creates and initializes the application
func NewApp() (*App, error) {
	app := &App{components: registry.New()}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.config = cfg

	// Override with command line flags
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *headless {
		cfg.Browser.Headless = true
	}

	app.setupLogging()
	app.logger.Info().Str("version", AppVersion).Msg("Starting application")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app.stateStore = state.NewFileStore(cfg.Storage.StatePath, app.logger)

	archive, err := state.OpenArchive(cfg.Storage.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	app.archive = archive

	app.sessionManager = browser.NewSessionManager(cfg.Storage.CookiesPath, app.logger)

	app.logger.Info().Msg("Application initialized")
	return app, nil
}

// browserComponent initializes the browser on first use. Status and clear
// never pay the launch cost.
func (app *App) browserComponent() (*browser.Browser, error) {
	var buildErr error
	b := app.components.GetOrCreate("browser", func() any {
		bw, err := browser.NewBrowser(&app.config.Browser, app.logger)
		if err != nil {
			buildErr = err
			return (*browser.Browser)(nil)
		}
		if err := app.sessionManager.LoadCookies(bw.Browser()); err != nil {
			app.logger.Warn().Err(err).Msg("Failed to load saved cookies")
		}
		return bw
	}).(*browser.Browser)
	if buildErr != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", buildErr)
	}
	if b == nil {
		return nil, fmt.Errorf("browser failed to initialize earlier in this run")
	}
	return b, nil
}

func (app *App) pacerComponent() *stealth.Pacer {
	return app.components.GetOrCreate("pacer", func() any {
		return stealth.NewPacer(&app.config.Pacing, app.logger)
	}).(*stealth.Pacer)
}

func (app *App) proberComponent() *probe.Prober {
	return app.components.GetOrCreate("prober", func() any {
		return probe.New(probe.PolicyFromConfig(&app.config.Probe), app.logger)
	}).(*probe.Prober)
}

// engineComponent wires the workflow engine and its collaborators
func (app *App) engineComponent() (*workflow.Engine, error) {
	if app.engine != nil {
		return app.engine, nil
	}

	b, err := app.browserComponent()
	if err != nil {
		return nil, err
	}

	pacer := app.pacerComponent()
	prober := app.proberComponent()
	acts := actions.New(pacer, app.logger)
	driver := workflow.NewPageDriver(b, prober, acts, pacer, app.logger)

	app.engine = workflow.NewEngine(
		app.stateStore,
		app.archive,
		driver,
		generate.New(&app.config.Generator, app.logger),
		leadstore.New(&app.config.LeadStore, app.logger),
		leadstore.NewNotifier(&app.config.Notify, app.logger),
		pacer,
		app.config.Collect.StartURL,
		app.logger,
	)
	return app.engine, nil
}

// setupLogging configures the logger
func (app *App) setupLogging() {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	level := zerolog.InfoLevel
	switch app.config.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	app.logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	log.Logger = app.logger
}

// setupSignalHandler handles graceful shutdown. State is already persisted at
// every suspension point; the handler only flushes the session and cancels.
func (app *App) setupSignalHandler(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		app.logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
		app.Cleanup()
		os.Exit(0)
	}()
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	app.logger.Info().Msg("Cleaning up resources")

	if app.components.Registered("browser") {
		if b, err := app.browserComponent(); err == nil && b != nil {
			app.sessionManager.SaveCookies(b.Browser())
			b.Close()
		}
	}

	if app.archive != nil {
		app.archive.Close()
	}
}

// cmdCollect handles the collect command
func (app *App) cmdCollect(ctx context.Context) error {
	app.logger.Info().Msg("=== Collect Command ===")

	if err := app.config.ValidateForCollect(); err != nil {
		return err
	}

	engine, err := app.engineComponent()
	if err != nil {
		return err
	}

	st, err := engine.StartCollection()
	if err != nil {
		return fmt.Errorf("failed to start collection: %w", err)
	}
	if st.Step == models.StepProcessing {
		return fmt.Errorf("a campaign is in flight; finish it with 'resume' or discard it with 'clear'")
	}

	b, err := app.browserComponent()
	if err != nil {
		return err
	}

	collector := collect.New(b, app.proberComponent(), &app.config.Collect, engine.Intake, app.logger)
	added, err := collector.Run(ctx)
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if err := engine.StopCollection(); err != nil {
		return err
	}

	app.logger.Info().Int("queued", added).Msg("Collection completed")
	fmt.Printf("\nQueued %d profiles. Start processing with:\n", added)
	fmt.Printf("  %s -prompt \"...\" run\n", AppName)
	return nil
}

// cmdRun confirms the prompt and drives the queue to completion
func (app *App) cmdRun(ctx context.Context) error {
	app.logger.Info().Msg("=== Run Command ===")

	if err := app.config.ValidateForRun(); err != nil {
		return err
	}
	if *prompt == "" {
		return fmt.Errorf("the run command requires -prompt")
	}

	engine, err := app.engineComponent()
	if err != nil {
		return err
	}

	if err := engine.ConfirmPrompt(*prompt); err != nil {
		return err
	}

	st, err := app.stateStore.Load()
	if err != nil {
		return err
	}
	if st == nil || st.Step != models.StepProcessing {
		fmt.Println("No queued profiles ready to process. Run 'collect' first.")
		return nil
	}

	return engine.Run(ctx)
}

// cmdResume continues an interrupted campaign from its persisted snapshot
func (app *App) cmdResume(ctx context.Context) error {
	app.logger.Info().Msg("=== Resume Command ===")

	st, err := app.stateStore.Load()
	if err != nil {
		return err
	}
	if st == nil || st.Step != models.StepProcessing {
		fmt.Println("Nothing to resume.")
		return nil
	}

	engine, err := app.engineComponent()
	if err != nil {
		return err
	}

	if st.Paused {
		if err := engine.Unpause(); err != nil {
			return err
		}
	}

	return engine.Run(ctx)
}

// cmdStatus prints the snapshot and archive statistics. It never launches a
// browser.
func (app *App) cmdStatus() error {
	fmt.Println("\n========== Status ==========")

	st, err := app.stateStore.Load()
	if err != nil {
		return err
	}

	if st == nil {
		fmt.Println("\nNo campaign in flight.")
	} else {
		fmt.Printf("\nCampaign %s:\n", st.CampaignID)
		fmt.Printf("  Step:      %s\n", st.Step)
		if st.Step == models.StepProcessing {
			fmt.Printf("  Sub-state: %s\n", st.SubState)
			fmt.Printf("  Paused:    %v\n", st.Paused)
		}
		fmt.Printf("  Queued:    %d\n", len(st.Queue))
		fmt.Printf("  Processed: %d (cursor %d)\n", len(st.Processed), st.Cursor)
		fmt.Printf("  Sent:      %d\n", st.SentCount)
		fmt.Printf("  Failed:    %d\n", st.FailedCount)
	}

	sent, failed, err := app.archive.Totals()
	if err != nil {
		return err
	}
	campaigns, _ := app.archive.CampaignCount()
	fmt.Printf("\nAll-time (archived):\n")
	fmt.Printf("  Campaigns: %d\n", campaigns)
	fmt.Printf("  Sent:      %d\n", sent)
	fmt.Printf("  Failed:    %d\n", failed)

	fmt.Printf("\nSession:\n")
	if app.sessionManager.HasSavedSession() {
		if age, err := app.sessionManager.SessionAge(); err == nil {
			fmt.Printf("  Saved session: %s ago\n", age.Round(time.Minute))
		} else {
			fmt.Printf("  Saved session present\n")
		}
	} else {
		fmt.Printf("  No saved session\n")
	}

	fmt.Println("\n============================")
	return nil
}

// cmdClear discards the persisted snapshot. Archived campaign totals survive.
func (app *App) cmdClear() error {
	if err := app.stateStore.Clear(); err != nil {
		return err
	}
	fmt.Println("Workflow state cleared. Archived totals retained.")
	return nil
}

// printBanner prints the application banner
func printBanner() {
	fmt.Println(`
╔═══════════════════════════════════════════════════════════════╗
║          LinkedIn Outreach Tool - v` + AppVersion + `                      ║
║                                                               ║
║  ⚠️  EDUCATIONAL PURPOSE ONLY - DO NOT USE IN PRODUCTION  ⚠️  ║
║                                                               ║
║  This tool violates LinkedIn's Terms of Service.              ║
║  Using it on real accounts may result in permanent bans.      ║
╚═══════════════════════════════════════════════════════════════╝
`)
}

// printUsage prints usage information
func printUsage() {
	fmt.Println(`
Usage: linkedin-outreach [options] <command>

Commands:
  collect   Scan search result pages and queue profiles
  run       Confirm the prompt and process the queued profiles
  resume    Continue an interrupted campaign from saved state
  status    Show current campaign and all-time statistics
  clear     Discard the in-flight campaign (archived totals survive)
  help      Show this help message

Options:
  -config string    Path to config file (default "./config/config.yaml")
  -log-level string Log level: debug, info, warn, error
  -headless         Run browser in headless mode
  -prompt string    Outreach prompt for message generation (run command)

Examples:
  linkedin-outreach collect
  linkedin-outreach -prompt "intro about our Go tooling" run
  linkedin-outreach resume
  linkedin-outreach status

Configuration:
  1. Copy .env.example to .env for service endpoints and tokens
  2. Edit config/config.yaml to customize search and pacing
  3. Sign in manually in the launched browser; the session is saved

For more information, see README.md
`)
}
