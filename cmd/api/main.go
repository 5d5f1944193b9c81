package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	apiconfig "stock_research/pkg/api/config"
	apiexport "stock_research/pkg/api/export"
	apileague "stock_research/pkg/api/league"
	apiportfolio "stock_research/pkg/api/portfolio"
	apiregistry "stock_research/pkg/api/registry"
	apireports "stock_research/pkg/api/reports"
	apistocks "stock_research/pkg/api/stocks"
	"stock_research/pkg/core/agent"
	"stock_research/pkg/core/driveexport"
	"stock_research/pkg/core/fmpclient"
	"stock_research/pkg/core/league"
	"stock_research/pkg/core/portfolio"
	"stock_research/pkg/core/prompt"
	"stock_research/pkg/core/refresh"
	"stock_research/pkg/core/registry"
	"stock_research/pkg/core/report"
	"stock_research/pkg/core/snapcache"
	"stock_research/pkg/core/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// AppConfig is the non-agent half of config/models.yaml.
type AppConfig struct {
	RefreshSchedule   string            `yaml:"refresh_schedule"`
	DriveFolder       string            `yaml:"drive_folder"`
	DriveCredentials  string            `yaml:"drive_credentials"`
	PremiumPlan       bool              `yaml:"premium_plan"`
	ListenAddr        string            `yaml:"listen_addr"`
	SnapshotDirectory string            `yaml:"snapshot_directory"`
	Builtins          []refresh.Builtin `yaml:"builtins"` // empty keeps the defaults
}

func main() {
	// Load environment variables
	godotenv.Load()
	ctx := context.Background()

	// Initialize Prompt Library
	resourcesPath := "resources"
	if _, err := os.Stat(resourcesPath); os.IsNotExist(err) {
		exePath, _ := os.Executable()
		resourcesPath = filepath.Join(filepath.Dir(exePath), "resources")
	}
	if err := prompt.LoadFromDirectory(resourcesPath); err != nil {
		fmt.Printf("[WARNING] Failed to load prompt library: %v\n", err)
	}

	// Initialize manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var agentCfg agent.Config
	yaml.Unmarshal(configData, &agentCfg)
	agentMgr := agent.NewManager(agentCfg)

	var appCfg AppConfig
	yaml.Unmarshal(configData, &appCfg)
	if appCfg.ListenAddr == "" {
		appCfg.ListenAddr = ":8080"
	}

	// Database is optional: without DATABASE_URL the stores fall back to
	// memory and the snapshot cache to local files.
	var pool *pgxpool.Pool
	if err := store.InitDB(ctx); err != nil {
		fmt.Printf("[WARNING] Running without database: %v\n", err)
	} else {
		pool = store.GetPool()
		defer store.Close()
	}

	var (
		regStore       registry.Store
		reportStore    report.Store
		portfolioStore portfolio.Store
		leagueStore    league.Store
	)
	if pool != nil {
		regStore = registry.NewPGStore(pool)
		reportStore = report.NewPGStore(pool)
		portfolioStore = portfolio.NewPGStore(pool)
		leagueStore = league.NewPGStore(pool)
	} else {
		regStore = registry.NewMemoryStore()
		reportStore = report.NewMemoryStore()
		portfolioStore = portfolio.NewMemoryStore()
		leagueStore = league.NewMemoryStore()
	}
	cache := snapcache.NewCache(pool, appCfg.SnapshotDirectory)

	// Refresh routine
	routine := refresh.NewRoutine(regStore, cache, fmpclient.New(), os.Getenv("FMP_API_KEY"))
	if len(appCfg.Builtins) > 0 {
		routine.SetBuiltins(appCfg.Builtins)
	}
	if !appCfg.PremiumPlan {
		routine.SetGate(func(endpointID, symbol string) bool {
			gated := map[string]bool{"executive-compensation": true}
			return !gated[endpointID]
		})
	}

	portfolioSvc := portfolio.NewService(portfolioStore, routine)

	// Report pipeline
	pipeline := report.NewPipeline(agentMgr)

	// Optional Drive export
	var exporter *driveexport.Exporter
	if appCfg.DriveCredentials != "" {
		var err error
		exporter, err = driveexport.NewExporter(ctx, appCfg.DriveCredentials)
		if err != nil {
			fmt.Printf("[WARNING] Drive export disabled: %v\n", err)
			exporter = nil
		}
	}

	// Config endpoints
	configHandler := apiconfig.NewHandler(agentMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Endpoint registry
	registryHandler := apiregistry.NewHandler(regStore)
	http.HandleFunc("/api/endpoints", registryHandler.HandleEndpoints)
	http.HandleFunc("/api/endpoints/", registryHandler.HandleEndpoint)

	// Stock data
	stocksHandler := apistocks.NewHandler(routine, cache, regStore)
	http.HandleFunc("/api/stocks/refresh", stocksHandler.HandleRefresh)
	http.HandleFunc("/api/stocks/", stocksHandler.HandleSnapshot)

	// Reports
	reportsHandler := apireports.NewHandler(pipeline, reportStore, cache)
	http.HandleFunc("/api/reports/generate", reportsHandler.HandleGenerate)
	http.HandleFunc("/api/reports/save", reportsHandler.HandleSave)
	http.HandleFunc("/api/reports", reportsHandler.HandleVersions)
	http.HandleFunc("/api/reports/session-log", reportsHandler.HandleSessionLog)

	// Portfolio
	portfolioHandler := apiportfolio.NewHandler(portfolioSvc)
	http.HandleFunc("/api/portfolio", portfolioHandler.HandlePortfolio)
	http.HandleFunc("/api/portfolio/", portfolioHandler.HandleEntry)

	// League
	leagueHandler := apileague.NewHandler(leagueStore)
	http.HandleFunc("/api/league/scores", leagueHandler.HandleScores)
	http.HandleFunc("/api/league/scores/", leagueHandler.HandleScore)

	// Drive export
	exportHandler := apiexport.NewHandler(exporter, reportStore, appCfg.DriveFolder)
	http.HandleFunc("/api/export", exportHandler.HandleExport)

	// Scheduled refresh is opt-in via config
	if appCfg.RefreshSchedule != "" {
		scheduler := refresh.NewScheduler(routine, portfolioStore)
		if err := scheduler.Start(appCfg.RefreshSchedule); err != nil {
			fmt.Printf("[WARNING] Scheduler not started: %v\n", err)
		} else {
			defer scheduler.Stop()
		}
	}

	fmt.Printf("API server starting on %s...\n", appCfg.ListenAddr)
	fmt.Println("  - GET/POST   /api/endpoints")
	fmt.Println("  - GET/DELETE /api/endpoints/{id}")
	fmt.Println("  - POST       /api/stocks/refresh")
	fmt.Println("  - GET        /api/stocks/{symbol}")
	fmt.Println("  - POST       /api/reports/generate")
	fmt.Println("  - POST       /api/reports/save")
	fmt.Println("  - GET        /api/reports?ticker=&type=")
	fmt.Println("  - GET/POST   /api/portfolio")
	fmt.Println("  - GET/POST   /api/league/scores")
	fmt.Println("  - POST       /api/export")

	if err := http.ListenAndServe(appCfg.ListenAddr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
