package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"apilens/internal/analyzer"
	"apilens/internal/config"
	"apilens/internal/csparser"
	"apilens/internal/exporter"
	"apilens/internal/logger"
	"apilens/internal/model"
	"apilens/internal/synthesizer"
	"apilens/internal/ui"
)

const (
	appName    = "API Lens"
	appVersion = "1.0.0"
	appDesc    = "A Pure Go static analysis tool for ASP.NET Core Web API codebases"
)

var (
	configPath  string
	verbose     bool
	showVersion bool
	outputDir   string
	formats     string
	envName     string
)

func init() {
	flag.StringVar(&configPath, "config", "config.yaml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "config.yaml", "Path to configuration file (shorthand)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.StringVar(&outputDir, "output", "", "Override output directory from config")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (json,excel,word,openapi,yaml,http)")
	flag.StringVar(&envName, "env", "", "Environment to synthesize sample requests against")
}

func main() {
	// Ensure "Press Enter to Exit" runs even on panic or error
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("\n❌ PANIC: %v\n", r)
		}
		waitForEnter()
	}()

	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	printBanner()

	logger.Info("Loading configuration...")
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		return 1
	}

	if outputDir != "" {
		cfg.Output.Dir = outputDir
		cfg.EnsureOutputDir()
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}

	logPath := filepath.Join(cfg.Output.Dir, "apilens.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		return 1
	}

	if err := runAnalysis(cfg); err != nil {
		logger.Error("Analysis failed: %v", err)
		return 1
	}

	logger.Info("✅ Analysis Complete. Check [%s] directory.", cfg.Output.Dir)
	return 0
}

// waitForEnter pauses execution and waits for user to press Enter.
// This prevents the console window from closing immediately when double-clicked.
func waitForEnter() {
	fmt.Println("\n==========================================")
	fmt.Println("Execution Finished. Press 'Enter' to exit.")
	fmt.Println("==========================================")
	bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func runAnalysis(cfg *config.Config) error {
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseScanning,
		ui.PhaseParsing,
		ui.PhaseSynthesizing,
		ui.PhaseGenerating,
	})

	// --- Phase 1: Scanning ---
	logger.Info("Phase 1: Scanning source files...")
	scanBar := pipeline.NextPhase(100)

	files, err := analyzer.ScanDirectory(cfg.Project.RootDir, cfg.Project.ExcludeDirs)
	if err != nil {
		return err
	}
	scanBar.SetTotal(len(files))

	contents := make(map[string]string, len(files))
	for _, path := range files {
		if cfg.ShouldExclude(path) {
			scanBar.Increment()
			continue
		}
		content, err := analyzer.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read file %s: %v", path, err)
			scanBar.Increment()
			continue
		}
		contents[path] = content
		scanBar.Increment()
	}
	scanBar.Finish()

	// --- Phase 2: Parsing ---
	logger.Info("Phase 2: Parsing controllers...")
	parseBar := pipeline.NextPhase(len(contents))

	// First pass: project-wide type catalog, so a controller can bind DTOs
	// declared in other files
	catalog := model.NewTypeCatalog()
	for _, path := range files {
		content, ok := contents[path]
		if !ok {
			continue
		}
		blocks, _ := csparser.SegmentDocument(content)
		docCatalog := analyzer.BuildCatalog(blocks)
		for _, name := range docCatalog.Names() {
			catalog.Add(docCatalog.Lookup(name))
		}
	}

	cache := analyzer.NewCache().WithSharedTypes(catalog)
	report := &model.Report{
		Summary: model.NewSummary(),
		Catalog: catalog,
	}
	report.Summary.AnalysisDate = time.Now().Format("2006-01-02")

	// Second pass: endpoints
	for _, path := range files {
		content, ok := contents[path]
		if !ok {
			continue
		}

		result := cache.Parse(path, content)
		report.Summary.TotalDocuments++

		report.Controllers = append(report.Controllers, result.Controllers...)
		report.Endpoints = append(report.Endpoints, result.Endpoints...)
		report.Warnings = append(report.Warnings, result.Warnings...)

		for _, w := range result.Warnings {
			logger.ParseWarning(path, w.Line, w.Message)
		}

		parseBar.Increment()
	}
	parseBar.Finish()

	report.Summary.TotalControllers = len(report.Controllers)
	report.Summary.TotalTypes = catalog.Len()
	for _, ep := range report.Endpoints {
		report.Summary.AddEndpoint(ep)
	}

	logger.Info("Found %d controllers, %d endpoints, %d types",
		report.Summary.TotalControllers, report.Summary.TotalEndpoints, report.Summary.TotalTypes)

	// --- Phase 3: Synthesizing sample requests ---
	logger.Info("Phase 3: Synthesizing sample requests...")
	synthBar := pipeline.NextPhase(len(report.Endpoints))

	env, err := cfg.EnvironmentByName(envName)
	if err != nil {
		return err
	}
	report.Environment = env

	synth := synthesizer.New(catalog, synthesizer.Options{
		CollectionCount: cfg.Synthesis.CollectionCount,
		MaxDepth:        cfg.Synthesis.MaxDepth,
	})

	for i := range report.Endpoints {
		ep := &report.Endpoints[i]
		req, warns, err := synth.BuildRequest(ep, env)
		if err != nil {
			logger.Warn("Skipping sample for %s: %v", ep.String(), err)
			synthBar.Increment()
			continue
		}
		for _, w := range warns {
			logger.Warn("%s: %s", ep.String(), w.String())
		}
		report.Warnings = append(report.Warnings, warns...)
		report.Samples = append(report.Samples, model.RequestSample{Endpoint: ep, Request: req})
		synthBar.Increment()
	}
	synthBar.Finish()
	report.Summary.TotalWarnings = len(report.Warnings)

	// --- Phase 4: Reporting ---
	logger.Info("Phase 4: Generating reports...")
	exporters := exporter.GetExporters(cfg.Output.Formats)
	genBar := pipeline.NextPhase(len(exporters))

	var exportErrors []error
	for _, exp := range exporters {
		if err := exp.Export(report, cfg); err != nil {
			logger.Error("Export failed: %v", err)
			exportErrors = append(exportErrors, err)
		}
		genBar.Increment()
	}
	genBar.Finish()

	pipeline.Finish()

	if len(exportErrors) > 0 {
		return fmt.Errorf("one or more exports failed: %d errors", len(exportErrors))
	}

	return nil
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                      API LENS v1.0.0                      ║
║      Endpoint Mapping for ASP.NET Core Web API Code       ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
