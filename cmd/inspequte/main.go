package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"inspequte/internal/config"
	analysiscontext "inspequte/internal/context"
	"inspequte/internal/exporter"
	"inspequte/internal/ir"
	"inspequte/internal/logger"
	"inspequte/internal/report"
	"inspequte/internal/rules"
	_ "inspequte/internal/rules/corpus" // self-registers every corpus rule via init()
	"inspequte/internal/telemetry"
	"inspequte/internal/ui"
)

const (
	appName    = "Inspequte"
	appVersion = "1.0.0"
	appDesc    = "A Pure Go static analyzer for compiled JVM artifacts (.class files and .jar containers)"
)

// classpathFlag collects repeated -classpath occurrences into an
// ordered list; flag.Value has no built-in repeatable-string type.
type classpathFlag []string

func (c *classpathFlag) String() string { return strings.Join(*c, ",") }

func (c *classpathFlag) Set(v string) error {
	*c = append(*c, v)
	return nil
}

var (
	target        string
	classpath     classpathFlag
	configPath    string
	outputPath    string
	telemetryPath string
	formats       string
	verbose       bool
	showVersion   bool
)

func init() {
	flag.StringVar(&target, "target", "", "Root directory or jar file to analyze (required)")
	flag.Var(&classpath, "classpath", "Additional classpath root (directory or jar); repeatable")
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&outputPath, "output", "", "Override the SARIF report output path")
	flag.StringVar(&telemetryPath, "telemetry", "", "Override the telemetry trace output path")
	flag.StringVar(&formats, "format", "", "Comma-separated output formats (sarif,excel,html)")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging (DEBUG level)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if showVersion {
		fmt.Printf("%s v%s\n%s\n", appName, appVersion, appDesc)
		return 0
	}

	if target == "" {
		fmt.Fprintln(os.Stderr, "inspequte: -target is required")
		flag.Usage()
		return 1
	}

	printBanner()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		return 1
	}

	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		return 1
	}

	logPath := filepath.Join(cfg.Output.Dir, "inspequte.log")
	if err := logger.Init(os.Stdout, logPath, verbose); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Close()

	provider, err := telemetry.Init()
	if err != nil {
		logger.Error("Failed to initialize telemetry: %v", err)
		return 1
	}

	exitCode := runAnalysis(cfg, provider)

	if err := provider.Shutdown(cfg.Telemetry.Path); err != nil {
		logger.Error("Failed to export telemetry: %v", err)
		return 1
	}

	if exitCode == 0 {
		logger.Info("Analysis complete. Report written to %s", cfg.Output.ReportPath)
	}
	return exitCode
}

func applyFlagOverrides(cfg *config.Config) {
	if abs, err := filepath.Abs(target); err == nil {
		cfg.Target.Root = abs
	} else {
		cfg.Target.Root = target
	}
	if len(classpath) > 0 {
		roots := make([]string, len(classpath))
		for i, p := range classpath {
			if abs, err := filepath.Abs(p); err == nil {
				p = abs
			}
			roots[i] = p
		}
		cfg.Target.ClasspathRoots = roots
	}
	if outputPath != "" {
		cfg.Output.ReportPath = outputPath
	}
	if telemetryPath != "" {
		cfg.Telemetry.Path = telemetryPath
	}
	if formats != "" {
		cfg.Output.Formats = strings.Split(formats, ",")
	}
}

// runAnalysis runs the discover/load/analyze/report pipeline and
// returns the process exit code: 0 on a completed analysis regardless
// of finding count, 1 when a load failure leaves zero classes to
// analyze or when the SARIF report cannot be marshaled or written.
func runAnalysis(cfg *config.Config, provider *telemetry.Provider) int {
	pipeline := ui.NewPipeline([]ui.Phase{
		ui.PhaseLoading, // Discovering + Loading combined into one phase bar
		ui.PhaseAnalyzing,
		ui.PhaseReporting,
	})

	rootCtx := context.Background()
	tracer := provider.Tracer()

	logger.Info("Phase 1: Discovering & Loading classes...")
	loadBar := pipeline.NextPhase(1)
	_, loadSpan := tracer.Start(rootCtx, "phase.load")
	col, loadErrs := ir.Load(cfg.Target.Root, cfg.Target.ClasspathRoots, cfg.Target.ExcludeDirs)
	for _, e := range loadErrs {
		var le *ir.LoadError
		if errors.As(e, &le) {
			logger.LogClassLoadError(le.Path, le.Err, "loading")
		} else {
			logger.Warn("Load error: %v", e)
		}
	}
	loadSpan.End()
	loadBar.Finish()

	if len(col.Classes) == 0 {
		logger.Error("No classes could be loaded from target %s", cfg.Target.Root)
		return 1
	}
	logger.Info("Loaded %d classes (%d load errors)", len(col.Classes), len(loadErrs))

	logger.Info("Phase 2: Analyzing...")
	analyzeBar := pipeline.NextPhase(1)
	ac := analysiscontext.New(col, tracer)

	analyzeCtx, analyzeSpan := tracer.Start(rootCtx, "phase.analyze")
	active := disabledFiltered(rules.All(), cfg)
	findings, ruleErrs := rules.Run(analyzeCtx, ac, active)
	for _, e := range ruleErrs {
		logger.Warn("Rule failure: %v", e)
	}
	analyzeSpan.End()
	analyzeBar.Finish()
	logger.Info("Produced %d findings from %d rules", len(findings), len(active))

	logger.Info("Phase 3: Reporting...")
	reportBar := pipeline.NextPhase(1)
	_, reportSpan := tracer.Start(rootCtx, "phase.report")
	rpt := &report.Report{Findings: findings}

	if cfg.HasFormat("sarif") || len(cfg.Output.Formats) == 0 {
		data, err := rpt.Marshal()
		if err != nil {
			logger.Error("Failed to marshal report: %v", err)
			reportSpan.End()
			return 1
		}
		if err := os.WriteFile(cfg.Output.ReportPath, data, 0o644); err != nil {
			logger.Error("Failed to write report %s: %v", cfg.Output.ReportPath, err)
			reportSpan.End()
			return 1
		}
	}

	for _, exp := range exporter.GetExporters(cfg.Output.Formats) {
		if err := exp.Export(rpt, ac, cfg); err != nil {
			logger.Error("Export failed: %v", err)
		}
	}
	reportSpan.End()
	reportBar.Finish()
	pipeline.Finish()

	return 0
}

func disabledFiltered(all []rules.Rule, cfg *config.Config) []rules.Rule {
	active := make([]rules.Rule, 0, len(all))
	for _, r := range all {
		if cfg.IsRuleDisabled(r.Metadata().ID) {
			continue
		}
		active = append(active, r)
	}
	return active
}

func printBanner() {
	banner := `
╔═══════════════════════════════════════════════════════════╗
║                     INSPEQUTE v1.0.0                       ║
║      Static Analysis for Compiled JVM Artifacts            ║
╚═══════════════════════════════════════════════════════════╝
`
	fmt.Println(banner)
}
