package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Target    TargetConfig    `mapstructure:"target"`
	Rules     RulesConfig     `mapstructure:"rules"`
	Output    OutputConfig    `mapstructure:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// TargetConfig names the analysis target and its classpath.
type TargetConfig struct {
	Root           string   `mapstructure:"root"`            // directory or .jar to analyze
	ClasspathRoots []string `mapstructure:"classpath_roots"` // directories or .jars, reference-only
	ExcludeDirs    []string `mapstructure:"exclude_dirs"`    // glob patterns, relative to each root
}

// RulesConfig controls which corpus rules run.
type RulesConfig struct {
	Disabled []string `mapstructure:"disabled"` // rule ids to skip entirely
}

// OutputConfig holds output settings.
type OutputConfig struct {
	ReportPath string   `mapstructure:"report_path"` // SARIF-shaped JSON findings report
	Formats    []string `mapstructure:"formats"`     // "sarif", "excel", "html"; empty means sarif only
	Dir        string   `mapstructure:"dir"`         // output directory for additional formats
	FileName   string   `mapstructure:"file_name"`   // base file name (without extension) for additional formats
}

// TelemetryConfig controls the trace JSON output.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, it looks for "inspequte.yaml" in the current
// directory. If the file doesn't exist, it uses sensible defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "inspequte.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Target: ./target")
			fmt.Println("  Report: ./report.sarif.json")
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("target.root", "./target")
	v.SetDefault("target.classpath_roots", []string{})
	v.SetDefault("target.exclude_dirs", []string{
		"**/.git/**",
		"**/.svn/**",
	})

	v.SetDefault("rules.disabled", []string{})

	v.SetDefault("output.report_path", "report.sarif.json")
	v.SetDefault("output.formats", []string{})
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "inspequte-report")

	v.SetDefault("telemetry.path", "trace.json")
}

// normalizePaths converts relative paths to absolute paths.
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Target.Root)
	if err != nil {
		return fmt.Errorf("failed to resolve target.root: %w", err)
	}
	c.Target.Root = absRoot

	for i, root := range c.Target.ClasspathRoots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("failed to resolve target.classpath_roots[%d]: %w", i, err)
		}
		c.Target.ClasspathRoots[i] = abs
	}

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// IsRuleDisabled reports whether ruleID appears in rules.disabled.
func (c *Config) IsRuleDisabled(ruleID string) bool {
	for _, id := range c.Rules.Disabled {
		if id == ruleID {
			return true
		}
	}
	return false
}

// HasFormat reports whether format is listed in output.formats.
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// ShouldExclude checks if a path should be excluded based on
// target.exclude_dirs.
func (c *Config) ShouldExclude(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	for _, pattern := range c.Target.ExcludeDirs {
		if matchPathPattern(normalizedPath, pattern) {
			return true
		}
	}
	return false
}

// GetExcelOutputPath returns the full path for the Excel report.
func (c *Config) GetExcelOutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+".xlsx")
}

// GetHTMLOutputPath returns the full path for the HTML report.
func (c *Config) GetHTMLOutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+".html")
}

// Validate checks if the configuration is usable before analysis starts.
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Target.Root); os.IsNotExist(err) {
		return fmt.Errorf("target.root does not exist: %s", c.Target.Root)
	}
	for _, root := range c.Target.ClasspathRoots {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			return fmt.Errorf("target.classpath_roots entry does not exist: %s", root)
		}
	}
	if c.Output.ReportPath == "" {
		return fmt.Errorf("output.report_path cannot be empty")
	}
	return nil
}

// matchPathPattern checks if a path matches a glob pattern.
// Supports ** for recursive directory matching.
func matchPathPattern(path, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	path = filepath.ToSlash(path)

	if strings.Contains(pattern, "**") {
		parts := strings.Split(pattern, "**")
		if len(parts) == 2 {
			prefix := strings.Trim(parts[0], "/")
			suffix := strings.Trim(parts[1], "/")

			hasPrefix := true
			if prefix != "" {
				hasPrefix = strings.HasPrefix(path, prefix+"/") || strings.Contains(path, "/"+prefix+"/")
			}

			hasSuffix := true
			if suffix != "" {
				hasSuffix = strings.Contains(path, "/"+suffix+"/") ||
					strings.HasSuffix(path, "/"+suffix) ||
					strings.HasPrefix(path, suffix+"/")
			}

			return hasPrefix && hasSuffix
		}
	}

	cleanPattern := strings.Trim(pattern, "*")
	return strings.Contains(path, cleanPattern)
}

// Print displays the current configuration.
func (c *Config) Print() {
	fmt.Println("=== Inspequte Configuration ===")
	fmt.Printf("Target Root:      %s\n", c.Target.Root)
	fmt.Printf("Classpath Roots:  %v\n", c.Target.ClasspathRoots)
	fmt.Printf("Exclude Dirs:     %v\n", c.Target.ExcludeDirs)
	fmt.Printf("Disabled Rules:   %v\n", c.Rules.Disabled)
	fmt.Printf("Report Path:      %s\n", c.Output.ReportPath)
	fmt.Printf("Extra Formats:    %v\n", c.Output.Formats)
	fmt.Printf("Telemetry Path:   %s\n", c.Telemetry.Path)
	fmt.Println("===============================")
}
