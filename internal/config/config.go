package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"apilens/internal/model"
)

// Config represents the application configuration
type Config struct {
	Project      ProjectConfig       `mapstructure:"project"`
	Environments []model.Environment `mapstructure:"environments"`
	Synthesis    SynthesisConfig     `mapstructure:"synthesis"`
	Output       OutputConfig        `mapstructure:"output"`

	// Name of the environment used when none is requested on the command line
	DefaultEnvironment string `mapstructure:"default_environment"`
}

// ProjectConfig holds project-specific settings
type ProjectConfig struct {
	RootDir     string   `mapstructure:"root_dir"`     // Root directory to analyze
	ExcludeDirs []string `mapstructure:"exclude_dirs"` // Directories to skip while scanning
}

// SynthesisConfig tunes sample request generation
type SynthesisConfig struct {
	CollectionCount int `mapstructure:"collection_count"` // Elements per generated collection
	MaxDepth        int `mapstructure:"max_depth"`        // Nesting cap for generated bodies
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir      string   `mapstructure:"dir"`       // Output directory
	FileName string   `mapstructure:"file_name"` // Output file name (without extension)
	Formats  []string `mapstructure:"formats"`   // Report formats to write
}

// Load reads the configuration from a file or uses defaults.
// If configPath is empty, it looks for "config.yaml" in the current directory;
// a missing file falls back to the defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Source: ./src")
			fmt.Println("  Output: ./output")
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

func setDefaults(v *viper.Viper) {
	// Use ./src so double-clicking the binary next to a checkout just works
	v.SetDefault("project.root_dir", "./src")
	v.SetDefault("project.exclude_dirs", []string{
		"**/bin/**",
		"**/obj/**",
		"**/packages/**",
		"**/.git/**",
		"**/.svn/**",
		"**/node_modules/**",
		"**/TestResults/**",
	})

	v.SetDefault("default_environment", "")

	v.SetDefault("synthesis.collection_count", 1)
	v.SetDefault("synthesis.max_depth", 8)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "apilens-report")
	v.SetDefault("output.formats", []string{"json", "http"})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absRoot, err := filepath.Abs(c.Project.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve root_dir: %w", err)
	}
	c.Project.RootDir = absRoot

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// EnvironmentByName returns the named environment, or the configured default
// when name is empty. A nil return means synthesis runs without a base URL.
func (c *Config) EnvironmentByName(name string) (*model.Environment, error) {
	if name == "" {
		name = c.DefaultEnvironment
	}
	if name == "" {
		return nil, nil
	}
	for i := range c.Environments {
		if strings.EqualFold(c.Environments[i].Name, name) {
			return &c.Environments[i], nil
		}
	}
	return nil, fmt.Errorf("environment %q is not defined in the configuration", name)
}

// ShouldExclude checks if a file path should be excluded based on exclude_dirs
func (c *Config) ShouldExclude(filePath string) bool {
	normalizedPath := filepath.ToSlash(filePath)

	for _, pattern := range c.Project.ExcludeDirs {
		if matchPathPattern(normalizedPath, pattern) {
			return true
		}
	}
	return false
}

// GetOutputPath returns the full output path for the given file extension
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+"."+strings.TrimPrefix(ext, "."))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := os.Stat(c.Project.RootDir); os.IsNotExist(err) {
		return fmt.Errorf("root_dir does not exist: %s", c.Project.RootDir)
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}

	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must contain at least one format")
	}

	seen := map[string]bool{}
	for _, env := range c.Environments {
		if env.Name == "" {
			return fmt.Errorf("every environment needs a name")
		}
		lower := strings.ToLower(env.Name)
		if seen[lower] {
			return fmt.Errorf("duplicate environment name: %s", env.Name)
		}
		seen[lower] = true
	}

	if c.DefaultEnvironment != "" {
		if _, err := c.EnvironmentByName(c.DefaultEnvironment); err != nil {
			return err
		}
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

		switch len(parts) {
		case 2:
			prefix := strings.Trim(parts[0], "/")
			suffix := strings.Trim(parts[1], "/")

			hasPrefix := prefix == "" || hasPathSegment(path, prefix)
			hasSuffix := suffix == "" || hasPathSegment(path, suffix)
			return hasPrefix && hasSuffix

		case 3:
			// "**/dir/**": the middle must appear as a whole path segment,
			// including at the very start of a relative path
			middle := strings.Trim(parts[1], "/")
			if middle == "" {
				return true
			}
			return hasPathSegment(path, middle)
		}
	}

	cleanPattern := strings.Trim(pattern, "*")
	return strings.Contains(path, cleanPattern)
}

// hasPathSegment reports whether segment occurs in path on path-separator
// boundaries, so "bin" matches "src/bin/x" but never "cabin/x"
func hasPathSegment(path, segment string) bool {
	return path == segment ||
		strings.HasPrefix(path, segment+"/") ||
		strings.HasSuffix(path, "/"+segment) ||
		strings.Contains(path, "/"+segment+"/")
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== API Lens Configuration ===")
	fmt.Printf("Project Root:     %s\n", c.Project.RootDir)
	fmt.Printf("Exclude Dirs:     %v\n", c.Project.ExcludeDirs)
	fmt.Printf("Environments:     %d defined (default %q)\n", len(c.Environments), c.DefaultEnvironment)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Output Formats:   %v\n", c.Output.Formats)
	fmt.Println("==============================")
}
