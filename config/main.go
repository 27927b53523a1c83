package config

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

var (
	// ConfigPath is the variable which stores the config path command line parameter
	ConfigPath string
)

// Engine names recognised by the `engine` option.
const (
	EngineKind     = "kind"
	EnginePDKind   = "pdkind"
	EngineTPA      = "tpa"
	EngineTPASplit = "tpa-split"
)

// Config stores the config for the tool
type Config struct {
	// Engine selects the verification engine: kind|pdkind|tpa|tpa-split
	Engine string `json:"engine"`
	// ComputeWitness requests an invariant/counterexample depth on top of the verdict
	ComputeWitness bool `json:"compute_witness"`
	// Verbose is passed on to the engines as core.Options.Verbose; no engine reads it
	Verbose int `json:"verbose"`
	// UseQE replaces model-based projection with exact quantifier elimination
	UseQE bool `json:"use_qe"`
	// RestartLimit is the push/pop depth at which IncrementalRestartFacade rebuilds its solver
	RestartLimit int `json:"restart_limit"`
	// SolverVariant selects single-use|incremental|incremental-restart
	SolverVariant string `json:"solver_variant"`
	// InterpolationStrength selects weak (Farkas) or strong (McMillan) interpolants
	InterpolationStrength string `json:"interpolation_strength"`
	// SimplifyLevel is the backend's simplification/decomposition level, 0-4
	SimplifyLevel int `json:"simplify_level"`
	// APIServerAddr address of the optional status server, empty disables it
	APIServerAddr string `json:"server_addr"`
	// LogConfig configuration for logging
	LogConfig LogConfig `json:"log"`
}

// LogConfig stores the config for logging purpose
type LogConfig struct {
	// Path of the log file
	Path string `json:"path"`
	// Format to log: `json` selects JSON output, any other value logrus's text format
	Format string `json:"format"`
	// Level log level, one of panic|fatal|error|warn|warning|info|debug|trace
	Level string `json:"level"`
}

// ParseConfig parses config from the specified file, falling back to defaults
// for anything the file does not set.
func ParseConfig(path string) (*Config, error) {
	defaultConfig := &Config{
		Engine:         EnginePDKind,
		ComputeWitness: false,
		Verbose:        0,
		UseQE:          false,
		RestartLimit:   100,
		SolverVariant:  "incremental",
		InterpolationStrength: "weak",
		SimplifyLevel:  0,
		APIServerAddr:  "",
		LogConfig: LogConfig{
			Path:   "",
			Format: "text",
			Level:  "info",
		},
	}
	if path == "" {
		return defaultConfig, nil
	}
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %s", err)
	}
	if err := json.Unmarshal(bytes, defaultConfig); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %s", err)
	}
	return defaultConfig, nil
}
