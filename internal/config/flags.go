package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagRoot   = flag.String("root", "", "Survey data root directory")
	flagLevels = flag.Int("levels", 0, "Number of iso-contour levels")
	flagTable  = flag.String("table", "", "Color table name")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagRoot != "" {
		cfg.Data.Root = *flagRoot
	}
	if *flagLevels > 0 {
		cfg.Contour.Levels = *flagLevels
	}
	if *flagTable != "" {
		cfg.Contour.ColorTable = *flagTable
	}
}
