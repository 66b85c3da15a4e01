package main

import (
	"fmt"
	"os"

	"wavescan/internal/cli"
	"wavescan/internal/config"
	"wavescan/internal/logging"
)

func main() {
	configDir := os.Getenv("WAVESCAN_CONFIG_DIR")

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wavescan: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	if cfg.Logging.FilePath != "" {
		logCfg.FilePath = cfg.Logging.FilePath
	}
	logger := logging.NewLoggerWithConfig(logCfg)

	if err := cli.Execute(cfg, logger); err != nil {
		os.Exit(1)
	}
}
