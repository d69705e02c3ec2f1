package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"attrdoc/internal/config"
	"attrdoc/internal/extractor"
	"attrdoc/internal/logging"
	"attrdoc/internal/synthesizer"
)

var (
	rootCmd = &cobra.Command{
		Use:           "attrdoc",
		Short:         "Write PHP static-analysis attributes into doc comment tags",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
	dbPath     string
	toolName   string
	logLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "attrdoc.yaml", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the processed-file ledger (SQLite)")
	rootCmd.PersistentFlags().StringVarP(&toolName, "tool", "t", "", "Target tool: phpstan or psalm (default from config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(indexCmd)
}

// loadConfig reads the configuration and applies persistent flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("tool") {
		cfg.Tool = toolName
	}
	if flags.Changed("db") {
		cfg.DB = dbPath
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app holds the components every command shares.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	ext     *extractor.Extractor
	synth   *synthesizer.Synthesizer
	cleanup func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		File:   cfg.Log.File,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	ext, err := extractor.NewExtractor("php")
	if err != nil {
		closeLog()
		return nil, err
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		ext:     ext,
		synth:   synthesizer.New(synthesizer.WithMode(mode), synthesizer.WithLogger(logger)),
		cleanup: closeLog,
	}, nil
}
