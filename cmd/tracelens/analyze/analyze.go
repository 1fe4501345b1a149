package analyze

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/tracelens/internal/config"
	"github.com/crimson-sun/tracelens/internal/logging"
	"github.com/crimson-sun/tracelens/internal/pipeline"
)

var (
	configPath string
	logFile    string
	outPath    string
	format     string
	webhookURL string
	logLevel   string
)

var Cmd = &cobra.Command{
	Use:   "analyze [log.xes]",
	Short: "Analyze an XES event log",
	Long: `Parse an XES event log (plain or gzip-compressed) and report
optimization findings grouped by category. Without an argument the
configured log_file is analyzed. The report goes to stdout unless
--out names a file; --webhook additionally POSTs it as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	Cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	Cmd.Flags().StringVarP(&logFile, "log", "l", "", "XES log to analyze (overrides the configured log_file)")
	Cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the report to a file instead of stdout")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: text or json")
	Cmd.Flags().StringVar(&webhookURL, "webhook", "", "Also POST the report as JSON to this URL")
	Cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("out") {
		cfg.Output.Path = outPath
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = format
	}
	if cmd.Flags().Changed("webhook") {
		cfg.Output.WebhookURL = webhookURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Init(cfg.Output.Path == "", logging.ParseLevel(cfg.LogLevel))

	p, err := pipeline.FromConfig(cfg)
	if err != nil {
		return err
	}

	logPath := cfg.LogFile
	if cmd.Flags().Changed("log") {
		logPath = logFile
	}
	if len(args) == 1 {
		logPath = args[0]
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if _, err := p.Run(ctx, logPath); err != nil {
		p.Close()
		return err
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("close outputs: %w", err)
	}
	return nil
}
