package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"github.com/budgetbr/extratu/pkg/config"
	"github.com/budgetbr/extratu/pkg/importer"
	"github.com/budgetbr/extratu/pkg/models"
	"github.com/budgetbr/extratu/pkg/server"
	"github.com/budgetbr/extratu/pkg/service"
)

var (
	cfgFile     string
	accountType string
	outputDir   string
	debugDump   bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "extratu",
	Short: "Convert bank and credit-card statements into normalized expenses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <input_path>",
	Short: "Classify statements and write per-row expense reports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		acct := models.AccountType(accountType)
		if !acct.Valid() {
			return fmt.Errorf("unknown account type %q (use %s or %s)",
				accountType, models.AccountTypeBank, models.AccountTypeCreditCard)
		}

		processor, err := service.NewProcessor(cfg, logger)
		if err != nil {
			return err
		}

		matches, err := filepath.Glob(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files found matching pattern %s", args[0])
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat file", "error", err, "file", match)
				continue
			}

			if info.IsDir() {
				if err := processor.ProcessDirectory(match, outputDir, acct); err != nil {
					logger.Warn("failed to process directory", "error", err, "dir", match)
				}
				continue
			}

			if debugDump {
				dumpAnalysis(processor, match, acct, logger)
			}
			if err := processor.ProcessFile(match, outputDir, acct); err != nil {
				logger.Warn("failed to process file", "error", err, "file", match)
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the statement pipeline over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := newLogger()

		cfg, err := config.Build(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		srv, err := server.New(cfg, logger, importer.NewMemoryStore())
		if err != nil {
			return err
		}
		return srv.Start(cfg.ListenAddr)
	},
}

func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "extratu",
		Level:           level,
	})
}

func dumpAnalysis(processor *service.Processor, path string, acct models.AccountType, logger *log.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("failed to read file for analysis dump", "error", err, "file", path)
		return
	}
	_, analysis, err := processor.ProcessBytes(data, filepath.Base(path), acct)
	if err != nil {
		logger.Warn("failed to analyze file", "error", err, "file", path)
		return
	}
	pp.Println(analysis)
}

func init() {
	gotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().String("analyzer-url", "", "Remote column-analyzer URL (optional)")
	rootCmd.PersistentFlags().String("rules", "", "YAML keyword-rules file")

	convertCmd.Flags().StringVarP(&accountType, "account-type", "a", string(models.AccountTypeBank),
		"Account type: bank_account or credit_card")
	convertCmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (default: next to input)")
	convertCmd.Flags().BoolVar(&debugDump, "debug", false, "Dump the column analysis before converting")

	serveCmd.Flags().String("listen", "", "Listen address")
	serveCmd.Flags().Int("batch-size", 0, "Persistence batch size")
	serveCmd.Flags().Bool("skip-duplicates", true, "Skip transactions already imported")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
