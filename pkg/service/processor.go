// Package service wires the full statement pipeline for one file: decode,
// extract, analyze, classify.
package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/budgetbr/extratu/pkg/analyzer"
	"github.com/budgetbr/extratu/pkg/classifier"
	"github.com/budgetbr/extratu/pkg/config"
	"github.com/budgetbr/extratu/pkg/decoder"
	"github.com/budgetbr/extratu/pkg/models"
	"github.com/budgetbr/extratu/pkg/table"
)

// canonicalSep is the delimiter used when re-serializing the extracted
// table for analysis.
const canonicalSep = ';'

type Processor struct {
	config     *config.Config
	logger     *log.Logger
	analyzer   *analyzer.Analyzer
	classifier *classifier.Classifier
}

func NewProcessor(cfg *config.Config, logger *log.Logger) (*Processor, error) {
	rules := classifier.DefaultRules()
	if cfg.RulesFile != "" {
		loaded, err := classifier.LoadRules(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		rules = loaded
	}

	remote := analyzer.NewClient(cfg.AnalyzerURL, cfg.AnalyzerTimeout)
	return &Processor{
		config:     cfg,
		logger:     logger,
		analyzer:   analyzer.New(remote, logger),
		classifier: classifier.New(logger, rules),
	}, nil
}

// ProcessBytes runs the pipeline on one statement file. File-level
// failures (unsupported format, unreadable content, no extractable table)
// abort with an error; row-level issues resolve independently inside the
// returned report.
func (p *Processor) ProcessBytes(data []byte, fileName string, accountType models.AccountType) ([]models.ParsedRow, *analyzer.CSVAnalysis, error) {
	matrix, err := decoder.Decode(data, fileName)
	if err != nil {
		return nil, nil, err
	}

	tbl, err := table.Extract(matrix)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting transaction table from %s: %w", fileName, err)
	}
	p.logger.Debug("table extracted", "file", fileName,
		"header_row", tbl.HeaderIndex, "columns", len(tbl.Columns), "rows", len(tbl.Rows))

	var analysis *analyzer.CSVAnalysis
	if analyzer.IsStandardTemplate(tbl.Columns) {
		// Known template header, no inference needed.
		analysis = analyzer.StandardTemplate(canonicalSep)
		p.logger.Debug("standard template recognized", "file", fileName)
	} else {
		analysis = p.analyzer.Analyze(tbl.Delimited(canonicalSep), p.config.SampleSize)
	}

	rows := p.classifier.ClassifyAll(tbl.Rows, analysis, accountType)
	return rows, analysis, nil
}

// ProcessFile reads one statement from disk and writes the classified
// report next to it (or under outputDir when set).
func (p *Processor) ProcessFile(path, outputDir string, accountType models.AccountType) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	rows, _, err := p.ProcessBytes(data, filepath.Base(path), accountType)
	if err != nil {
		return err
	}

	outPath := p.determineOutputPath(path, outputDir)
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer out.Close()

	if err := WriteReportCSV(out, rows); err != nil {
		return fmt.Errorf("error writing report: %w", err)
	}

	p.logger.Info("processed file", "input", path, "output", outPath)
	return nil
}

// ProcessDirectory processes every supported statement in a directory.
func (p *Processor) ProcessDirectory(dir, outputDir string, accountType models.AccountType) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := decoder.DetectFormat(entry.Name()); err != nil {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := p.ProcessFile(path, outputDir, accountType); err != nil {
			p.logger.Error("failed to process file", "file", path, "error", err)
		}
	}
	return nil
}

func (p *Processor) determineOutputPath(inputPath, outputDir string) string {
	base := filepath.Base(inputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "-expenses.csv"
	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	return strings.TrimSuffix(inputPath, ext) + "-expenses.csv"
}
