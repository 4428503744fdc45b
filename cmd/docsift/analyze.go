package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/input"
	"github.com/docsift/docsift/internal/pipeline"
	"github.com/docsift/docsift/internal/relevance"
	"github.com/docsift/docsift/internal/report"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("75"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

var (
	flagInput   string
	flagOutput  string
	flagQuery   string
	flagTopK    int
	flagWorkers int
	flagPDF     bool
	flagMD      bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a directory of PDFs and write the relevance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		paths, err := input.ListPDFs(cfg.InputDir)
		if err != nil {
			return err
		}
		queryPath := cfg.QueryFile
		if !filepath.IsAbs(queryPath) {
			queryPath = filepath.Join(cfg.InputDir, queryPath)
		}
		q, err := input.LoadQuery(queryPath)
		if err != nil {
			return err
		}

		runner := pipeline.NewRunner(log, cfg.Workers, cfg.TopK)
		res, err := runner.Run(ctx, paths, relevance.NewQuery(q.Persona, q.JobToBeDone))
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		reportPath := filepath.Join(cfg.OutputDir, cfg.ReportName)
		if err := report.WriteJSON(res.Report, reportPath); err != nil {
			return err
		}
		if cfg.WriteMarkdown {
			mdPath := reportPath[:len(reportPath)-len(filepath.Ext(reportPath))] + ".md"
			if err := os.WriteFile(mdPath, []byte(report.Markdown(res.Report)), 0o644); err != nil {
				return fmt.Errorf("write markdown digest: %w", err)
			}
		}
		if cfg.WritePDF {
			pdfPath := reportPath[:len(reportPath)-len(filepath.Ext(reportPath))] + ".pdf"
			if err := report.WritePDF(res.Report, pdfPath); err != nil {
				return fmt.Errorf("write pdf report: %w", err)
			}
		}

		printSummary(cmd, res, reportPath)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagInput, "input", "i", "", "Input directory with PDF files and the query descriptor")
	analyzeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output directory for the report")
	analyzeCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "Query descriptor file (relative paths resolve against the input directory)")
	analyzeCmd.Flags().IntVar(&flagTopK, "top", 0, "Number of sections to surface")
	analyzeCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent documents")
	analyzeCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Also render the report as PDF")
	analyzeCmd.Flags().BoolVar(&flagMD, "markdown", false, "Also write the Markdown digest")

	rootCmd.AddCommand(analyzeCmd)
}

// loadConfig merges env config, the optional config file and analyze flags,
// in that order of precedence (last wins).
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return cfg, err
		}
	}
	if flagInput != "" {
		cfg.InputDir = flagInput
	}
	if flagOutput != "" {
		cfg.OutputDir = flagOutput
	}
	if flagQuery != "" {
		cfg.QueryFile = flagQuery
	}
	if flagTopK > 0 {
		cfg.TopK = flagTopK
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}
	if cmd.Flags().Changed("pdf") {
		cfg.WritePDF = flagPDF
	}
	if cmd.Flags().Changed("markdown") {
		cfg.WriteMarkdown = flagMD
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func printSummary(cmd *cobra.Command, res *pipeline.Result, reportPath string) {
	out := cmd.OutOrStdout()
	rep := res.Report

	fmt.Fprintln(out, titleStyle.Render("docsift: ranked sections"))
	if len(rep.ExtractedSections) == 0 {
		fmt.Fprintln(out, dimStyle.Render("no headings found"))
	}
	for _, s := range rep.ExtractedSections {
		fmt.Fprintf(out, "%2d. %s %s\n",
			s.ImportanceRank,
			s.SectionTitle,
			dimStyle.Render(fmt.Sprintf("(%s, page %d)", s.Document, s.PageNumber)),
		)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("skipped %s: %s", d.Document, d.Error)))
	}
	fmt.Fprintln(out, dimStyle.Render("report written to "+reportPath))
}
