package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jihwankim/rcv-report-pipeline/pkg/config"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats/dominionrcr"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats/nistsp1500"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats/usme"
	"github.com/jihwankim/rcv-report-pipeline/pkg/formats/usmnmpls"
	"github.com/jihwankim/rcv-report-pipeline/pkg/pipeline"
	"github.com/jihwankim/rcv-report-pipeline/pkg/reportgen"
	"github.com/jihwankim/rcv-report-pipeline/pkg/telemetry"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Args:  cobra.NoArgs,
	Short: "Generate per-contest tabulation reports and a global index",
	Long:  `Walks every jurisdiction/election/contest in the metadata bundle and produces report and index documents.`,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Bool("force-preprocess", false, "ignore cached normalized ballots and re-read raw CVRs")
	reportCmd.Flags().Bool("force-report", false, "ignore cached reports and regenerate from preprocessed ballots")
	reportCmd.Flags().String("jurisdiction", "", "restrict the run to a single jurisdiction path")
}

func runReport(cmd *cobra.Command, args []string) error {
	forcePreprocess, _ := cmd.Flags().GetBool("force-preprocess")
	forceReport, _ := cmd.Flags().GetBool("force-report")
	jurisdictionFilter, _ := cmd.Flags().GetString("jurisdiction")

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := telemetry.LevelInfo
	if verbose {
		logLevel = telemetry.LevelDebug
	} else if cfg.Logging.Level != "" {
		logLevel = telemetry.Level(cfg.Logging.Level)
	}

	log := telemetry.New(telemetry.Config{
		Level:  logLevel,
		Format: telemetry.Format(cfg.Logging.Format),
		Output: os.Stdout,
	})

	log.Info("rcv-report starting", "version", version)

	nistReader := nistsp1500.NewReader(log)

	registry := formats.NewRegistry()
	registry.Register("nist_sp_1500", nistReader)
	registry.Register("dominion_rcr", dominionrcr.NewReader(log))
	registry.Register("us_me", usme.NewReader(log))
	registry.Register("us_mn_mpls", usmnmpls.NewReader(log))

	maxConcurrency := cfg.Pipeline.MaxConcurrentJurisdictions
	orch := pipeline.New(registry, nistReader, reportgen.PluralityStub{}, log, maxConcurrency)

	opts := pipeline.ReportOptions{
		MetaDir:            cfg.Directories.MetaDir,
		RawDir:             cfg.Directories.RawDir,
		ReportDir:          cfg.Directories.ReportDir,
		PreprocessedDir:    cfg.Directories.PreprocessedDir,
		ForcePreprocess:    forcePreprocess || cfg.Pipeline.ForcePreprocess,
		ForceReport:        forceReport || cfg.Pipeline.ForceReport,
		JurisdictionFilter: jurisdictionFilter,
	}

	if err := orch.Report(context.Background(), opts); err != nil {
		return fmt.Errorf("report run failed: %w", err)
	}

	log.Info("rcv-report completed")
	return nil
}
