package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docaiocr/internal/config"
	"docaiocr/internal/docai"
	"docaiocr/internal/logger"
	"docaiocr/internal/ocr"
	"docaiocr/internal/output"
	"docaiocr/internal/pdfinfo"
	"docaiocr/internal/prompt"
	"docaiocr/internal/session"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "docaiocr",
	Short: "OCR a local PDF with Google Document AI, interactively",
	Long: `docaiocr asks for a local PDF and a page selection, sends the selected
pages to a Google Cloud Document AI processor in one synchronous request, and
writes the structured result plus plain text to a timestamped run directory.

Configuration is read from the environment, optionally pre-loaded from .env:
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file
  DOC_AI_PROJECT_ID              - Google Cloud project ID
  DOC_AI_LOCATION                - Processor location (default: us)
  DOC_AI_PROCESSOR_ID            - Document AI processor ID
  OUTPUT_DIR                     - Output directory (default: output)
  OCR_ENGINE                     - documentai (default) or vision
  DOC_AI_CONFIG                  - Optional YAML file with default values`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSession,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", userMessage(err))
		os.Exit(1)
	}
}

func runSession(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("session")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log.Info().
		Str("project", cfg.ProjectID).
		Str("location", cfg.Location).
		Str("processor", cfg.ProcessorID).
		Str("engine", cfg.Engine).
		Str("output_dir", cfg.OutputDir).
		Msg("Configuration loaded")

	s := session.New(
		prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()),
		cmd.OutOrStdout(),
		pdfinfo.PageCount,
		processorFactory(cfg),
		output.NewWriter(),
		cfg.OutputDir,
	)

	_, err = s.Run(cmd.Context())
	return err
}

// processorFactory selects the remote engine named by the configuration.
func processorFactory(cfg *config.Config) session.ProcessorFactory {
	return func(ctx context.Context) (docai.Processor, error) {
		var (
			p   docai.Processor
			err error
		)
		if cfg.Engine == config.EngineVision {
			p, err = ocr.NewVisionProcessor(ctx, cfg.CredentialsFile, cfg.ProjectID)
		} else {
			p, err = docai.NewClient(ctx, docai.Config{
				CredentialsFile: cfg.CredentialsFile,
				ProjectID:       cfg.ProjectID,
				Location:        cfg.Location,
				ProcessorID:     cfg.ProcessorID,
			})
		}
		if err != nil {
			return nil, err
		}
		return interruptible{Processor: p, log: logger.WithComponent("signal")}, nil
	}
}

// interruptible cancels the remote call on SIGINT or SIGTERM. Signals are
// only caught while the call is in flight, so Ctrl-C at a prompt still exits.
type interruptible struct {
	docai.Processor
	log zerolog.Logger
}

func (p interruptible) Process(ctx context.Context, pdf []byte, pages []int) (*documentaipb.Document, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			p.log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling OCR processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return p.Processor.Process(ctx, pdf, pages)
}
