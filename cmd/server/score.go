package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/constitution-api/internal/config"
	"github.com/phrazzld/constitution-api/internal/domain"
	"github.com/phrazzld/constitution-api/internal/platform/logger"
	"github.com/phrazzld/constitution-api/internal/report"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score <answers.json>",
		Short: "Score an answer file against the stored catalog",
		Long: "Reads a JSON object mapping question ids to option values, scores it " +
			"against the stored catalog and prints the constitution report. " +
			"Use - to read the answers from stdin.",
		Args: cobra.ExactArgs(1),
		RunE: runScore,
	}
	cmd.Flags().Bool("allow-partial", false, "Score even when some questions are unanswered")
	cmd.Flags().Int("bar-width", report.DefaultBarWidth, "Width of the score bars in cells")
	cmd.Flags().Bool("json", false, "Print the assessment as JSON instead of the report")
	return cmd
}

func runScore(cmd *cobra.Command, args []string) error {
	answers, err := readAnswers(cmd, args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	// Scoring never touches sessions, so skip any remote backend.
	cfg.Session.Backend = config.SessionBackendMemory

	log := commandLogger(cmd, cfg)
	ctx := logger.WithLogger(cmd.Context(), log)

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.cleanup()

	allowPartial, _ := cmd.Flags().GetBool("allow-partial")
	assessment, err := app.assessmentService.Evaluate(ctx, answers, allowPartial)
	if err != nil {
		return fmt.Errorf("failed to score answers: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(assessment)
	}

	barWidth, _ := cmd.Flags().GetInt("bar-width")
	return report.Write(out, assessment, report.Options{BarWidth: barWidth})
}

func readAnswers(cmd *cobra.Command, path string) (domain.AnswerSet, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open answers file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	var answers domain.AnswerSet
	if err := json.NewDecoder(r).Decode(&answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers file: %w", err)
	}
	if answers == nil {
		answers = domain.AnswerSet{}
	}
	return answers, nil
}
