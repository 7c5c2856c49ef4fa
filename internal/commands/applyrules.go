package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/auditlog"
	"github.com/centavo-dev/centavo/internal/config"
	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/logger"
	"github.com/centavo-dev/centavo/internal/rules"
)

func newApplyRulesCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "apply-rules",
		Short: "Apply the categorization rules to the ledger in place",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runApplyRules(absDir, logger.New())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runApplyRules(root string, log zerolog.Logger) error {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	compiled, err := rules.Load(filepath.Join(root, cfg.Paths.Rules), log)
	if err != nil {
		return err
	}

	store := ledger.NewStore(filepath.Join(root, cfg.Paths.Data), log, cfg.Mirror.Parquet)
	txns, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}
	if len(txns) == 0 {
		return fmt.Errorf("no ledger found at %s: import a statement first", store.CSVPath())
	}

	applied := rules.Apply(txns, compiled)

	if err := store.Save(txns); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	entry := auditlog.Entry{
		Timestamp: time.Now(),
		RunID:     auditlog.NewRunID(),
		Action:    "apply-rules",
		Rows:      applied,
		Total:     len(txns),
	}
	if err := auditlog.Append(root, entry); err != nil {
		log.Warn().Err(err).Msg("writing import log failed")
	}

	maybeCommit(root, cfg, fmt.Sprintf("rules: categorized %d transactions", applied), log)

	fmt.Printf("Applied %d rules to %d transactions (%d categorized)\n",
		len(compiled), len(txns), applied)
	fmt.Printf("Ledger: %s\n", store.CSVPath())
	return nil
}
