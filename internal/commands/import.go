package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/centavo-dev/centavo/internal/auditlog"
	"github.com/centavo-dev/centavo/internal/config"
	"github.com/centavo-dev/centavo/internal/gitops"
	"github.com/centavo-dev/centavo/internal/importer"
	"github.com/centavo-dev/centavo/internal/ledger"
	"github.com/centavo-dev/centavo/internal/logger"
	"github.com/centavo-dev/centavo/internal/ofx"
)

func newImportCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Import a bank statement from the inbox into the ledger",
		Long: "Picks a .ofx file from the inbox by filename (source keywords, else the\n" +
			"lexicographically first), canonicalizes its transactions, and merges them\n" +
			"into the ledger, deduplicating by transaction identity.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runImport(absDir, args[0], logger.New())
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "project directory")

	return cmd
}

func runImport(root, source string, log zerolog.Logger) error {
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	registry := importer.DefaultRegistry()
	conv := registry.Get(source)
	if conv == nil {
		return fmt.Errorf("unknown source %q (supported: %s)", source, strings.Join(registry.Sources(), ", "))
	}

	path, err := importer.SelectStatement(filepath.Join(root, cfg.Paths.Inbox), conv)
	if err != nil {
		return err
	}
	fileName := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening statement: %w", err)
	}
	raws, err := ofx.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", fileName, err)
	}

	txns, diag := conv.Convert(raws, fileName)
	if diag.Dropped > 0 {
		log.Warn().
			Str("file", fileName).
			Int("dropped", diag.Dropped).
			Strs("causes", diag.Causes).
			Msg("rows dropped during conversion")
	}

	store := ledger.NewStore(filepath.Join(root, cfg.Paths.Data), log, cfg.Mirror.Parquet)
	existing, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	merged := ledger.Merge(existing, txns)
	duplicates := len(existing) + len(txns) - len(merged)

	if err := store.Save(merged); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}

	entry := auditlog.Entry{
		Timestamp:  time.Now(),
		RunID:      auditlog.NewRunID(),
		Action:     "import",
		Source:     source,
		FileName:   fileName,
		Rows:       len(txns),
		Dropped:    diag.Dropped,
		Duplicates: duplicates,
		Total:      len(merged),
	}
	if err := auditlog.Append(root, entry); err != nil {
		log.Warn().Err(err).Msg("writing import log failed")
	}

	maybeCommit(root, cfg, fmt.Sprintf("import: %s %s", source, fileName), log)

	fmt.Printf("Imported %d transactions from %s (%d dropped, %d duplicates skipped)\n",
		len(txns), fileName, diag.Dropped, duplicates)
	fmt.Printf("Ledger: %s (%d transactions)\n", store.CSVPath(), len(merged))
	return nil
}

// maybeCommit auto-commits the project dir when configured. Failure is a
// warning, never a failed run.
func maybeCommit(root string, cfg *config.Config, message string, log zerolog.Logger) {
	if !cfg.Git.AutoCommit || !gitops.IsRepo(root) {
		return
	}
	if _, err := gitops.CommitAll(root, message, cfg.Git.AuthorName, cfg.Git.AuthorEmail); err != nil {
		log.Warn().Err(err).Msg("git auto-commit failed")
	}
}
