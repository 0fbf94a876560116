package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fleetops/fuelflow/internal/cli"
	"github.com/fleetops/fuelflow/internal/engine"
	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/session"
	"github.com/fleetops/fuelflow/internal/statement"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <statement-file>",
		Short: "Reconcile and import a fuel-card statement",
		Long: `Parse a fuel-card statement (CSV or XLSX), match each transaction to a
fleet vehicle, filter duplicates, and commit the verified rows.

Flagged rows need a vehicle or type assignment before they can be
imported; duplicates are never imported.

Examples:
  # Review a statement without committing anything
  fuelflow import ~/Downloads/Transactions_01152025_0800.csv --dry-run

  # Assign a vehicle to a flagged transaction and import
  fuelflow import statement.csv --assign TX123=VEH-0042

  # Reclassify an auxiliary purchase as rental equipment
  fuelflow import statement.csv --type TX456=rental`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringArray("assign", nil, "vehicle override, SOURCEID=VEHICLEID (repeatable)")
	cmd.Flags().StringArray("type", nil, "type override, SOURCEID=fleet|auxiliary|rental (repeatable)")
	cmd.Flags().BoolP("dry-run", "d", false, "process and review without committing")
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")
	assigns, _ := cmd.Flags().GetStringArray("assign")
	typeOverrides, _ := cmd.Flags().GetStringArray("type")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	eng, err := engine.New(store, store, engineConfig())
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = f.Close() }()

	if periodEnd := statement.PeriodEndFromFilename(path); !periodEnd.IsZero() {
		slog.Info("Statement period end inferred from filename",
			"period_end", periodEnd.Format("2006-01-02 15:04"))
	}

	sess, err := eng.Process(ctx, f, statementFormat(path))
	if err != nil {
		return err
	}

	if err := applyOverrides(sess, assigns, typeOverrides); err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle("Statement Review"))
	if out := cli.RenderParseErrors(sess.ParseErrors()); out != "" {
		fmt.Println(out)
	}
	fmt.Println(cli.RenderReviewTable(sess.Transactions()))
	fmt.Println(cli.RenderSummary(sess.Summary()))

	if dryRun {
		fmt.Println(cli.FormatWarning("Dry run - nothing imported"))
		return nil
	}

	finalRows, err := sess.Resolve()
	if err != nil {
		var validationErr *session.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%w\nassign vehicles with --assign SOURCEID=VEHICLEID and retry", err)
		}
		return err
	}

	if len(finalRows) == 0 {
		fmt.Println(cli.FormatWarning("Nothing to import"))
		return nil
	}

	if !yes {
		ok, err := cli.Confirm(os.Stdin, os.Stdout,
			fmt.Sprintf("Import %d transaction(s)?", len(finalRows)), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println(cli.FormatWarning("Import canceled - nothing committed"))
			return nil
		}
	}

	committer := engine.NewCommitter(store)
	bar := progressbar.NewOptions(len(finalRows),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)
	committer.SetProgressFunc(func(completed, _ int) {
		_ = bar.Set(completed)
	})

	result, err := committer.Commit(ctx, finalRows)
	if err != nil {
		return err
	}
	_ = bar.Finish()
	fmt.Println()

	fmt.Println(cli.RenderCommitResult(result))

	if !result.AllSucceeded() {
		return fmt.Errorf("%d of %d row(s) failed to import", len(result.Failed), len(finalRows))
	}
	return nil
}

// applyOverrides parses --assign and --type flags onto the session.
func applyOverrides(sess *session.Session, assigns, typeOverrides []string) error {
	for _, assign := range assigns {
		sourceID, vehicleID, ok := strings.Cut(assign, "=")
		if !ok {
			return fmt.Errorf("invalid --assign %q, expected SOURCEID=VEHICLEID", assign)
		}
		if err := sess.ApplyVehicleOverride(sourceID, vehicleID); err != nil {
			return fmt.Errorf("--assign %s: %w", assign, err)
		}
	}

	for _, override := range typeOverrides {
		sourceID, kind, ok := strings.Cut(override, "=")
		if !ok {
			return fmt.Errorf("invalid --type %q, expected SOURCEID=KIND", override)
		}
		txnType, err := parseTransactionType(kind)
		if err != nil {
			return fmt.Errorf("--type %s: %w", override, err)
		}
		if err := sess.ApplyTypeOverride(sourceID, txnType); err != nil {
			return fmt.Errorf("--type %s: %w", override, err)
		}
	}

	return nil
}

func parseTransactionType(kind string) (model.TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "fleet", "vehicle", "fleet-vehicle":
		return model.TypeFleetVehicle, nil
	case "aux", "auxiliary", "auxiliary-fuel":
		return model.TypeAuxiliaryFuel, nil
	case "rental", "equipment", "rental-equipment":
		return model.TypeRentalEquipment, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", kind)
	}
}
