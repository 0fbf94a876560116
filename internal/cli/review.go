package cli

import (
	"fmt"
	"strings"

	"github.com/fleetops/fuelflow/internal/model"
	"github.com/fleetops/fuelflow/internal/service"
)

// statusLabel renders a transaction status with its theme color.
func statusLabel(status model.TransactionStatus) string {
	switch status {
	case model.StatusNew:
		return SuccessStyle.Render("NEW")
	case model.StatusDuplicate:
		return SubtleStyle.Render("DUPLICATE")
	case model.StatusFlagged:
		return WarningStyle.Render("FLAGGED")
	default:
		return string(status)
	}
}

func typeLabel(t model.TransactionType) string {
	switch t {
	case model.TypeFleetVehicle:
		return "Fleet"
	case model.TypeAuxiliaryFuel:
		return "Auxiliary"
	case model.TypeRentalEquipment:
		return "Rental"
	default:
		return string(t)
	}
}

// RenderReviewTable renders the verification table the operator inspects
// before committing. Flagged and duplicate rows are always shown with
// their reasons; nothing is hidden.
func RenderReviewTable(transactions []model.ProcessedTransaction) string {
	var b strings.Builder

	header := fmt.Sprintf("%-14s %-10s %-12s %-9s %-10s %-8s %-10s %s",
		"SOURCE ID", "DATE", "VEHICLE", "TYPE", "TOTAL", "GALLONS", "STATUS", "REASON")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for _, txn := range transactions {
		vehicle := txn.Match.VehicleID
		if vehicle == "" {
			vehicle = SubtleStyle.Render("—")
		}

		b.WriteString(fmt.Sprintf("%-14s %-10s %-12s %-9s %-10s %-8s %-10s %s\n",
			truncate(txn.SourceID, 14),
			txn.Date.Format("2006-01-02"),
			truncate(vehicle, 12),
			typeLabel(txn.Type),
			"$"+txn.TotalCost.StringFixed(2),
			txn.Gallons.StringFixed(1),
			statusLabel(txn.Status),
			txn.FlagReason))
	}

	return b.String()
}

// RenderSummary renders the session summary box.
func RenderSummary(summary model.Summary) string {
	content := fmt.Sprintf(
		"Total:      %d\n%s %d\n%s %d\n%s %d",
		summary.Total,
		SuccessStyle.Render("New:       "), summary.New,
		SubtleStyle.Render("Duplicate: "), summary.Duplicate,
		WarningStyle.Render("Flagged:   "), summary.Flagged,
	)
	return RenderBox("Reconciliation Summary", content)
}

// RenderParseErrors renders rejected statement lines, if any.
func RenderParseErrors(errs []model.RowError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(FormatWarning(fmt.Sprintf("%d line(s) could not be parsed:", len(errs))))
	b.WriteString("\n")
	for _, e := range errs {
		b.WriteString(SubtleStyle.Render(fmt.Sprintf("  line %d: %v", e.Line, e.Err)))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderCommitResult renders the per-row commit outcome.
func RenderCommitResult(result *service.CommitResult) string {
	var b strings.Builder

	b.WriteString(FormatSuccess(fmt.Sprintf("%d transaction(s) imported", len(result.Succeeded))))
	b.WriteString("\n")

	if len(result.Failed) > 0 {
		b.WriteString(FormatError(fmt.Sprintf("%d transaction(s) failed:", len(result.Failed))))
		b.WriteString("\n")
		for _, f := range result.Failed {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("  %s: %v", f.SourceID, f.Err)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
