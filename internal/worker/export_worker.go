// Package worker exports logged costs to an external sheet, driven by the
// cost events queue.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"costbot/internal/amqp"
	"costbot/internal/core"
	"costbot/internal/sheets"
)

// CostReader is the slice of the ledger store the worker needs.
type CostReader interface {
	GetCost(ctx context.Context, id int64) (core.CostEntry, core.Category, error)
}

// ExportWorker appends logged costs to a sheet as their events arrive.
type ExportWorker struct {
	ledger   CostReader
	appender sheets.CostAppender
}

func NewExportWorker(ledger CostReader, appender sheets.CostAppender) *ExportWorker {
	return &ExportWorker{
		ledger:   ledger,
		appender: appender,
	}
}

// HandleCostEvent processes a single cost event. Returning an error
// requeues the delivery.
func (w *ExportWorker) HandleCostEvent(ctx context.Context, msg *amqp.CostEventMessage) error {
	switch msg.Kind {
	case amqp.KindCostLogged:
		return w.exportCost(ctx, msg.ID)

	case amqp.KindCostRemoved:
		// The row is already gone from the ledger, so there is nothing to
		// fetch; the removal is only recorded in the worker's log.
		slog.InfoContext(ctx, "Cost removed", "id", msg.ID)
		return nil

	default:
		slog.WarnContext(ctx, "Unknown cost event kind", "kind", msg.Kind, "id", msg.ID)
		return nil
	}
}

func (w *ExportWorker) exportCost(ctx context.Context, id int64) error {
	entry, category, err := w.ledger.GetCost(ctx, id)
	if err != nil {
		return fmt.Errorf("get cost from ledger: %w", err)
	}

	ref, err := w.appender.Append(ctx, category.Account, category, entry)
	if err != nil {
		return fmt.Errorf("append cost to sheet: %w", err)
	}

	slog.InfoContext(ctx, "Cost exported",
		"id", id,
		"amount_cents", entry.Amount.Cents,
		"sheets_ref", ref)
	return nil
}
