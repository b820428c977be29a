package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"costbot/internal/amqp"
	"costbot/internal/core"
)

type fakeReader struct {
	entry    core.CostEntry
	category core.Category
	err      error
}

func (f *fakeReader) GetCost(_ context.Context, id int64) (core.CostEntry, core.Category, error) {
	if f.err != nil {
		return core.CostEntry{}, core.Category{}, f.err
	}
	if id != f.entry.ID {
		return core.CostEntry{}, core.Category{}, errors.New("no such cost")
	}
	return f.entry, f.category, nil
}

type fakeAppender struct {
	appended []core.CostEntry
	err      error
}

func (f *fakeAppender) Append(_ context.Context, _ core.Account, _ core.Category, e core.CostEntry) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, e)
	return "Costs!A2:E2", nil
}

func TestHandleCostEventLogged(t *testing.T) {
	reader := &fakeReader{
		entry: core.CostEntry{
			ID:         7,
			CategoryID: 1,
			At:         time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Amount:     core.Money{Cents: 999},
		},
		category: core.Category{ID: 1, Account: 10, Alias: "food", Name: "Food"},
	}
	appender := &fakeAppender{}
	w := NewExportWorker(reader, appender)

	msg := amqp.NewCostEventMessage(amqp.KindCostLogged, 7)
	if err := w.HandleCostEvent(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(appender.appended) != 1 || appender.appended[0].ID != 7 {
		t.Fatalf("expected entry 7 appended, got %+v", appender.appended)
	}
}

func TestHandleCostEventLoggedErrorsRequeue(t *testing.T) {
	w := NewExportWorker(&fakeReader{err: errors.New("db down")}, &fakeAppender{})

	msg := amqp.NewCostEventMessage(amqp.KindCostLogged, 7)
	if err := w.HandleCostEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
}

func TestHandleCostEventRemovedIsNoOp(t *testing.T) {
	appender := &fakeAppender{}
	w := NewExportWorker(&fakeReader{err: errors.New("must not be called")}, appender)

	msg := amqp.NewCostEventMessage(amqp.KindCostRemoved, 7)
	if err := w.HandleCostEvent(context.Background(), msg); err != nil {
		t.Fatalf("removed event must not fail: %v", err)
	}
	if len(appender.appended) != 0 {
		t.Fatalf("removed event must not append: %+v", appender.appended)
	}
}

func TestHandleCostEventUnknownKind(t *testing.T) {
	w := NewExportWorker(&fakeReader{}, &fakeAppender{})

	msg := amqp.NewCostEventMessage("mystery", 7)
	if err := w.HandleCostEvent(context.Background(), msg); err != nil {
		t.Fatalf("unknown kind must be dropped, not requeued: %v", err)
	}
}
