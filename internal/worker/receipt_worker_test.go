package worker

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"vaanipay/internal/core"
	"vaanipay/internal/events"
)

type fakeArchive struct {
	records      map[string]core.TransactionRecord
	unexported   []core.TransactionRecord
	exported     []string
	exportErrors []string
	archiveErr   error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{records: map[string]core.TransactionRecord{}}
}

func (f *fakeArchive) ArchiveTransaction(ctx context.Context, rec core.TransactionRecord) error {
	if f.archiveErr != nil {
		return f.archiveErr
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeArchive) GetTransaction(ctx context.Context, id string) (core.TransactionRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return core.TransactionRecord{}, sql.ErrNoRows
	}
	return rec, nil
}

func (f *fakeArchive) ListUnexported(ctx context.Context, limit int) ([]core.TransactionRecord, error) {
	if limit > len(f.unexported) {
		limit = len(f.unexported)
	}
	return f.unexported[:limit], nil
}

func (f *fakeArchive) MarkExported(ctx context.Context, id string) error {
	f.exported = append(f.exported, id)
	return nil
}

func (f *fakeArchive) MarkExportError(ctx context.Context, id string) error {
	f.exportErrors = append(f.exportErrors, id)
	return nil
}

type fakeStatement struct {
	appended []core.TransactionRecord
	err      error
}

func (f *fakeStatement) Append(ctx context.Context, rec core.TransactionRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appended = append(f.appended, rec)
	return "Statement!A2:E2", nil
}

func testRecord(id string) core.TransactionRecord {
	return core.TransactionRecord{
		ID:                 id,
		CounterpartyName:   "Asha",
		CounterpartyHandle: "asha@upi",
		Amount:             core.RupeesToMoney(500),
		Category:           core.Person,
		Timestamp:          time.Now(),
	}
}

func TestReceiptWorker_HandleMessage(t *testing.T) {
	archive := newFakeArchive()
	stmt := &fakeStatement{}
	w := NewReceiptWorker(archive, stmt, 10)

	rec := testRecord("tx-1")
	msg := events.NewPaymentCompletedMessage(rec)

	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}

	if _, ok := archive.records["tx-1"]; !ok {
		t.Error("transaction should be archived")
	}
	if len(stmt.appended) != 1 {
		t.Fatalf("statement rows = %d, want 1", len(stmt.appended))
	}
	if len(archive.exported) != 1 || archive.exported[0] != "tx-1" {
		t.Errorf("exported = %v, want [tx-1]", archive.exported)
	}
}

func TestReceiptWorker_HandleMessage_Redelivery(t *testing.T) {
	archive := newFakeArchive()
	stmt := &fakeStatement{}
	w := NewReceiptWorker(archive, stmt, 10)

	rec := testRecord("tx-2")
	archive.records["tx-2"] = rec
	// Archive errors would surface if the insert were retried.
	archive.archiveErr = errors.New("unique constraint violation")

	msg := events.NewPaymentCompletedMessage(rec)
	if err := w.HandleMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleMessage() on redelivery error = %v", err)
	}

	if len(stmt.appended) != 1 {
		t.Errorf("statement rows = %d, want 1", len(stmt.appended))
	}
}

func TestReceiptWorker_HandleMessage_StatementFailure(t *testing.T) {
	archive := newFakeArchive()
	stmt := &fakeStatement{err: errors.New("sheets unavailable")}
	w := NewReceiptWorker(archive, stmt, 10)

	msg := events.NewPaymentCompletedMessage(testRecord("tx-3"))
	err := w.HandleMessage(context.Background(), msg)
	if err == nil {
		t.Fatal("HandleMessage() should fail when statement append fails")
	}

	if _, ok := archive.records["tx-3"]; !ok {
		t.Error("transaction should still be archived despite export failure")
	}
	if len(archive.exportErrors) != 1 || archive.exportErrors[0] != "tx-3" {
		t.Errorf("exportErrors = %v, want [tx-3]", archive.exportErrors)
	}
	if len(archive.exported) != 0 {
		t.Errorf("exported = %v, want empty", archive.exported)
	}
}

func TestReceiptWorker_ProcessUnexported(t *testing.T) {
	archive := newFakeArchive()
	archive.unexported = []core.TransactionRecord{
		testRecord("tx-4"), testRecord("tx-5"), testRecord("tx-6"),
	}
	stmt := &fakeStatement{}
	w := NewReceiptWorker(archive, stmt, 2)

	if err := w.ProcessUnexported(context.Background()); err != nil {
		t.Fatalf("ProcessUnexported() error = %v", err)
	}

	// Batch size caps a single sweep.
	if len(stmt.appended) != 2 {
		t.Errorf("statement rows = %d, want 2", len(stmt.appended))
	}
	if len(archive.exported) != 2 {
		t.Errorf("exported = %v, want 2 entries", archive.exported)
	}
}

func TestReceiptWorker_ProcessUnexported_Empty(t *testing.T) {
	archive := newFakeArchive()
	stmt := &fakeStatement{}
	w := NewReceiptWorker(archive, stmt, 10)

	if err := w.ProcessUnexported(context.Background()); err != nil {
		t.Fatalf("ProcessUnexported() error = %v", err)
	}
	if len(stmt.appended) != 0 {
		t.Errorf("statement rows = %d, want 0", len(stmt.appended))
	}
}

func TestReceiptWorker_StartupCheck_ContinuesPastFailures(t *testing.T) {
	archive := newFakeArchive()
	archive.unexported = []core.TransactionRecord{
		testRecord("tx-7"), testRecord("tx-8"),
	}
	stmt := &fakeStatement{err: errors.New("sheets unavailable")}
	w := NewReceiptWorker(archive, stmt, 10)

	if err := w.StartupCheck(context.Background()); err != nil {
		t.Fatalf("StartupCheck() error = %v", err)
	}

	if len(archive.exportErrors) != 2 {
		t.Errorf("exportErrors = %v, want 2 entries", archive.exportErrors)
	}
}
