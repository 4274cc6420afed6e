package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return NewStore(conn)
}

func seedLot(t *testing.T, s *Store, lotCode string) {
	t.Helper()

	ctx := context.Background()
	item := &Item{
		Code:      "GT-11",
		Name:      "Grape Tomatoes",
		GTIN:      "00850018478243",
		UnitLabel: "cases",
		Vendor:    "Sunrise Farms",
	}
	if err := s.CreateItem(ctx, item); err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	pack := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	lot := &Lot{LotCode: lotCode, ItemID: item.ID, Quantity: 50, PackDate: &pack}
	if err := s.CreateLot(ctx, lot); err != nil {
		t.Fatalf("failed to seed lot: %v", err)
	}
}

func TestStore_GetLotRecordByCode(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	seedLot(t, s, "107733")

	rec, err := s.GetLotRecordByCode(context.Background(), "107733")
	if err != nil {
		t.Fatalf("GetLotRecordByCode returned error: %v", err)
	}
	if rec.GTIN != "00850018478243" {
		t.Fatalf("expected item gtin on record, got %q", rec.GTIN)
	}
	if rec.ItemName != "Grape Tomatoes" || rec.Vendor != "Sunrise Farms" {
		t.Fatalf("item fields not joined onto record: %+v", rec)
	}
	if rec.Quantity != 50 || rec.UnitLabel != "cases" {
		t.Fatalf("quantity fields wrong: %+v", rec)
	}
	if rec.PackDate.Format("060102") != "250115" {
		t.Fatalf("pack date wrong: %v", rec.PackDate)
	}
}

func TestStore_GetLotRecordByCode_NotFound(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.GetLotRecordByCode(context.Background(), "NOPE")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PrinterRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	p := &Printer{Name: "Dock Door 1", IPAddress: "10.0.0.15", DPI: 203, LabelWidthIn: 4, LabelHeightIn: 2}
	if err := s.CreatePrinter(ctx, p); err != nil {
		t.Fatalf("CreatePrinter returned error: %v", err)
	}
	if p.Port != 9100 {
		t.Fatalf("expected default port 9100, got %d", p.Port)
	}

	target, err := s.GetPrinterTarget(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrinterTarget returned error: %v", err)
	}
	if target.Addr() != "10.0.0.15:9100" {
		t.Fatalf("target addr = %q", target.Addr())
	}

	if err := s.UpdatePrinterStatus(ctx, p.ID, "online"); err != nil {
		t.Fatalf("UpdatePrinterStatus returned error: %v", err)
	}
	got, err := s.GetPrinterByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrinterByID returned error: %v", err)
	}
	if got.Status != "online" || got.LastSeenAt == nil {
		t.Fatalf("status not persisted: %+v", got)
	}

	if err := s.IncrementPrinterPrints(ctx, p.ID, 3); err != nil {
		t.Fatalf("IncrementPrinterPrints returned error: %v", err)
	}
	if err := s.IncrementPrinterPrints(ctx, p.ID, 2); err != nil {
		t.Fatalf("IncrementPrinterPrints returned error: %v", err)
	}
	got, err = s.GetPrinterByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPrinterByID returned error: %v", err)
	}
	if got.TotalPrints != 5 {
		t.Fatalf("expected total_prints 5, got %d", got.TotalPrints)
	}

	if err := s.DeletePrinter(ctx, p.ID); err != nil {
		t.Fatalf("DeletePrinter returned error: %v", err)
	}
	if err := s.DeletePrinter(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestStore_JobLedgerTransitions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	j := &PrintJob{BatchID: "b-1", LotCode: "107733", PrinterID: 1, Profile: "standard", Copies: 3}
	if err := s.CreateJob(ctx, j); err != nil {
		t.Fatalf("CreateJob returned error: %v", err)
	}

	got, err := s.GetJobByID(ctx, j.ID)
	if err != nil {
		t.Fatalf("GetJobByID returned error: %v", err)
	}
	if got.Status != JobStatusPending || got.StartedAt != nil {
		t.Fatalf("new job not pending: %+v", got)
	}

	if err := s.MarkJobPrinting(ctx, j.ID); err != nil {
		t.Fatalf("MarkJobPrinting returned error: %v", err)
	}
	got, _ = s.GetJobByID(ctx, j.ID)
	if got.Status != JobStatusPrinting || got.StartedAt == nil {
		t.Fatalf("job not marked printing: %+v", got)
	}

	if err := s.MarkJobFailed(ctx, j.ID, "connection failed"); err != nil {
		t.Fatalf("MarkJobFailed returned error: %v", err)
	}
	got, _ = s.GetJobByID(ctx, j.ID)
	if got.Status != JobStatusFailed || got.ErrorMessage != "connection failed" || got.CompletedAt == nil {
		t.Fatalf("job not terminal: %+v", got)
	}

	jobs, err := s.ListJobs(ctx, JobStatusFailed, 10, 0)
	if err != nil {
		t.Fatalf("ListJobs returned error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 failed job, got %d", len(jobs))
	}
}

func TestStore_Settings(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetSetting(ctx, "jwt_secret"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing setting, got %v", err)
	}
	if err := s.SetSetting(ctx, "jwt_secret", "abc"); err != nil {
		t.Fatalf("SetSetting returned error: %v", err)
	}
	if err := s.SetSetting(ctx, "jwt_secret", "def"); err != nil {
		t.Fatalf("SetSetting upsert returned error: %v", err)
	}
	got, err := s.GetSetting(ctx, "jwt_secret")
	if err != nil {
		t.Fatalf("GetSetting returned error: %v", err)
	}
	if got.Value != "def" {
		t.Fatalf("expected upserted value, got %q", got.Value)
	}
}
