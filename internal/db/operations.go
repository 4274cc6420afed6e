package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/covxx/paleta/internal/label"
	"github.com/covxx/paleta/internal/printer"
)

// ErrNotFound reports a missing row; callers map it to their own not-found
// semantics.
var ErrNotFound = errors.New("not found")

// Store wraps the sqlite handle. One instance per process, injected into
// whatever needs persistence so tests can build isolated stores.
type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

func (s *Store) CreateItem(ctx context.Context, it *Item) error {
	result, err := s.conn.ExecContext(ctx, insertItem,
		it.Code, it.Name, it.Description, it.GTIN, it.UnitLabel, it.Vendor)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get item id: %w", err)
	}
	it.ID = id
	return nil
}

func (s *Store) GetItemByID(ctx context.Context, id int64) (*Item, error) {
	it := &Item{}
	err := s.conn.QueryRowContext(ctx, getItemByID, id).Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.GTIN,
		&it.UnitLabel, &it.Vendor, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]*Item, error) {
	rows, err := s.conn.QueryContext(ctx, listItems)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(
			&it.ID, &it.Code, &it.Name, &it.Description, &it.GTIN,
			&it.UnitLabel, &it.Vendor, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) CreateLot(ctx context.Context, l *Lot) error {
	result, err := s.conn.ExecContext(ctx, insertLot,
		l.LotCode, l.ItemID, l.Quantity, l.PackDate, l.ExpiryDate)
	if err != nil {
		return fmt.Errorf("failed to create lot: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get lot id: %w", err)
	}
	l.ID = id
	return nil
}

func (s *Store) GetLotByCode(ctx context.Context, code string) (*Lot, error) {
	l := &Lot{}
	err := s.conn.QueryRowContext(ctx, getLotByCode, code).Scan(
		&l.ID, &l.LotCode, &l.ItemID, &l.Quantity, &l.PackDate, &l.ExpiryDate, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lot: %w", err)
	}
	return l, nil
}

func (s *Store) ListLots(ctx context.Context, limit, offset int) ([]*Lot, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.QueryContext(ctx, listLots, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list lots: %w", err)
	}
	defer rows.Close()

	var lots []*Lot
	for rows.Next() {
		l := &Lot{}
		if err := rows.Scan(
			&l.ID, &l.LotCode, &l.ItemID, &l.Quantity, &l.PackDate, &l.ExpiryDate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lot: %w", err)
		}
		lots = append(lots, l)
	}
	return lots, rows.Err()
}

// GetLotRecordByCode joins the lot and its item into the snapshot the label
// engine consumes.
func (s *Store) GetLotRecordByCode(ctx context.Context, code string) (label.TraceabilityRecord, error) {
	var (
		rec      label.TraceabilityRecord
		packDate sql.NullTime
		expiry   sql.NullTime
	)
	err := s.conn.QueryRowContext(ctx, getLotRecordByCode, code).Scan(
		&rec.LotCode, &rec.Quantity, &packDate, &expiry,
		&rec.ItemCode, &rec.ItemName, &rec.ItemDescription, &rec.GTIN,
		&rec.UnitLabel, &rec.Vendor)
	if errors.Is(err, sql.ErrNoRows) {
		return label.TraceabilityRecord{}, ErrNotFound
	}
	if err != nil {
		return label.TraceabilityRecord{}, fmt.Errorf("failed to get lot record: %w", err)
	}
	if packDate.Valid {
		rec.PackDate = packDate.Time
	}
	if expiry.Valid {
		t := expiry.Time
		rec.ExpiryDate = &t
	}
	return rec, nil
}

func (s *Store) CreatePrinter(ctx context.Context, p *Printer) error {
	if p.Port == 0 {
		p.Port = 9100
	}
	if p.Status == "" {
		p.Status = "unknown"
	}
	result, err := s.conn.ExecContext(ctx, insertPrinter,
		p.Name, p.IPAddress, p.Port, p.DPI, p.LabelWidthIn, p.LabelHeightIn, p.Status)
	if err != nil {
		return fmt.Errorf("failed to create printer: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get printer id: %w", err)
	}
	p.ID = id
	return nil
}

func (s *Store) GetPrinterByID(ctx context.Context, id int64) (*Printer, error) {
	p := &Printer{}
	err := s.conn.QueryRowContext(ctx, getPrinterByID, id).Scan(
		&p.ID, &p.Name, &p.IPAddress, &p.Port, &p.DPI,
		&p.LabelWidthIn, &p.LabelHeightIn, &p.Status,
		&p.LastSeenAt, &p.TotalPrints, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get printer: %w", err)
	}
	return p, nil
}

func (s *Store) ListPrinters(ctx context.Context) ([]*Printer, error) {
	rows, err := s.conn.QueryContext(ctx, listPrinters)
	if err != nil {
		return nil, fmt.Errorf("failed to list printers: %w", err)
	}
	defer rows.Close()

	var printers []*Printer
	for rows.Next() {
		p := &Printer{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.IPAddress, &p.Port, &p.DPI,
			&p.LabelWidthIn, &p.LabelHeightIn, &p.Status,
			&p.LastSeenAt, &p.TotalPrints, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan printer: %w", err)
		}
		printers = append(printers, p)
	}
	return printers, rows.Err()
}

func (s *Store) UpdatePrinter(ctx context.Context, p *Printer) error {
	_, err := s.conn.ExecContext(ctx, updatePrinter,
		p.Name, p.IPAddress, p.Port, p.DPI, p.LabelWidthIn, p.LabelHeightIn, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update printer: %w", err)
	}
	return nil
}

func (s *Store) UpdatePrinterStatus(ctx context.Context, id int64, status string) error {
	_, err := s.conn.ExecContext(ctx, updatePrinterStatus, status, id)
	if err != nil {
		return fmt.Errorf("failed to update printer status: %w", err)
	}
	return nil
}

func (s *Store) IncrementPrinterPrints(ctx context.Context, id int64, count int) error {
	_, err := s.conn.ExecContext(ctx, incrementPrinterPrints, count, id)
	if err != nil {
		return fmt.Errorf("failed to increment print count: %w", err)
	}
	return nil
}

func (s *Store) DeletePrinter(ctx context.Context, id int64) error {
	result, err := s.conn.ExecContext(ctx, deletePrinter, id)
	if err != nil {
		return fmt.Errorf("failed to delete printer: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPrinterTarget resolves a printer row into the transport's target form.
func (s *Store) GetPrinterTarget(ctx context.Context, id int64) (printer.Target, error) {
	p, err := s.GetPrinterByID(ctx, id)
	if err != nil {
		return printer.Target{}, err
	}
	return printer.Target{
		IPAddress:     p.IPAddress,
		Port:          p.Port,
		DPI:           p.DPI,
		LabelWidthIn:  p.LabelWidthIn,
		LabelHeightIn: p.LabelHeightIn,
	}, nil
}

func (s *Store) CreateJob(ctx context.Context, j *PrintJob) error {
	if j.Status == "" {
		j.Status = JobStatusPending
	}
	if j.Copies <= 0 {
		j.Copies = 1
	}
	result, err := s.conn.ExecContext(ctx, insertJob,
		j.BatchID, j.LotCode, j.PrinterID, j.Profile, j.Copies, j.Status)
	if err != nil {
		return fmt.Errorf("failed to create print job: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get job id: %w", err)
	}
	j.ID = id
	j.CreatedAt = time.Now()
	return nil
}

func (s *Store) GetJobByID(ctx context.Context, id int64) (*PrintJob, error) {
	j := &PrintJob{}
	err := s.conn.QueryRowContext(ctx, getJobByID, id).Scan(
		&j.ID, &j.BatchID, &j.LotCode, &j.PrinterID, &j.Profile, &j.Copies,
		&j.Status, &j.ErrorMessage, &j.CreatedAt, &j.StartedAt, &j.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get print job: %w", err)
	}
	return j, nil
}

func (s *Store) ListJobs(ctx context.Context, status string, limit, offset int) ([]*PrintJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(listJobs, "")
	args := []any{limit, offset}
	if status != "" {
		query = fmt.Sprintf(listJobs, "WHERE status = ?")
		args = []any{status, limit, offset}
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list print jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*PrintJob
	for rows.Next() {
		j := &PrintJob{}
		if err := rows.Scan(
			&j.ID, &j.BatchID, &j.LotCode, &j.PrinterID, &j.Profile, &j.Copies,
			&j.Status, &j.ErrorMessage, &j.CreatedAt, &j.StartedAt, &j.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan print job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Store) MarkJobPrinting(ctx context.Context, id int64) error {
	_, err := s.conn.ExecContext(ctx, markJobPrinting, JobStatusPrinting, id)
	if err != nil {
		return fmt.Errorf("failed to mark job printing: %w", err)
	}
	return nil
}

func (s *Store) MarkJobCompleted(ctx context.Context, id int64, message string) error {
	_, err := s.conn.ExecContext(ctx, markJobTerminal, JobStatusCompleted, message, id)
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

func (s *Store) MarkJobFailed(ctx context.Context, id int64, message string) error {
	_, err := s.conn.ExecContext(ctx, markJobTerminal, JobStatusFailed, message, id)
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}

func (s *Store) GetSetting(ctx context.Context, key string) (*Setting, error) {
	st := &Setting{}
	err := s.conn.QueryRowContext(ctx, getSetting, key).Scan(&st.Key, &st.Value, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return st, nil
}

func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx, setSetting, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}
