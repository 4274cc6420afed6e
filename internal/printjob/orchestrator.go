package printjob

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/covxx/paleta/internal/db"
	"github.com/covxx/paleta/internal/gs1"
	"github.com/covxx/paleta/internal/label"
	"github.com/covxx/paleta/internal/printer"
)

var (
	ErrNoLotCodes      = errors.New("no lot codes supplied")
	ErrLotNotFound     = errors.New("lot not found")
	ErrPrinterNotFound = errors.New("printer not found")
)

const defaultMaxCopies = 100

// LotStore resolves lot codes into label records.
type LotStore interface {
	GetLotRecordByCode(ctx context.Context, code string) (label.TraceabilityRecord, error)
}

// PrinterStore resolves printer ids into transport targets and keeps the
// per-printer print counter.
type PrinterStore interface {
	GetPrinterTarget(ctx context.Context, id int64) (printer.Target, error)
	IncrementPrinterPrints(ctx context.Context, id int64, count int) error
}

// Ledger records job state transitions for audit.
type Ledger interface {
	CreateJob(ctx context.Context, j *db.PrintJob) error
	MarkJobPrinting(ctx context.Context, id int64) error
	MarkJobCompleted(ctx context.Context, id int64, message string) error
	MarkJobFailed(ctx context.Context, id int64, message string) error
}

// Sender delivers one rendered document, one copy per call.
type Sender interface {
	Send(ctx context.Context, target printer.Target, markup string) error
}

// Renderer produces the label document for a record.
type Renderer interface {
	Render(rec label.TraceabilityRecord, target printer.Target, profile label.Profile) (string, gs1.Payload, *gs1.VoicePickCode, error)
}

// Orchestrator drives render -> ledger -> transport for each (lot, printer,
// copies) triple. Construct once and share; per-printer serialization lives
// in the transport.
type Orchestrator struct {
	lots      LotStore
	printers  PrinterStore
	ledger    Ledger
	sender    Sender
	renderer  Renderer
	maxCopies int
}

func NewOrchestrator(lots LotStore, printers PrinterStore, ledger Ledger, sender Sender, renderer Renderer) *Orchestrator {
	return &Orchestrator{
		lots:      lots,
		printers:  printers,
		ledger:    ledger,
		sender:    sender,
		renderer:  renderer,
		maxCopies: defaultMaxCopies,
	}
}

// SetMaxCopies overrides the per-job copy ceiling. Values below 1 are ignored.
func (o *Orchestrator) SetMaxCopies(n int) {
	if n >= 1 {
		o.maxCopies = n
	}
}

// PrintOne prints `copies` labels for one lot on one printer. custom carries
// the caller-supplied fields for the Custom profile; nil otherwise. Expected
// failures (missing lot or printer, transport faults) come back as the
// outcome, never as a panic or error.
func (o *Orchestrator) PrintOne(ctx context.Context, lotCode string, printerID int64, profile label.Profile, copies int, custom *label.CustomFields) Outcome {
	copies = o.clampCopies(copies)

	target, err := o.printers.GetPrinterTarget(ctx, printerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Failure(copies, ErrPrinterNotFound.Error())
		}
		return Failure(copies, err.Error())
	}

	rec, err := o.lots.GetLotRecordByCode(ctx, lotCode)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Failure(copies, ErrLotNotFound.Error())
		}
		return Failure(copies, err.Error())
	}
	if custom != nil {
		rec.Custom = custom
	}

	return o.printRecord(ctx, uuid.NewString(), rec, printerID, target, profile, copies)
}

// PrintBatch prints every lot in input order on one printer; custom, when
// non-nil, applies to every lot in the batch. A missing printer aborts before
// any attempt; a missing lot fails only its own item.
func (o *Orchestrator) PrintBatch(ctx context.Context, lotCodes []string, printerID int64, profile label.Profile, copies int, custom *label.CustomFields) (BatchOutcome, error) {
	if len(lotCodes) == 0 {
		return BatchOutcome{}, ErrNoLotCodes
	}
	copies = o.clampCopies(copies)

	target, err := o.printers.GetPrinterTarget(ctx, printerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return BatchOutcome{}, ErrPrinterNotFound
		}
		return BatchOutcome{}, err
	}

	batch := BatchOutcome{BatchID: uuid.NewString()}
	for _, code := range lotCodes {
		var outcome Outcome

		rec, err := o.lots.GetLotRecordByCode(ctx, code)
		switch {
		case errors.Is(err, db.ErrNotFound):
			outcome = Failure(copies, ErrLotNotFound.Error())
		case err != nil:
			outcome = Failure(copies, err.Error())
		default:
			if custom != nil {
				rec.Custom = custom
			}
			outcome = o.printRecord(ctx, batch.BatchID, rec, printerID, target, profile, copies)
		}

		batch.Items = append(batch.Items, BatchItem{LotCode: code, Outcome: outcome})
		if outcome.OK() {
			batch.Successful++
		} else {
			batch.Failed++
		}
	}
	return batch, nil
}

// printRecord runs one ledgered job: pending at creation, printing at
// send-start, completed/failed at send-end. Copies go out sequentially so a
// failure stays attributable to its copy index.
func (o *Orchestrator) printRecord(ctx context.Context, batchID string, rec label.TraceabilityRecord, printerID int64, target printer.Target, profile label.Profile, copies int) Outcome {
	job := &db.PrintJob{
		BatchID:   batchID,
		LotCode:   rec.LotCode,
		PrinterID: printerID,
		Profile:   profile.String(),
		Copies:    copies,
	}
	if err := o.ledger.CreateJob(ctx, job); err != nil {
		log.Printf("printjob: failed to record job for lot %s: %v", rec.LotCode, err)
	}

	markup, _, _, err := o.renderer.Render(rec, target, profile)
	if err != nil {
		o.markFailed(ctx, job.ID, err.Error())
		return Failure(copies, fmt.Sprintf("render failed: %v", err))
	}

	if err := o.ledger.MarkJobPrinting(ctx, job.ID); err != nil {
		log.Printf("printjob: failed to mark job %d printing: %v", job.ID, err)
	}

	succeeded := 0
	var lastErr error
	for i := 0; i < copies; i++ {
		if err := o.sender.Send(ctx, target, markup); err != nil {
			lastErr = err
			log.Printf("printjob: lot %s copy %d/%d failed: %v", rec.LotCode, i+1, copies, err)
			continue
		}
		succeeded++
	}

	if succeeded > 0 {
		if err := o.printers.IncrementPrinterPrints(ctx, printerID, succeeded); err != nil {
			log.Printf("printjob: failed to bump print counter for printer %d: %v", printerID, err)
		}
	}

	switch {
	case succeeded == copies:
		if err := o.ledger.MarkJobCompleted(ctx, job.ID, ""); err != nil {
			log.Printf("printjob: failed to mark job %d completed: %v", job.ID, err)
		}
		return Success(copies)
	case succeeded > 0:
		msg := fmt.Sprintf("printed %d/%d copies: %v", succeeded, copies, lastErr)
		if err := o.ledger.MarkJobCompleted(ctx, job.ID, msg); err != nil {
			log.Printf("printjob: failed to mark job %d completed: %v", job.ID, err)
		}
		return Partial(succeeded, copies, lastErr.Error())
	default:
		o.markFailed(ctx, job.ID, lastErr.Error())
		return Failure(copies, lastErr.Error())
	}
}

func (o *Orchestrator) markFailed(ctx context.Context, jobID int64, msg string) {
	if err := o.ledger.MarkJobFailed(ctx, jobID, msg); err != nil {
		log.Printf("printjob: failed to mark job %d failed: %v", jobID, err)
	}
}

func (o *Orchestrator) clampCopies(copies int) int {
	if copies < 1 {
		return 1
	}
	if copies > o.maxCopies {
		return o.maxCopies
	}
	return copies
}
