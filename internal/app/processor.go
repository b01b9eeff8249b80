package app

import (
	"context"
	"fmt"
	"strconv"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/idx"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

// The processor depends on narrow views of the screen navigators so the
// state machine can be exercised against fakes.

type PatientSelector interface {
	Reset() error
	Select(invoiceNumber string) (idx.ModalSignal, bool, error)
}

type PostingScreen interface {
	OpenPaycodeLookup() error
	EnterPaycode(paycode string) bool
	SetLineItemCheckbox(lineItemPost bool) error
}

type PaycodeLookup interface {
	Resolve() (string, error)
}

type LineItemScreen interface {
	RowsToProcess() (startIndex, maxRow int, err error)
	PopulateRow(n int, rec *rejection.Rejection) error
	FinalizePosting() (bool, error)
}

type RejectionsSubScreen interface {
	EnterCarrier(carrier string) error
	PostRejectionCodes(rec *rejection.Rejection) error
	Close() error
}

type BulkScreen interface {
	Enter() error
	PostRejections(rec *rejection.Rejection) (bool, error)
}

type BatchOpener interface {
	Open() (string, error)
}

type ModalChecker interface {
	Check() idx.ModalSignal
}

type ScreenshotSink interface {
	CaptureError(context string) string
}

// Processor drives one rejection record through the posting sequence:
// reset, patient selection, paycode resolution and entry, the line-item or
// bulk branch, and finalization. The record is persisted after every
// observable transition so its stored state reflects the most recent known
// step even mid-failure.
type Processor struct {
	repo       rejection.Repository
	patient    PatientSelector
	posting    PostingScreen
	paycodes   PaycodeLookup
	lineItems  LineItemScreen
	rejections RejectionsSubScreen
	bulk       BulkScreen
	batch      BatchOpener
	modals     ModalChecker
	shots      ScreenshotSink
}

func NewProcessor(
	repo rejection.Repository,
	patient PatientSelector,
	posting PostingScreen,
	paycodes PaycodeLookup,
	lineItems LineItemScreen,
	rejections RejectionsSubScreen,
	bulk BulkScreen,
	batch BatchOpener,
	modals ModalChecker,
	shots ScreenshotSink,
) *Processor {
	return &Processor{
		repo:       repo,
		patient:    patient,
		posting:    posting,
		paycodes:   paycodes,
		lineItems:  lineItems,
		rejections: rejections,
		bulk:       bulk,
		batch:      batch,
		modals:     modals,
		shots:      shots,
	}
}

// Process runs one record end to end. The boolean reports whether the
// record was posted; a record-local failure leaves a comment on the record
// and returns (false, nil). A non-nil error means the remote session could
// not be restored afterwards and is fatal for the current partition.
func (p *Processor) Process(ctx context.Context, rec *rejection.Rejection, batchNumber string) (bool, error) {
	rec.SetBatchNumber(batchNumber)
	logger.Log.Infof("Processing invoice %d in batch %s", rec.InvoiceNumber, batchNumber)

	posted, err := p.attempt(ctx, rec)
	if err == nil {
		return posted, nil
	}

	// Unexpected failure past the record boundary: capture evidence, then
	// defensively reopen the batch so the remote UI is not left mid-form.
	logger.Log.Errorf("Unexpected error processing invoice %d: %v", rec.InvoiceNumber, err)
	p.shots.CaptureError(strconv.FormatInt(rec.InvoiceNumber, 10))

	if _, reopenErr := p.batch.Open(); reopenErr != nil {
		logger.Log.Errorf("Failed to recover after error: %v", reopenErr)
		p.shots.CaptureError("recovery attempt failed")
		return false, fmt.Errorf("unable to recover after processing error: %w", reopenErr)
	}
	return false, nil
}

func (p *Processor) attempt(ctx context.Context, rec *rejection.Rejection) (bool, error) {
	if err := p.patient.Reset(); err != nil {
		return false, err
	}

	invoice := strconv.FormatInt(rec.InvoiceNumber, 10)
	sig, ok, err := p.patient.Select(invoice)
	if err != nil {
		return false, err
	}
	if sig.Kind != idx.KindNone {
		comment := "Modal detected during patient selection: " + sig.FirstLine
		if sig.MentionsGroup() {
			// The record belongs to another group; unprocessable here.
			return false, p.skip(ctx, rec, comment)
		}
		rec.SetComment(comment)
		if err := p.persist(ctx, rec); err != nil {
			return false, err
		}
	}
	if !ok {
		return false, p.skip(ctx, rec, "Invoice field not populated after entry")
	}

	if !rec.Paycode.Valid || rec.Paycode.String == "" {
		if err := p.posting.OpenPaycodeLookup(); err != nil {
			return false, err
		}
		code, err := p.paycodes.Resolve()
		if err != nil {
			return false, err
		}
		if code == "" {
			logger.Log.Warnf("No valid paycode found for invoice %d, skipping.", rec.InvoiceNumber)
			return false, p.skip(ctx, rec, "No valid paycode found")
		}
		rec.SetPaycode(code)
	}
	// Persist the resolved paycode before anything downstream can fail so
	// resolution is never repeated on a retry.
	if err := p.persist(ctx, rec); err != nil {
		return false, err
	}

	if !p.posting.EnterPaycode(rec.Paycode.String) {
		logger.Log.Warnf("Failed to enter paycode for invoice %d, skipping.", rec.InvoiceNumber)
		return false, p.skip(ctx, rec, "Failed to enter paycode")
	}
	if err := p.posting.SetLineItemCheckbox(rec.LineItemPost); err != nil {
		return false, err
	}

	// The checkbox toggle can raise a "Line Item Payments Only" notice;
	// re-enter the paycode and re-toggle once, never in a loop.
	if sig := p.modals.Check(); sig.Kind == idx.KindLineItemOnly {
		logger.Log.Infof("Line-item-only notice for invoice %d; re-entering paycode.", rec.InvoiceNumber)
		if !p.posting.EnterPaycode(rec.Paycode.String) {
			return false, p.skip(ctx, rec, "Failed to enter paycode")
		}
		if err := p.posting.SetLineItemCheckbox(rec.LineItemPost); err != nil {
			return false, err
		}
	} else if sig.Kind != idx.KindNone {
		logger.Log.Infof("Modal detected during rejection entry: %s", sig.FirstLine)
	}

	var posted bool
	if rec.LineItemPost {
		posted, err = p.lineItemFlow(rec)
	} else {
		posted, err = p.bulkFlow(rec)
	}
	if err != nil {
		return false, err
	}

	if posted {
		rec.MarkCompleted()
		return true, p.persist(ctx, rec)
	}

	logger.Log.Errorf("Failed to post for invoice %d", rec.InvoiceNumber)
	p.shots.CaptureError("failed posting for invoice " + invoice)
	if err := p.skip(ctx, rec, "Failed to post, did not post rejection to all lines"); err != nil {
		return false, err
	}
	// The remote UI may be left partially filled; reopen the batch to
	// reset it before the next record.
	if _, err := p.batch.Open(); err != nil {
		return false, err
	}
	return false, nil
}

// lineItemFlow posts the rejection against individual procedure rows. The
// first populated row pulls up the rejections sub-screen where the carrier
// and code pairs are entered; the remaining rows are populated afterwards.
func (p *Processor) lineItemFlow(rec *rejection.Rejection) (bool, error) {
	start, maxRow, err := p.lineItems.RowsToProcess()
	if err != nil {
		return false, err
	}

	if err := p.lineItems.PopulateRow(start, rec); err != nil {
		return false, err
	}
	if err := p.rejections.EnterCarrier(rec.Carrier); err != nil {
		return false, err
	}
	if sig := p.modals.Check(); sig.Kind != idx.KindNone {
		logger.Log.Infof("Modal detected during rejection entry: %s", sig.FirstLine)
	}
	if err := p.rejections.PostRejectionCodes(rec); err != nil {
		return false, err
	}
	if err := p.rejections.Close(); err != nil {
		return false, err
	}

	for row := start + 1; row <= maxRow; row++ {
		logger.Log.Debugf("Populating procedure row %d of %d", row, maxRow)
		if err := p.lineItems.PopulateRow(row, rec); err != nil {
			return false, err
		}
	}

	return p.lineItems.FinalizePosting()
}

func (p *Processor) bulkFlow(rec *rejection.Rejection) (bool, error) {
	if err := p.bulk.Enter(); err != nil {
		return false, err
	}
	return p.bulk.PostRejections(rec)
}

// skip records a permanent, explained skip for this record.
func (p *Processor) skip(ctx context.Context, rec *rejection.Rejection, comment string) error {
	rec.SetComment(comment)
	return p.persist(ctx, rec)
}

func (p *Processor) persist(ctx context.Context, rec *rejection.Rejection) error {
	if err := p.repo.Update(ctx, rec); err != nil {
		return fmt.Errorf("could not persist invoice %d: %w", rec.InvoiceNumber, err)
	}
	return nil
}
