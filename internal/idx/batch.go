package idx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	batchHeaderSel      = ".fe_c_tabs__label-text"
	formHeaderSel       = "#formHeader"
	batchNumberSel      = "#sAf2"
	depositDateSel      = "#sAf12"
	descriptionSel      = "#sAf3"
	paymentTypeSel      = "#sAf16"
	paymentAmountSel    = "#sAf92"
	dispositionSel      = "#sAf10"
	batchOKSel          = "#OK"
	lookupDialogSel     = "div.fe_c_overlay__dialog.fe_c_lightbox__dialog.fe_c_lightbox__dialog--medium"
	lookupGridCellSel   = `div[class*="ag-cell-value"][role="gridcell"]`
	lookupOKSel         = "#rcmLookupBoxButtonOk"
	postReceiptsCellSel = `div[class*="ag-cell-value"][role="gridcell"]:has-text("POST RECEIPTS")`

	batchDescription = "AUTO - PIC Scripting"
	fieldRetries     = 3
)

// batchField is one required entry on the batch-open form. Fields must be
// populated in dictionary order; each entry is committed with Tab.
type batchField struct {
	name  string
	sel   string
	value string
}

// batchFields lists the six required fields in fixed population order:
// batch source (G = generate new), deposit date (T = today), description,
// payment type, payment amount, disposition (O = open).
var batchFields = []batchField{
	{"batch number", batchNumberSel, "G"},
	{"bank deposit date", depositDateSel, "T"},
	{"description", descriptionSel, batchDescription},
	{"payment type", paymentTypeSel, "3"},
	{"payment amount", paymentAmountSel, "0"},
	{"disposition", dispositionSel, "O"},
}

// BatchScreen drives the payment-posting batch container screen.
type BatchScreen struct {
	drv browser.Driver
}

func NewBatchScreen(drv browser.Driver) *BatchScreen {
	return &BatchScreen{drv: drv}
}

// InScreen reports whether the batch page is currently shown.
func (b *BatchScreen) InScreen() bool {
	return b.drv.WaitVisible(batchHeaderSel, 5*time.Second) == nil
}

// CurrentGroup parses the active group number out of the form header text,
// which reads like "Payment Batch Grp:4 ...".
func (b *BatchScreen) CurrentGroup() (int, error) {
	if err := b.drv.WaitVisible(formHeaderSel, 10*time.Second); err != nil {
		return 0, fmt.Errorf("batch form header not available: %w", err)
	}
	header, err := b.drv.ReadText(formHeaderSel)
	if err != nil {
		return 0, err
	}
	return parseGroupHeader(header)
}

// parseGroupHeader extracts N from a "Grp:N" token in the header text.
func parseGroupHeader(header string) (int, error) {
	for _, token := range strings.Fields(header) {
		if !strings.HasPrefix(token, "Grp:") {
			continue
		}
		group, err := strconv.Atoi(strings.TrimPrefix(token, "Grp:"))
		if err != nil {
			return 0, fmt.Errorf("malformed group token %q in header", token)
		}
		return group, nil
	}
	return 0, fmt.Errorf("no group token in header %q", header)
}

// IsOpen reports whether a batch container is already open: the batch
// number field holds a numeric remote-assigned value.
func (b *BatchScreen) IsOpen() bool {
	if err := b.drv.WaitVisible(batchNumberSel, 5*time.Second); err != nil {
		return false
	}
	value, err := b.drv.ReadValue(batchNumberSel)
	if err != nil || value == "" {
		return false
	}
	if _, err := strconv.Atoi(value); err != nil {
		return false
	}
	return true
}

// Open ensures a batch container is open and returns its remote-assigned
// number. Idempotent: an already-open batch is re-validated, not recreated.
func (b *BatchScreen) Open() (string, error) {
	if !b.IsOpen() {
		logger.Log.Info("No batch is currently open. Opening a new batch.")
		for _, field := range batchFields {
			if err := b.populateField(field); err != nil {
				return "", err
			}
		}
	} else {
		// Re-click the disposition control to clear any stale overlay left
		// by a previous failure before trusting the field values.
		if err := b.drv.Click(dispositionSel); err != nil {
			return "", fmt.Errorf("could not refocus disposition field: %w", err)
		}
		b.resolveReceiptTypeModal()
	}

	if err := b.validateFields(); err != nil {
		return "", err
	}
	if err := b.drv.Click(batchOKSel); err != nil {
		return "", fmt.Errorf("could not confirm batch: %w", err)
	}

	number, err := b.drv.ReadValue(batchNumberSel)
	if err != nil {
		return "", fmt.Errorf("could not read batch number after open: %w", err)
	}
	logger.Log.Infof("Batch %s is open.", number)
	return number, nil
}

// populateField enters one batch field and verifies it retained a value,
// retrying that field alone a bounded number of times. The bulk
// receipt-type selector may pop up mid-population (typically when the
// disposition field empties itself); it is resolved before retrying.
func (b *BatchScreen) populateField(field batchField) error {
	for attempt := 1; attempt <= fieldRetries; attempt++ {
		if err := b.drv.SetText(field.sel, field.value); err != nil {
			return fmt.Errorf("could not enter %s: %w", field.name, err)
		}
		if err := b.drv.Press(field.sel, "Tab"); err != nil {
			return fmt.Errorf("could not commit %s: %w", field.name, err)
		}

		value, err := b.drv.ReadValue(field.sel)
		if err == nil && value != "" {
			logger.Log.Debugf("Field %s populated with value: %s", field.name, value)
			return nil
		}

		logger.Log.Warnf("Field %s did not retain a value (attempt %d/%d).", field.name, attempt, fieldRetries)
		b.resolveReceiptTypeModal()
	}
	return fmt.Errorf("field %s empty after %d attempts", field.name, fieldRetries)
}

// validateFields checks every batch field is non-empty before confirming.
func (b *BatchScreen) validateFields() error {
	for _, field := range batchFields {
		if err := b.drv.WaitVisible(field.sel, 5*time.Second); err != nil {
			return fmt.Errorf("field %s not found: %w", field.name, err)
		}
		value, err := b.drv.ReadValue(field.sel)
		if err != nil {
			return fmt.Errorf("error checking field %s: %w", field.name, err)
		}
		if value == "" {
			return fmt.Errorf("field %s is empty", field.name)
		}
		logger.Log.Debugf("Field %s present with value: %s", field.name, value)
	}
	return nil
}

// resolveReceiptTypeModal dismisses the bulk receipt-type selector by
// choosing POST RECEIPTS, when the selector is present.
func (b *BatchScreen) resolveReceiptTypeModal() {
	if !b.drv.IsPresent(lookupDialogSel) {
		return
	}
	logger.Log.Info("Receipt-type selector detected; choosing POST RECEIPTS.")
	if err := b.drv.Click(postReceiptsCellSel); err != nil {
		logger.Log.Warnf("Could not select POST RECEIPTS: %v", err)
		return
	}
	if err := b.drv.Click(lookupOKSel); err != nil {
		logger.Log.Warnf("Could not confirm receipt-type selector: %v", err)
	}
}
