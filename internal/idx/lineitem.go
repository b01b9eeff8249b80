package idx

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	approvedFieldBase  = "#sBf33r"
	rejectionFieldBase = "#sBf25r"
	statusDropdownBase = "#sBf51r"
	firstRowIndexSel   = "#sBf1r1"
	rowCounterSel      = "#sAf93"
	activeTabSel       = "button.fe_c_tabs__label.fe_is-selected"
	lineItemActiveTab  = `button.fe_c_tabs__label.fe_is-selected:has-text("Line Item Payment Posting")`
	cancelButtonSel    = "#Cancel"

	dropdownValueSel = "div.rcm-select__single-value"
)

// statusOptions is the fixed order of the per-row status dropdown entries.
// "R" marks the procedure row rejected.
var statusOptions = []string{"", "Y", "N", "R", "?"}

const statusRejected = "R"

// LineItemScreen drives the line-item payment-posting grid. The grid
// virtualizes its rows: only a window is rendered, so a row's backing
// elements exist only after scrolling it into view.
type LineItemScreen struct {
	drv browser.Driver
}

func NewLineItemScreen(drv browser.Driver) *LineItemScreen {
	return &LineItemScreen{drv: drv}
}

// InScreen reports whether the line-item posting tab is the active one.
func (l *LineItemScreen) InScreen() bool {
	return l.drv.IsPresent(lineItemActiveTab)
}

// RowsToProcess reads the visible first-row index field and the running
// counter control and derives the range of procedure rows to populate.
func (l *LineItemScreen) RowsToProcess() (startIndex, maxRow int, err error) {
	if err := l.drv.WaitVisible(firstRowIndexSel, 10*time.Second); err != nil {
		return 0, 0, fmt.Errorf("row index field not available: %w", err)
	}
	indexValue, err := l.drv.ReadValue(firstRowIndexSel)
	if err != nil {
		return 0, 0, err
	}
	counterValue, err := l.drv.ReadValue(rowCounterSel)
	if err != nil {
		return 0, 0, err
	}

	startIndex, err = strconv.Atoi(strings.TrimSpace(indexValue))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed row index %q: %w", indexValue, err)
	}
	counter, err := strconv.Atoi(strings.TrimSpace(counterValue))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed row counter %q: %w", counterValue, err)
	}

	maxRow = RowCount(startIndex, counter)
	logger.Log.Debugf("Line item rows: start=%d counter=%d max=%d", startIndex, counter, maxRow)
	return startIndex, maxRow, nil
}

// RowCount computes the highest row number to populate from the first
// visible row index and the running counter. When the first populated row
// index exceeds 1 the count is raised by one more to account for the
// copay-shifted starting row.
func RowCount(firstIndex, counter int) int {
	maxRow := firstIndex - counter + 1
	if firstIndex > 1 {
		maxRow++
	}
	return maxRow
}

// PopulateRow marks procedure row n rejected and enters the primary
// rejection code. The row is scrolled into the virtual window first so its
// backing elements exist.
func (l *LineItemScreen) PopulateRow(n int, rec *rejection.Rejection) error {
	approvedSel := fmt.Sprintf("%s%d", approvedFieldBase, n)
	rejectionSel := fmt.Sprintf("%s%d", rejectionFieldBase, n)

	if err := l.drv.ScrollIntoView(approvedSel); err != nil {
		return fmt.Errorf("row %d not reachable in grid: %w", n, err)
	}
	if err := l.drv.WaitVisible(approvedSel, 10*time.Second); err != nil {
		return fmt.Errorf("row %d fields not rendered: %w", n, err)
	}

	if err := l.setStatusRejected(n); err != nil {
		return err
	}

	if err := l.drv.Click(approvedSel); err != nil {
		return err
	}
	if err := l.drv.SetText(approvedSel, "0.00"); err != nil {
		return err
	}

	if err := l.drv.Click(rejectionSel); err != nil {
		return err
	}
	if err := l.drv.SetText(rejectionSel, rec.RejCodes[0]); err != nil {
		return err
	}
	if err := l.drv.Press(rejectionSel, "Tab"); err != nil {
		return err
	}
	logger.Log.Debugf("Populated line item row %d.", n)
	return nil
}

// setStatusRejected steps the row's status dropdown to "R" by arrow
// presses, computed from the signed distance between the current and the
// desired entry. Already-correct values are left untouched.
func (l *LineItemScreen) setStatusRejected(row int) error {
	containerSel := fmt.Sprintf("%s%d", statusDropdownBase, row)
	valueSel := containerSel + " " + dropdownValueSel

	current := ""
	if text, err := l.drv.ReadText(valueSel); err == nil {
		current = strings.TrimSpace(text)
	}
	if current == statusRejected {
		return nil
	}

	currentIdx := indexOfStatus(current)
	desiredIdx := indexOfStatus(statusRejected)
	if currentIdx < 0 {
		currentIdx = 0
	}

	steps := desiredIdx - currentIdx
	key := "ArrowDown"
	if steps < 0 {
		key = "ArrowUp"
		steps = -steps
	}

	if err := l.drv.Click(valueSel); err != nil {
		return fmt.Errorf("could not open status dropdown for row %d: %w", row, err)
	}
	for i := 0; i < steps; i++ {
		if err := l.drv.Press(valueSel, key); err != nil {
			return err
		}
	}
	if err := l.drv.Press(valueSel, "Enter"); err != nil {
		return err
	}
	return nil
}

func indexOfStatus(value string) int {
	for i, opt := range statusOptions {
		if opt == value {
			return i
		}
	}
	return -1
}

// FinalizePosting confirms the populated grid. Hard guard: the aggregate
// payment amount must read exactly zero, because no cash may ever be posted
// alongside a rejection-only transaction. A non-zero amount cancels the
// posting and reports failure instead of confirming.
func (l *LineItemScreen) FinalizePosting() (bool, error) {
	amount, err := l.drv.ReadValue(paymentAmountSel)
	if err != nil {
		return false, fmt.Errorf("could not read payment amount before confirm: %w", err)
	}
	if !AmountIsZero(amount) {
		logger.Log.Errorf("Payment amount %q is non-zero; cancelling posting.", amount)
		if err := l.drv.Click(cancelButtonSel); err != nil {
			return false, fmt.Errorf("could not cancel non-zero posting: %w", err)
		}
		return false, nil
	}

	// First confirm files the grid, the second commits the transaction.
	if err := l.drv.Click(batchOKSel); err != nil {
		return false, fmt.Errorf("could not file line item grid: %w", err)
	}
	if err := l.drv.WaitVisible(paycodeFieldSel, 10*time.Second); err != nil {
		return false, fmt.Errorf("posting screen did not return after filing: %w", err)
	}
	if err := l.drv.Click(batchOKSel); err != nil {
		return false, fmt.Errorf("could not commit line item posting: %w", err)
	}
	return true, nil
}

// AmountIsZero reports whether a currency field value represents exactly
// zero. An empty field counts as zero.
func AmountIsZero(value string) bool {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return true
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return false
	}
	return amount == 0
}
