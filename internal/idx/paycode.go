package idx

import (
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const lookupCancelSel = "#rcmLookupBoxButtonCancel"

// paycodeExcludes are grid categories that can never be posted manually.
var paycodeExcludes = []string{"REJECTION", "CREDITS", "UNIDENTIFIED", "EOB"}

// PaycodeLookup drives the payment-codes lookup modal and picks a manual
// paycode from its grid.
type PaycodeLookup struct {
	drv browser.Driver
}

func NewPaycodeLookup(drv browser.Driver) *PaycodeLookup {
	return &PaycodeLookup{drv: drv}
}

func (p *PaycodeLookup) confirmOpen() bool {
	if err := p.drv.WaitVisible(lookupDialogSel, 10*time.Second); err != nil {
		logger.Log.Debug("Payment codes modal did not open within the given time.")
		return false
	}
	return true
}

func (p *PaycodeLookup) close() {
	if err := p.drv.Click(lookupCancelSel); err != nil {
		logger.Log.Warnf("Could not close payment codes modal: %v", err)
	}
}

// Resolve reads the code-name/code-value column pairs from the lookup grid
// and returns the manual paycode to use. Returns "" when no manual
// candidate exists; with several candidates the first in grid order wins
// and a warning is logged.
func (p *PaycodeLookup) Resolve() (string, error) {
	if !p.confirmOpen() {
		return "", nil
	}
	defer p.close()

	cells, err := p.drv.GridCells(lookupGridCellSel)
	if err != nil {
		return "", err
	}

	var names, codes []string
	for _, cell := range cells {
		switch cell.ColID {
		case "col1":
			names = append(names, cell.Text)
		case "col2":
			codes = append(codes, cell.Text)
		}
	}

	candidates := SelectManualPaycodes(names, codes)
	switch {
	case len(candidates) == 0:
		logger.Log.Warn("No manual payment codes found in the lookup grid.")
		return "", nil
	case len(candidates) > 1:
		logger.Log.Warnf("Multiple manual payment codes found %v; using the first.", candidates)
	}
	logger.Log.Infof("Resolved payment code: %s", candidates[0])
	return candidates[0], nil
}

// SelectManualPaycodes pairs names with codes by position, drops known
// non-manual categories, keeps names containing MANUAL and deduplicates by
// code value preserving grid order.
func SelectManualPaycodes(names, codes []string) []string {
	n := len(names)
	if len(codes) < n {
		n = len(codes)
	}

	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < n; i++ {
		name := strings.ToUpper(names[i])

		excluded := false
		for _, bad := range paycodeExcludes {
			if strings.Contains(name, bad) {
				excluded = true
				break
			}
		}
		if excluded || !strings.Contains(name, "MANUAL") {
			continue
		}

		code := strings.TrimSpace(codes[i])
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
