package idx

import (
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	patientFieldSel  = "#sAf1"
	invoiceFieldSel  = "#sAf6"
	actionsButtonSel = "#Actions"
	actionsListSel   = "#rcm-dbms-action-code-area"
	resetActionSel   = "#selectorActionCodeX"
)

// PatientSelector drives the patient-selection portion of the posting
// screen: resetting stale patient context and pulling up an invoice.
type PatientSelector struct {
	drv    browser.Driver
	modals *ModalInterceptor
}

func NewPatientSelector(drv browser.Driver, modals *ModalInterceptor) *PatientSelector {
	return &PatientSelector{drv: drv, modals: modals}
}

// Reset clears any stale patient context via Actions -> Reset. A no-op when
// the patient field is already empty.
func (p *PatientSelector) Reset() error {
	value, err := p.drv.ReadValue(patientFieldSel)
	if err != nil {
		return fmt.Errorf("could not read patient field: %w", err)
	}
	if value == "" {
		logger.Log.Debug("Patient field already empty, no reset needed.")
		return nil
	}

	if err := p.drv.Click(actionsButtonSel); err != nil {
		return fmt.Errorf("could not open actions menu: %w", err)
	}
	if err := p.drv.WaitVisible(actionsListSel, 10*time.Second); err != nil {
		return fmt.Errorf("actions code list not available: %w", err)
	}
	if err := p.drv.Click(resetActionSel); err != nil {
		return fmt.Errorf("could not trigger reset action: %w", err)
	}
	logger.Log.Debug("Patient field reset via Actions -> Reset.")

	// The reset sometimes leaves a residual value; clear it directly.
	value, err = p.drv.ReadValue(patientFieldSel)
	if err == nil && value != "" {
		if err := p.drv.SetText(patientFieldSel, ""); err != nil {
			return err
		}
	}
	return nil
}

// Select pulls up the patient for the given invoice number. Any dialog the
// remote side raises during selection is dismissed and returned for the
// caller to branch on; ok reports whether the invoice field confirmed the
// entry.
func (p *PatientSelector) Select(invoiceNumber string) (ModalSignal, bool, error) {
	if err := p.drv.WaitVisible(patientFieldSel, 10*time.Second); err != nil {
		return ModalSignal{Kind: KindNone}, false, fmt.Errorf("patient field not available: %w", err)
	}

	if err := p.drv.SetText(patientFieldSel, ""); err != nil {
		return ModalSignal{Kind: KindNone}, false, err
	}
	if !p.drv.WaitValue(patientFieldSel, "", 5*time.Second) {
		logger.Log.Warn("Patient field did not clear before entry.")
	}

	// Invoice lookups are entered with a leading dash.
	if err := p.drv.SetText(patientFieldSel, "-"+invoiceNumber); err != nil {
		return ModalSignal{Kind: KindNone}, false, err
	}
	if err := p.drv.Press(patientFieldSel, "Tab"); err != nil {
		return ModalSignal{Kind: KindNone}, false, err
	}

	sig := p.modals.Check()

	ok := p.drv.WaitValue(invoiceFieldSel, invoiceNumber, 5*time.Second)
	if !ok {
		logger.Log.Error("Invoice number field not populated after entry.")
	}
	return sig, ok, nil
}
