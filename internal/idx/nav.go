package idx

import (
	"fmt"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const vtbButtonSel = "#vtbToggleButton"

// DestinationPaymentPosting is the toolbar destination used for posting runs.
const DestinationPaymentPosting = "Payment Posting"

// vtbOptions maps toolbar destinations to their menu entry selectors.
var vtbOptions = map[string]string{
	"Patient Services": "#IDXFC_IDXML_regPatientServices",
	"TES":              "#IDXFC_IDXML_NSLI_TES_HTB",
	"TES Reports":      "#IDXFC_IDXML_NSLI_TES_REPORTS_HTB",
	"ETM":              "#IDXFC_IDXML_NSLI_ETM_HTB",
	"EDI":              "#IDXFC_IDXML_NSLI_EDI_HTB",
	"Payment Posting":  "#IDXFC_IDXML_NSLI_PAYMENT_POST_HTB",
	"BAR":              "#IDXFC_IDXML_NSLI_BAR_HTB",
	"BAR Reports":      "#IDXFC_IDXML_NSLI_BAR_RPTS_HTB",
	"DBMS":             "#IDXFC_IDXML_NSLI_DBMS_HTB",
	"Invoice Inquiry":  "#IDXFC_IDXML_NSLI_INV_INQ_HTB",
	"Dictionaries":     "#IDXFC_IDXML_NSLI_DICTIONARIES_HTB",
	"Eligibility":      "#IDXFC_IDXML_NSLI_ELIGIBILITY_HTB",
}

// vtbMarkers maps destinations to an on-page marker element whose presence
// confirms the destination is actually active. Navigation is always
// validated by reading the page, never assumed from a prior click.
var vtbMarkers = map[string]string{
	"Payment Posting": batchHeaderSel,
}

// NavMenu drives the vertical toolbar used to switch top-level destinations.
type NavMenu struct {
	drv browser.Driver
}

func NewNavMenu(drv browser.Driver) *NavMenu {
	return &NavMenu{drv: drv}
}

// IsActive reports whether the given destination's marker is currently on
// the page.
func (n *NavMenu) IsActive(option string) bool {
	marker, ok := vtbMarkers[option]
	if !ok {
		return false
	}
	return n.drv.IsPresent(marker)
}

// Select opens the toolbar, clicks the destination and waits for its marker.
func (n *NavMenu) Select(option string) error {
	sel, ok := vtbOptions[option]
	if !ok {
		return fmt.Errorf("option %q not found in toolbar options", option)
	}

	if err := n.drv.Click(vtbButtonSel); err != nil {
		return fmt.Errorf("could not open toolbar: %w", err)
	}
	if err := n.drv.WaitVisible(sel, 10*time.Second); err != nil {
		return fmt.Errorf("toolbar option %q not available: %w", option, err)
	}
	if err := n.drv.Click(sel); err != nil {
		return err
	}

	if marker, ok := vtbMarkers[option]; ok {
		if err := n.drv.WaitVisible(marker, 10*time.Second); err != nil {
			return fmt.Errorf("destination %q did not load: %w", option, err)
		}
	}
	logger.Log.Infof("Toolbar destination %q active.", option)
	return nil
}
