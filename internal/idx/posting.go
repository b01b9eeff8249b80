package idx

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	paycodeFieldSel   = "#sAf21r1"
	paycodeLookupBtn  = "#sAf21r1-button"
	lineItemCheckbox  = "#sAf32r1"
	tabLabelSel       = "button.fe_c_tabs__label"
	lineItemTabSel    = `button.fe_c_tabs__label:has-text("Line Item Payment Posting")`
	postReceiptsTitle = "Post Receipts"
)

// PostingScreen drives the main post-receipts (PIC) screen: paycode entry
// and the line-item posting toggle.
type PostingScreen struct {
	drv browser.Driver
}

func NewPostingScreen(drv browser.Driver) *PostingScreen {
	return &PostingScreen{drv: drv}
}

// InScreen verifies the post-receipts screen is showing by reading its
// header, never by trusting prior navigation.
func (p *PostingScreen) InScreen() bool {
	if err := p.drv.WaitVisible(formHeaderSel, 5*time.Second); err != nil {
		return false
	}
	header, err := p.drv.ReadText(formHeaderSel)
	if err != nil {
		return false
	}
	if !strings.Contains(header, postReceiptsTitle) {
		return false
	}
	logger.Log.Debugf("Post receipts header: %s", header)
	return true
}

// CurrentGroup parses the active group number from the screen header.
func (p *PostingScreen) CurrentGroup() (int, error) {
	if err := p.drv.WaitVisible(formHeaderSel, 10*time.Second); err != nil {
		return 0, fmt.Errorf("posting screen header not available: %w", err)
	}
	header, err := p.drv.ReadText(formHeaderSel)
	if err != nil {
		return 0, err
	}
	return parseGroupHeader(header)
}

// OpenPaycodeLookup clicks the magnify control next to the paycode field.
func (p *PostingScreen) OpenPaycodeLookup() error {
	return p.drv.Click(paycodeLookupBtn)
}

// EnterPaycode types the paycode into the posting screen and reports
// whether the remote side accepted it.
func (p *PostingScreen) EnterPaycode(paycode string) bool {
	if err := p.drv.WaitVisible(paycodeFieldSel, 10*time.Second); err != nil {
		logger.Log.Warnf("Paycode field not available: %v", err)
		return false
	}
	if err := p.drv.Click(paycodeFieldSel); err != nil {
		return false
	}
	if err := p.drv.SetText(paycodeFieldSel, paycode); err != nil {
		return false
	}
	if err := p.drv.Press(paycodeFieldSel, "Tab"); err != nil {
		return false
	}
	return p.drv.WaitValue(paycodeFieldSel, paycode, 5*time.Second)
}

// SetLineItemCheckbox toggles the line-item-post checkbox to match the
// desired flag, then opens the line-item tab when the flag is set.
func (p *PostingScreen) SetLineItemCheckbox(lineItemPost bool) error {
	if err := p.drv.WaitVisible(lineItemCheckbox, 10*time.Second); err != nil {
		return fmt.Errorf("line item checkbox not available: %w", err)
	}
	checked, err := p.drv.IsChecked(lineItemCheckbox)
	if err != nil {
		return err
	}
	logger.Log.Debugf("Line item post checkbox selected: %v", checked)

	if checked != lineItemPost {
		if err := p.drv.Press(lineItemCheckbox, "Space"); err != nil {
			return fmt.Errorf("could not toggle line item checkbox: %w", err)
		}
	}
	if lineItemPost {
		return p.openLineItemTab()
	}
	return nil
}

func (p *PostingScreen) openLineItemTab() error {
	if err := p.drv.Click(lineItemTabSel); err != nil {
		return fmt.Errorf("could not open line item posting tab: %w", err)
	}
	return nil
}
