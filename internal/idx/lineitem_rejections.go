package idx

import (
	"fmt"
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const (
	carrierInputSel  = "#sAf40"
	rejCodeFieldBase = "#sAf1r"
	remarkFieldBase  = "#sAf5r"
)

// RejectionsSubScreen drives the rejections sub-screen that opens off the
// first populated line-item row: the carrier and the per-line rejection and
// remark codes are entered here.
type RejectionsSubScreen struct {
	drv browser.Driver
}

func NewRejectionsSubScreen(drv browser.Driver) *RejectionsSubScreen {
	return &RejectionsSubScreen{drv: drv}
}

// OnScreen reports whether the rejections tab is the active one.
func (r *RejectionsSubScreen) OnScreen() bool {
	texts, err := r.drv.Texts(activeTabSel)
	if err != nil {
		return false
	}
	for _, text := range texts {
		if strings.Contains(text, "Rejections") {
			return true
		}
	}
	return false
}

// EnterCarrier populates the carrier input and confirms it stuck.
func (r *RejectionsSubScreen) EnterCarrier(carrier string) error {
	logger.Log.Debugf("Entering carrier: %s", carrier)
	if err := r.drv.WaitVisible(carrierInputSel, 10*time.Second); err != nil {
		return fmt.Errorf("carrier input not available: %w", err)
	}
	if err := r.drv.Click(carrierInputSel); err != nil {
		return err
	}
	if err := r.drv.SetText(carrierInputSel, carrier); err != nil {
		return err
	}
	if !r.drv.WaitValue(carrierInputSel, carrier, 5*time.Second) {
		logger.Log.Warnf("Carrier field did not confirm value %q.", carrier)
	}
	return nil
}

// PostRejectionCodes enters every non-empty rejection code with its
// matching remark into the numbered field pairs. Fields that already hold a
// value are left alone; empty remarks are tabbed through.
func (r *RejectionsSubScreen) PostRejectionCodes(rec *rejection.Rejection) error {
	for i, code := range rec.RejCodes {
		if code == "" {
			continue
		}
		line := i + 1
		rejSel := fmt.Sprintf("%s%d", rejCodeFieldBase, line)
		remarkSel := fmt.Sprintf("%s%d", remarkFieldBase, line)

		current, err := r.drv.ReadValue(rejSel)
		if err != nil {
			return fmt.Errorf("rejection field %d not readable: %w", line, err)
		}
		if current == "" {
			logger.Log.Debugf("Entering rejection code %d: %s", line, code)
			if err := r.drv.Click(rejSel); err != nil {
				return err
			}
			if err := r.drv.SetText(rejSel, code); err != nil {
				return err
			}
			if err := r.drv.Press(rejSel, "Tab"); err != nil {
				return err
			}
		}

		remark := rec.Remarks[i]
		if err := r.drv.Click(remarkSel); err != nil {
			return err
		}
		if remark != "" {
			logger.Log.Debugf("Entering remark %d: %s", line, remark)
			if err := r.drv.SetText(remarkSel, remark); err != nil {
				return err
			}
		}
		if err := r.drv.Press(remarkSel, "Tab"); err != nil {
			return err
		}
	}
	return nil
}

// Close files the sub-screen and returns to the line-item grid.
func (r *RejectionsSubScreen) Close() error {
	return r.drv.Click(batchOKSel)
}
