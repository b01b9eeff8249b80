package idx

import (
	"fmt"

	"github.com/DaniellePashayan/post-rejections-idx/internal/domain/rejection"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

const bulkStatusFieldSel = "#sAf35r1"

// BulkScreen drives the bulk payment-posting sub-flow: one adjustment
// covering the whole invoice instead of per-procedure rows.
type BulkScreen struct {
	drv browser.Driver
}

func NewBulkScreen(drv browser.Driver) *BulkScreen {
	return &BulkScreen{drv: drv}
}

// Enter moves focus into the bulk posting grid.
func (b *BulkScreen) Enter() error {
	if err := b.drv.Click(bulkStatusFieldSel); err != nil {
		return fmt.Errorf("could not enter bulk posting screen: %w", err)
	}
	for i := 0; i < 3; i++ {
		if err := b.drv.Press(bulkStatusFieldSel, "Tab"); err != nil {
			return err
		}
	}
	return nil
}

// PostRejections enters each rejection/remark code pair into the fixed
// bulk fields, then closes and confirms twice: the first confirm files the
// grid, the second commits the change.
func (b *BulkScreen) PostRejections(rec *rejection.Rejection) (bool, error) {
	for i, code := range rec.RejCodes {
		if code == "" {
			continue
		}
		line := i + 1
		rejSel := fmt.Sprintf("%s%d", rejCodeFieldBase, line)
		if err := b.drv.SetText(rejSel, code); err != nil {
			return false, fmt.Errorf("could not enter rejection code %d: %w", line, err)
		}
		if err := b.drv.Press(rejSel, "Tab"); err != nil {
			return false, err
		}

		if remark := rec.Remarks[i]; remark != "" {
			remarkSel := fmt.Sprintf("%s%d", remarkFieldBase, line)
			if err := b.drv.SetText(remarkSel, remark); err != nil {
				return false, fmt.Errorf("could not enter remark %d: %w", line, err)
			}
			if err := b.drv.Press(remarkSel, "Tab"); err != nil {
				return false, err
			}
		}
	}

	if err := b.close(); err != nil {
		return false, err
	}
	if err := b.close(); err != nil {
		return false, err
	}
	logger.Log.Debug("Bulk posting filed and committed.")
	return true, nil
}

func (b *BulkScreen) close() error {
	if err := b.drv.Click(batchOKSel); err != nil {
		return fmt.Errorf("could not close bulk posting screen: %w", err)
	}
	return nil
}
