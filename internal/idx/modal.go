package idx

import (
	"strings"
	"time"

	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/browser"
	"github.com/DaniellePashayan/post-rejections-idx/internal/infra/logger"
)

// ModalKind classifies an unsolicited dialog raised by the remote
// application mid-workflow.
type ModalKind int

const (
	KindNone ModalKind = iota
	KindResetWarning
	KindLineItemOnly
	KindDeceased
	KindInfo
	KindUnrecognized
)

func (k ModalKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindResetWarning:
		return "reset-warning"
	case KindLineItemOnly:
		return "line-item-only-notice"
	case KindDeceased:
		return "deceased-patient-notice"
	case KindInfo:
		return "generic-info"
	default:
		return "unrecognized"
	}
}

// ModalSignal is the transient result of one modal check. It is consumed
// immediately by the caller and never stored.
type ModalSignal struct {
	Kind      ModalKind
	Text      string // full dialog text
	FirstLine string // first meaningful line, used for record comments
}

// MentionsGroup reports whether the dialog text refers to a group mismatch,
// which makes the record unprocessable in the current partition.
func (s ModalSignal) MentionsGroup() bool {
	return strings.Contains(strings.ToLower(s.Text), "group")
}

const (
	modalDialogSel = "div.fe_c_overlay__dialog.fe_c_modal__dialog.fe_c_modal__dialog--large.fe_c_modal__dialog--padded.fe_is-info"
	modalOKSel     = "#modalButtonOk"

	// DefaultModalTimeout keeps the no-modal common case cheap.
	DefaultModalTimeout = 2 * time.Second
)

// ModalInterceptor detects, classifies and dismisses unsolicited dialogs.
// One bounded presence check per call; never retries.
type ModalInterceptor struct {
	drv     browser.Driver
	timeout time.Duration
}

func NewModalInterceptor(drv browser.Driver) *ModalInterceptor {
	return &ModalInterceptor{drv: drv, timeout: DefaultModalTimeout}
}

// Check performs one presence check against the modal container signature.
// When a dialog is found its text is captured, classified, and the dialog is
// acknowledged before returning.
func (m *ModalInterceptor) Check() ModalSignal {
	if err := m.drv.WaitVisible(modalDialogSel, m.timeout); err != nil {
		logger.Log.Debug("No modal detected.")
		return ModalSignal{Kind: KindNone}
	}

	text, err := m.drv.ReadText(modalDialogSel)
	if err != nil {
		text = ""
	}
	sig := ClassifyModal(text)

	if err := m.drv.Click(modalOKSel); err != nil {
		logger.Log.Warnf("Failed to acknowledge modal (%s): %v", sig.Kind, err)
	} else {
		logger.Log.Infof("Modal detected and closed: kind=%s text=%q", sig.Kind, sig.FirstLine)
	}
	return sig
}

// ClassifyModal maps dialog text onto a ModalKind by substring match
// against the known phrases.
func ClassifyModal(text string) ModalSignal {
	sig := ModalSignal{Text: text, FirstLine: firstMeaningfulLine(text)}
	upper := strings.ToUpper(text)

	switch {
	case strings.Contains(upper, "RESET"):
		sig.Kind = KindResetWarning
	case strings.Contains(upper, "LINE ITEM PAYMENTS ONLY"):
		sig.Kind = KindLineItemOnly
	case strings.Contains(upper, "DECEASED"):
		sig.Kind = KindDeceased
	case strings.TrimSpace(text) != "":
		sig.Kind = KindInfo
	default:
		sig.Kind = KindUnrecognized
	}
	return sig
}

func firstMeaningfulLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
