package idx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyModal(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind ModalKind
	}{
		{"reset warning", "This will RESET all entered data. Continue?", KindResetWarning},
		{"line item only", "This payment code allows LINE ITEM PAYMENTS ONLY.", KindLineItemOnly},
		{"deceased notice", "Patient is marked DECEASED.", KindDeceased},
		{"generic info", "Invoice has an outstanding balance.", KindInfo},
		{"empty text", "   \n  ", KindUnrecognized},
		{"case insensitive", "patient deceased on 01/02/2024", KindDeceased},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := ClassifyModal(tt.text)
			assert.Equal(t, tt.kind, sig.Kind)
		})
	}
}

func TestClassifyModalFirstLine(t *testing.T) {
	sig := ClassifyModal("\n\n  Invoice belongs to group 4.  \nPress OK to continue.")
	assert.Equal(t, "Invoice belongs to group 4.", sig.FirstLine)
	assert.True(t, sig.MentionsGroup())

	sig = ClassifyModal("Patient is marked DECEASED.")
	assert.False(t, sig.MentionsGroup())
}

func TestModalInterceptorNoModal(t *testing.T) {
	drv := newFakeDriver()
	m := NewModalInterceptor(drv)

	sig := m.Check()
	assert.Equal(t, KindNone, sig.Kind)
	assert.Empty(t, drv.clicks)
}

func TestModalInterceptorAcknowledges(t *testing.T) {
	drv := newFakeDriver()
	drv.visible[modalDialogSel] = true
	drv.texts[modalDialogSel] = "Patient is marked DECEASED."
	m := NewModalInterceptor(drv)

	sig := m.Check()
	assert.Equal(t, KindDeceased, sig.Kind)
	assert.True(t, drv.clicked(modalOKSel))
}
