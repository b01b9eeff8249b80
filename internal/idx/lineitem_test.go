package idx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowCount(t *testing.T) {
	tests := []struct {
		name       string
		firstIndex int
		counter    int
		want       int
	}{
		{"single row from the top", 1, 1, 1},
		{"offset start with unit counter", 5, 1, 6},
		{"offset start gets the correction", 7, 3, 6},
		{"offset single row", 3, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RowCount(tt.firstIndex, tt.counter))
		})
	}
}

func TestAmountIsZero(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0.00", true},
		{"$0.00", true},
		{"0", true},
		{"", true},
		{"   ", true},
		{"-0.00", true},
		{"1,204.50", false},
		{"$1,204.50", false},
		{"-35.00", false},
		{"0.01", false},
		{"garbage", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountIsZero(tt.value))
		})
	}
}

func TestFinalizePostingCancelsOnNonZeroAmount(t *testing.T) {
	drv := newFakeDriver()
	drv.values[paymentAmountSel] = "$15.00"
	screen := NewLineItemScreen(drv)

	posted, err := screen.FinalizePosting()
	require.NoError(t, err)
	assert.False(t, posted)
	assert.True(t, drv.clicked(cancelButtonSel))
	assert.False(t, drv.clicked(batchOKSel), "confirm must never fire with cash on the batch")
}

func TestFinalizePostingConfirmsTwiceOnZeroAmount(t *testing.T) {
	drv := newFakeDriver()
	drv.values[paymentAmountSel] = "0.00"
	drv.visible[paycodeFieldSel] = true
	screen := NewLineItemScreen(drv)

	posted, err := screen.FinalizePosting()
	require.NoError(t, err)
	assert.True(t, posted)

	confirms := 0
	for _, c := range drv.clicks {
		if c == batchOKSel {
			confirms++
		}
	}
	assert.Equal(t, 2, confirms, "first confirm files the grid, the second commits")
}
