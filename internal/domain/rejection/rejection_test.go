package rejection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidInvoiceNumber(t *testing.T) {
	tests := []struct {
		name  string
		n     int64
		valid bool
	}{
		{"nine digit minimum", 100_000_000, true},
		{"nine digit maximum", 999_999_999, true},
		{"typical invoice", 123456789, true},
		{"eight digits", 99_999_999, false},
		{"ten digits", 1_000_000_000, false},
		{"zero", 0, false},
		{"negative", -123456789, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidInvoiceNumber(tt.n))
		})
	}
}

func TestCarrierAllowed(t *testing.T) {
	assert.True(t, CarrierAllowed("MEDICARE"))
	assert.True(t, CarrierAllowed("1199"))
	assert.True(t, CarrierAllowed("UNITED HEALTHCARE"))
	assert.False(t, CarrierAllowed("medicare"), "allow list is uppercase only")
	assert.False(t, CarrierAllowed("BCBS TEXAS"))
	assert.False(t, CarrierAllowed(""))
}

func TestSetCommentMarksRecordNotCompleted(t *testing.T) {
	rec := &Rejection{InvoiceNumber: 123456789, FileName: "rejections_08_29_2025.csv"}
	rec.Completed = true

	rec.SetComment("No valid paycode found")

	assert.False(t, rec.Completed)
	assert.True(t, rec.Comment.Valid)
	assert.Equal(t, "No valid paycode found", rec.Comment.String)
}

func TestMarkCompletedClearsComment(t *testing.T) {
	rec := &Rejection{InvoiceNumber: 123456789, FileName: "rejections_08_29_2025.csv"}
	rec.SetComment("Failed to enter paycode")

	rec.MarkCompleted()

	assert.True(t, rec.Completed)
	assert.False(t, rec.Comment.Valid, "a completed record carries no failure comment")
}

func TestPending(t *testing.T) {
	rec := &Rejection{InvoiceNumber: 123456789}
	assert.True(t, rec.Pending())

	rec.SetComment("skipped")
	assert.False(t, rec.Pending(), "commented records are settled")

	rec2 := &Rejection{InvoiceNumber: 987654321}
	rec2.MarkCompleted()
	assert.False(t, rec2.Pending())
}

func TestSetPaycodeAndBatchNumber(t *testing.T) {
	rec := &Rejection{InvoiceNumber: 123456789}

	rec.SetPaycode("42")
	assert.True(t, rec.Paycode.Valid)
	assert.Equal(t, "42", rec.Paycode.String)

	rec.SetBatchNumber("10583")
	assert.True(t, rec.BatchNumber.Valid)
	assert.Equal(t, "10583", rec.BatchNumber.String)
}
