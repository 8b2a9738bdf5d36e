package payslip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPDF(t *testing.T) {
	pdf, err := buildPDF([]string{"PAYSLIP PSL-202603-000001", "Net Salary: KES 39735.65"})
	assert.NoError(t, err)

	body := string(pdf)
	assert.True(t, strings.HasPrefix(body, "%PDF-1.4"))
	assert.True(t, strings.HasSuffix(body, "%%EOF"))
	assert.Contains(t, body, "(PAYSLIP PSL-202603-000001) Tj")
	assert.Contains(t, body, "T* (Net Salary: KES 39735.65) Tj")
	assert.Contains(t, body, "/BaseFont /Helvetica")
}

func TestBuildPDF_EmptyInputStillRenders(t *testing.T) {
	pdf, err := buildPDF(nil)
	assert.NoError(t, err)
	assert.Contains(t, string(pdf), "(Payslip) Tj")
}

func TestPDFEscape(t *testing.T) {
	assert.Equal(t, `NSSF \(tier_1+tier_2\)`, pdfEscape("NSSF (tier_1+tier_2)"))
	assert.Equal(t, `a\\b`, pdfEscape(`a\b`))
}
