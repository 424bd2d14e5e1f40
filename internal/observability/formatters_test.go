package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/autoapply/internal/negotiator"
	"github.com/jonathan/autoapply/internal/visitstore"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintReport(&negotiator.Report{
		URL:                 "https://jobs.example.com/p/1",
		Domain:              "jobs.example.com",
		EffectiveDomain:     "careers.example.com",
		Status:              visitstore.StatusPartial,
		FinalState:          negotiator.StateSubmitted,
		FieldsResolved:      5,
		LowConfidenceFields: 1,
		UnresolvedFields:    2,
		BarrierNote:         "2 fields left unresolved",
	})

	out := buf.String()
	assert.Contains(t, out, "APPLICATION RUN")
	assert.Contains(t, out, "partial")
	assert.Contains(t, out, "careers.example.com")
	assert.Contains(t, out, "5 resolved")
	assert.Contains(t, out, "2 fields left unresolved")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBatchSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBatchSummary([]*negotiator.Report{
		{URL: "https://a.com/1", Status: visitstore.StatusSuccess},
		{URL: "https://a.com/2", Status: visitstore.StatusFailed, BarrierNote: "no application form found"},
		{URL: "https://a.com/3", Status: visitstore.StatusSkipped},
	})

	out := buf.String()
	assert.Contains(t, out, "Processed: 3")
	assert.Contains(t, out, "success: 1")
	assert.Contains(t, out, "failed:  1")
	assert.Contains(t, out, "https://a.com/2")
	assert.Contains(t, out, "no application form found")
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStats(visitstore.Stats{Total: 10, Success: 6, Partial: 2, Failed: 1, Skipped: 1})

	out := buf.String()
	assert.Contains(t, out, "VISIT HISTORY")
	assert.Contains(t, out, "Total visits: 10")
	assert.Contains(t, out, "success: 6")
}
