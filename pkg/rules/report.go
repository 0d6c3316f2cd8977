package rules

import (
	"encoding/json"
	"io"
)

// Status is the overall outcome of a validation run.
type Status string

const (
	StatusPass Status = "PASS"
	StatusWarn Status = "WARN"
	StatusFail Status = "FAIL"
)

func (s Status) rank() int {
	switch s {
	case StatusFail:
		return 2
	case StatusWarn:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is as severe as other.
func (s Status) AtLeast(other Status) bool {
	return s.rank() >= other.rank()
}

// Report partitions findings by severity, preserving the order they were
// added in.
type Report struct {
	HardFailures []Finding
	SoftWarnings []Finding
}

// NewReport builds a report from findings.
func NewReport(findings ...Finding) *Report {
	r := &Report{}
	for _, f := range findings {
		r.Add(f)
	}
	return r
}

// Add files a finding under its severity.
func (r *Report) Add(f Finding) {
	if f.Severity == HardFailure {
		r.HardFailures = append(r.HardFailures, f)
		return
	}
	r.SoftWarnings = append(r.SoftWarnings, f)
}

// Status is FAIL with any hard failure, else WARN with any soft warning,
// else PASS.
func (r *Report) Status() Status {
	switch {
	case len(r.HardFailures) > 0:
		return StatusFail
	case len(r.SoftWarnings) > 0:
		return StatusWarn
	default:
		return StatusPass
	}
}

// Findings returns hard failures followed by soft warnings.
func (r *Report) Findings() []Finding {
	out := make([]Finding, 0, len(r.HardFailures)+len(r.SoftWarnings))
	out = append(out, r.HardFailures...)
	return append(out, r.SoftWarnings...)
}

type findingDoc struct {
	Rule     string `json:"rule"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

type reportDoc struct {
	Status       Status       `json:"status"`
	HardFailures []findingDoc `json:"hard_failures"`
	SoftWarnings []findingDoc `json:"soft_warnings"`
}

func toDocs(findings []Finding) []findingDoc {
	docs := make([]findingDoc, len(findings))
	for i, f := range findings {
		docs[i] = findingDoc{Rule: f.Rule, Location: f.Location, Message: f.Message}
	}
	return docs
}

func fromDocs(docs []findingDoc, severity Severity) []Finding {
	if len(docs) == 0 {
		return nil
	}
	findings := make([]Finding, len(docs))
	for i, d := range docs {
		findings[i] = Finding{Rule: d.Rule, Location: d.Location, Message: d.Message, Severity: severity}
	}
	return findings
}

// MarshalJSON encodes the report as
// {status, hard_failures: [{rule, location, message}], soft_warnings: [...]}.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportDoc{
		Status:       r.Status(),
		HardFailures: toDocs(r.HardFailures),
		SoftWarnings: toDocs(r.SoftWarnings),
	})
}

// UnmarshalJSON decodes a report written by MarshalJSON. The stored status is
// ignored; it is recomputed from the findings.
func (r *Report) UnmarshalJSON(data []byte) error {
	var doc reportDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	r.HardFailures = fromDocs(doc.HardFailures, HardFailure)
	r.SoftWarnings = fromDocs(doc.SoftWarnings, SoftWarning)
	return nil
}

// WriteJSON writes the report indented by two spaces.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}
