package goldentest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Thunderforge/kestrel-development-kit/pkg/assembler"
	"github.com/Thunderforge/kestrel-development-kit/pkg/diag"
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

// Result is the outcome of running one case. Failures lists every
// expectation the run missed; an empty list means the case passed.
type Result struct {
	CaseID   string
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

func (r *Result) failf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run assembles the case's manifest against its table and checks every
// expectation. The returned error is non-nil only when the case itself is
// malformed; assembly mismatches land in Result.Failures.
func Run(c *Case) (*Result, error) {
	table, err := schema.ParseTable([]byte(c.Table))
	if err != nil {
		return nil, fmt.Errorf("case %s: bad table: %w", c.ID, err)
	}
	resources, err := resource.ParseManifest([]byte(c.Manifest))
	if err != nil {
		return nil, fmt.Errorf("case %s: bad manifest: %w", c.ID, err)
	}

	result := &Result{CaseID: c.ID}
	records := make(map[string][]byte)
	var diagnostics []diag.Diagnostic

	for _, res := range resources {
		collector := diag.NewCollector()
		a := assembler.New(res, assembler.WithReporter(collector))
		blob, err := a.Assemble(table.Fields)
		if err != nil {
			result.failf("%s #%d: fatal assembly error: %v", res.Type(), res.ID(), err)
			continue
		}
		records[recordKey(res.Type(), res.ID())] = append([]byte(nil), blob.Bytes()...)
		diagnostics = append(diagnostics, collector.Diagnostics()...)
	}

	for _, want := range c.Expect {
		checkRecord(result, records, want)
	}
	checkDiagnostics(result, diagnostics, c.Diagnostics)
	return result, nil
}

func checkRecord(result *Result, records map[string][]byte, want ExpectedRecord) {
	got, ok := records[recordKey(want.Type, want.ID)]
	if !ok {
		result.failf("%s #%d: record not assembled", want.Type, want.ID)
		return
	}
	wantBytes, err := parseHex(want.Hex)
	if err != nil {
		result.failf("%s #%d: bad expected hex: %v", want.Type, want.ID, err)
		return
	}
	if !bytes.Equal(got, wantBytes) {
		result.failf("%s #%d: record = % X, want % X", want.Type, want.ID, got, wantBytes)
	}
}

func checkDiagnostics(result *Result, got []diag.Diagnostic, want []ExpectedDiagnostic) {
	for _, w := range want {
		if !matchDiagnostic(got, w) {
			result.failf("missing %s diagnostic containing %q", w.Severity, w.Contains)
		}
	}
	if len(want) == 0 && len(got) > 0 {
		for _, d := range got {
			result.failf("unexpected diagnostic: %s", d)
		}
	}
}

func matchDiagnostic(diagnostics []diag.Diagnostic, want ExpectedDiagnostic) bool {
	for _, d := range diagnostics {
		if want.Severity != "" && !strings.EqualFold(d.Severity.String(), want.Severity) {
			continue
		}
		if want.Contains != "" && !strings.Contains(d.Message, want.Contains) {
			continue
		}
		return true
	}
	return false
}

func recordKey(typ string, id int64) string {
	return fmt.Sprintf("%s#%d", typ, id)
}

// parseHex decodes whitespace-separated hex octets, e.g. "00 03 ff ff".
func parseHex(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("octet %q: %w", f, err)
		}
		out = append(out, byte(n))
	}
	return out, nil
}
