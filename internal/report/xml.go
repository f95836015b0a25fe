package report

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/venicegeo/ets-gpkg12/internal/engine"
)

// SuiteName names the suite element of XML reports.
const SuiteName = "ets-gpkg12"

// TestNG method statuses.
const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type testngResults struct {
	XMLName xml.Name    `xml:"testng-results"`
	Ignored int         `xml:"ignored,attr"`
	Total   int         `xml:"total,attr"`
	Passed  int         `xml:"passed,attr"`
	Failed  int         `xml:"failed,attr"`
	Skipped int         `xml:"skipped,attr"`
	Suite   testngSuite `xml:"suite"`
}

type testngSuite struct {
	Name  string       `xml:"name,attr"`
	IUT   string       `xml:"iut,attr"`
	Tests []testngTest `xml:"test"`
}

type testngTest struct {
	Name  string      `xml:"name,attr"`
	Class testngClass `xml:"class"`
}

type testngClass struct {
	Name    string         `xml:"name,attr"`
	Methods []testngMethod `xml:"test-method"`
}

type testngMethod struct {
	Status    string           `xml:"status,attr"`
	Signature string           `xml:"signature,attr"`
	Name      string           `xml:"name,attr"`
	Exception *testngException `xml:"exception,omitempty"`
}

type testngException struct {
	Class   string        `xml:"class,attr"`
	Message testngMessage `xml:"message"`
}

type testngMessage struct {
	Text string `xml:",cdata"`
}

// WriteXML writes a result as a TestNG results document.
//
// Verdicts are grouped by class in catalog order. Each skipped class is
// reported as one SKIP method named "<class>:enabled" and counted in the
// skipped and total attributes. The failed attribute always equals the
// result's Failed count.
func WriteXML(w io.Writer, r *engine.RunResult) error {
	doc := testngResults{
		Total:   r.Total + len(r.Skipped),
		Passed:  r.Passed,
		Failed:  r.Failed,
		Skipped: len(r.Skipped),
		Suite:   testngSuite{Name: SuiteName, IUT: r.Target},
	}

	index := map[string]int{}
	for _, v := range r.Verdicts {
		i, ok := index[v.Class]
		if !ok {
			i = len(doc.Suite.Tests)
			index[v.Class] = i
			doc.Suite.Tests = append(doc.Suite.Tests, testngTest{Name: v.Class, Class: testngClass{Name: v.Class}})
		}
		m := testngMethod{Status: statusPass, Signature: v.RequirementID, Name: v.RequirementID}
		if !v.Pass {
			m.Status = statusFail
			m.Exception = &testngException{Class: string(v.Fault), Message: testngMessage{Text: v.Diagnostic}}
		}
		doc.Suite.Tests[i].Class.Methods = append(doc.Suite.Tests[i].Class.Methods, m)
	}
	for _, class := range r.Skipped {
		id := class + ":enabled"
		doc.Suite.Tests = append(doc.Suite.Tests, testngTest{
			Name: class,
			Class: testngClass{
				Name:    class,
				Methods: []testngMethod{{Status: statusSkip, Signature: id, Name: id}},
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml report: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write xml report: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write xml report: %w", err)
	}
	return nil
}
