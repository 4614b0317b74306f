package junit

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/radiofrance/dagspec/pkg/dag"
)

type Testsuite struct {
	XMLName   xml.Name   `json:"-"                   xml:"testsuite"`
	Name      string     `json:"name,omitempty"      xml:"name,attr"`
	Errors    string     `json:"errors,omitempty"    xml:"errors,attr"`
	Tests     string     `json:"tests,omitempty"     xml:"tests,attr"`
	Failures  string     `json:"failures,omitempty"  xml:"failures,attr"`
	Skipped   string     `json:"skipped,omitempty"   xml:"skipped,attr"`
	Time      string     `json:"time,omitempty"      xml:"time,attr"`
	Timestamp string     `json:"timestamp,omitempty" xml:"timestamp,attr,omitempty"`
	TestCases []TestCase `json:"testcases,omitempty" xml:"testcase"`
}

type TestCase struct {
	XMLName   xml.Name `json:"-"                    xml:"testcase"`
	ClassName string   `json:"class_name,omitempty" xml:"classname,attr"`
	File      string   `json:"file,omitempty"       xml:"file,attr,omitempty"`
	Name      string   `json:"name,omitempty"       xml:"name,attr"`
	Time      string   `json:"time,omitempty"       xml:"time,attr"`
	SystemOut string   `json:"system_out,omitempty" xml:"system-out,omitempty"`
	Failure   string   `json:"failure,omitempty"    xml:"failure,omitempty"`
	Skipped   *Skipped `json:"skipped,omitempty"    xml:"skipped,omitempty"`
}

type Skipped struct {
	Message string `json:"message,omitempty" xml:"message,attr,omitempty"`
}

// ParseRawLogs cast a raw XML JunitReport (as byte) into a Testsuite structure.
func ParseRawLogs(testsuiteData []byte) (Testsuite, error) {
	testSuite := Testsuite{}
	err := xml.Unmarshal(testsuiteData, &testSuite)
	if err != nil {
		return testSuite, err
	}

	return testSuite, nil
}

// FromChecks converts the results of the verification passes of a DAG into a test suite,
// one test case per pass.
func FromChecks(dagName, file string, results []dag.CheckResult) Testsuite {
	suite := Testsuite{
		Name:   dagName,
		Errors: "0",
		Tests:  strconv.Itoa(len(results)),
		Time:   "0.000",
	}

	var failures, skipped int
	for _, result := range results {
		testCase := TestCase{
			ClassName: "dagspec.verify",
			File:      file,
			Name:      result.Name,
			Time:      "0.000",
		}

		switch result.Status {
		case dag.CheckFailed:
			failures++
			testCase.Failure = result.Err.Error()
		case dag.CheckSkipped:
			skipped++
			testCase.Skipped = &Skipped{Message: "a previous check failed"}
		case dag.CheckPassed:
		}

		suite.TestCases = append(suite.TestCases, testCase)
	}

	suite.Failures = strconv.Itoa(failures)
	suite.Skipped = strconv.Itoa(skipped)

	return suite
}

// Write writes the test suite as an indented XML document.
func Write(w io.Writer, suite Testsuite) error {
	out, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return fmt.Errorf("can't marshal junit report: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header+string(out)+"\n"); err != nil {
		return fmt.Errorf("can't write junit report: %w", err)
	}

	return nil
}
