package trx

import (
	"strings"
	"testing"

	"github.com/gleladze/testament/internal/domain"
)

func mustParse(t *testing.T, xmlDoc string) []domain.RunResult {
	t.Helper()
	results, err := Parse(strings.NewReader(xmlDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return results
}

func TestParseEmptyContent(t *testing.T) {
	results := mustParse(t, "")
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestParseNoTestResults(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><TestSettings /></TestRun>`)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestParseSinglePassedTest(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult testName="MyNamespace.MyClass.TestMethod1" outcome="Passed" duration="00:00:01.1234567" />
		</Results></TestRun>`)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.TestName != "MyNamespace.MyClass.TestMethod1" || r.Outcome != domain.OutcomePassed || r.DurationMS != 1123 {
		t.Fatalf("unexpected result: %+v", r)
	}
}

func TestParseSkippedOutcomeIsAnyUnknownValue(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult testName="SkippedTest" outcome="NotExecuted" duration="00:00:00.0000000" />
		</Results></TestRun>`)
	if results[0].Outcome != domain.OutcomeSkipped {
		t.Fatalf("expected skipped, got %v", results[0].Outcome)
	}
}

func TestParseMultipleTestsPreservesOrder(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult testName="Test1" outcome="Passed" duration="00:00:00.1000000" />
			<UnitTestResult testName="Test2" outcome="Failed" duration="00:00:00.2000000" />
			<UnitTestResult testName="Test3" outcome="Passed" duration="00:00:00.3000000" />
			<UnitTestResult testName="Test4" outcome="NotExecuted" duration="00:00:00.0000000" />
		</Results></TestRun>`)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if results[1].TestName != "Test2" || results[1].Outcome != domain.OutcomeFailed || results[1].DurationMS != 200 {
		t.Fatalf("unexpected result[1]: %+v", results[1])
	}
}

func TestParseMissingTestNameIsDropped(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult outcome="Passed" duration="00:00:00.1000000" />
		</Results></TestRun>`)
	if len(results) != 0 {
		t.Fatalf("expected the entry with no testName to be dropped, got %v", results)
	}
}

func TestParseMissingDurationDefaultsToZero(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult testName="Test1" outcome="Passed" />
		</Results></TestRun>`)
	if results[0].DurationMS != 0 {
		t.Fatalf("expected duration 0, got %d", results[0].DurationMS)
	}
}

func TestParseErrorInfoCombinesMessageAndStackTrace(t *testing.T) {
	results := mustParse(t, `<?xml version="1.0" encoding="UTF-8"?>
		<TestRun><Results>
			<UnitTestResult testName="Test1" outcome="Failed" duration="00:00:01.0000000">
				<Output>
					<ErrorInfo>
						<Message>Test failed</Message>
						<StackTrace>at Foo.Bar()</StackTrace>
					</ErrorInfo>
				</Output>
			</UnitTestResult>
		</Results></TestRun>`)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if !strings.Contains(r.ErrorMessage, "Test failed") || !strings.Contains(r.ErrorMessage, "at Foo.Bar()") {
		t.Fatalf("expected combined error message, got %q", r.ErrorMessage)
	}
}

func TestParseMalformedXMLReturnsError(t *testing.T) {
	_, err := Parse(strings.NewReader("<TestRun><Results><UnitTestResult"))
	if err == nil {
		t.Fatal("expected an error for malformed xml")
	}
}

func TestParseDurationVariants(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"00:00:00.0000000", 0},
		{"00:00:01.1230000", 1123},
		{"01:30:45.1230000", 5445123},
		{"00:00:01.1", 1100},
		{"00:00:05", 5000},
		{"", 0},
		{"invalid", 0},
		{"00:00", 0},
		{"aa:00:00.0", 0},
	}
	for _, tc := range cases {
		if got := parseDuration(tc.in); got != tc.want {
			t.Errorf("parseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
