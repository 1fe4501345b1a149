package tracelens_test

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/crimson-sun/tracelens/pkg/tracelens"
)

func Example() {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<log xes.version="1.0">
  <trace>
    <event>
      <string key="concept:name" value="submit"/>
      <date key="time:timestamp" value="2025-03-01T12:00:00Z"/>
      <string key="org:resource" value="alice"/>
    </event>
    <event>
      <string key="concept:name" value="submit"/>
      <date key="time:timestamp" value="2025-03-01T12:00:05Z"/>
      <string key="org:resource" value="alice"/>
    </event>
  </trace>
</log>`

	a, err := tracelens.New(tracelens.WithTimeThreshold(time.Minute))
	if err != nil {
		log.Fatal(err)
	}

	report, err := a.AnalyzeReader(strings.NewReader(doc))
	if err != nil {
		log.Fatal(err)
	}

	for _, f := range report.FindingsFor("Redundancy") {
		fmt.Printf("[%s] %s\n", f.Severity, f.Description)
	}
	fmt.Printf("traces: %d, merges: %d\n",
		report.Summary.TracesAnalyzed, report.Summary.MergesIdentified)
	// Output:
	// [Low] 'submit' 1× redundant
	// traces: 1, merges: 1
}
