// Package tracelens analyzes XES event logs for process-improvement
// findings: redundant activity repetitions, merge candidates, recurring
// sequences, trace-length outliers, and out-of-gas failures.
//
// Quick start:
//
//	a, err := tracelens.New(tracelens.WithPercentile(95))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, _ := a.AnalyzeFile("testdata/log.xes")
//	for _, cat := range report.Categories {
//	    fmt.Println(cat.Category, len(cat.Findings))
//	}
//
// The Analyzer is stateless across runs and safe for concurrent use.
package tracelens
