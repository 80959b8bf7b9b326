package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type kubeBenchParser struct{}

func (kubeBenchParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "kube-bench",
		DisplayName: "kube-bench",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "CIS Kubernetes Benchmark checks",
	}
}

func (kubeBenchParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "Controls", "Totals") {
		return true
	}
	return strings.Contains(content, "tests") && strings.Contains(content, "results")
}

// Scored FAILs are high; unscored FAILs medium; WARNs low.
func kubeBenchSeverity(status string, scored bool) schemas.Severity {
	if status == "FAIL" {
		if scored {
			return schemas.SeverityHigh
		}
		return schemas.SeverityMedium
	}
	return schemas.SeverityLow
}

func (kubeBenchParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, c := range asSlice(doc["Controls"]) {
		control := asMap(c)
		asset := nonEmpty(firstStr(control, "text", "id"), "kubernetes")

		for _, t := range asSlice(control["tests"]) {
			for _, r := range asSlice(asMap(t)["results"]) {
				result := asMap(r)
				status := str(result, "status")
				if status != "FAIL" && status != "WARN" {
					continue
				}
				scored := true
				if b, ok := result["scored"].(bool); ok {
					scored = b
				}
				findings = append(findings, schemas.ParsedFinding{
					Title:       "[" + str(result, "test_number") + "] " + nonEmpty(str(result, "test_desc"), "kube-bench Finding"),
					Severity:    kubeBenchSeverity(status, scored),
					Tool:        "kube-bench",
					Description: truncate(firstStr(result, "remediation", "reason"), 2000),
					Asset:       asset,
					Tags:        []string{"kubernetes", "cis"},
					RawData:     result,
				})
			}
		}
	}
	return findings
}
