package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type dockerBenchParser struct{}

func (dockerBenchParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "docker-bench",
		DisplayName: "Docker Bench for Security",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Docker CIS benchmark security scanner",
	}
}

func (dockerBenchParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok || !has(doc, "tests") {
		return false
	}
	for i, t := range asSlice(doc["tests"]) {
		if i >= 3 {
			break
		}
		if strings.Contains(strings.ToLower(str(asMap(t), "desc")), "docker") ||
			strings.Contains(strings.ToLower(str(asMap(t), "section")), "docker") {
			return true
		}
	}
	return false
}

func (dockerBenchParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, t := range asSlice(doc["tests"]) {
		test := asMap(t)
		section := str(test, "section")

		for _, r := range asSlice(test["results"]) {
			result := asMap(r)
			status := strings.ToUpper(str(result, "result"))
			if status == "PASS" || status == "INFO" {
				continue
			}
			severity := schemas.SeverityMedium
			if status == "NOTE" {
				severity = schemas.SeverityLow
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(str(result, "id"), section) + ": " + nonEmpty(str(result, "desc"), "Docker Benchmark Check"),
				Severity:       severity,
				Tool:           "docker-bench",
				Description:    str(result, "desc"),
				Asset:          nonEmpty(str(result, "details"), "docker-host"),
				Recommendation: str(result, "remediation"),
				Tags:           []string{"docker", "cis-benchmark", section},
				RawData:        result,
			})
		}
	}
	return findings
}
