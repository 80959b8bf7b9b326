package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type scoutSuiteParser struct{}

func (scoutSuiteParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "scout-suite",
		DisplayName: "Scout Suite",
		Category:    schemas.CategoryCloud,
		FileTypes:   []string{"json"},
		Description: "Multi-cloud security auditing tool",
	}
}

func (scoutSuiteParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "services") && has(data, "provider_code")
}

func (scoutSuiteParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	provider := nonEmpty(str(data, "provider_code"), "cloud")

	var findings []schemas.ParsedFinding
	for serviceName, serviceVal := range asMap(data["services"]) {
		for findingKey, findingVal := range asMap(asMap(serviceVal)["findings"]) {
			fd := asMap(findingVal)
			if flagged, ok := num(fd, "flagged_items"); !ok || flagged == 0 {
				continue
			}
			severity := schemas.SeverityMedium
			switch str(fd, "level") {
			case "danger":
				severity = schemas.SeverityHigh
			case "info":
				severity = schemas.SeverityLow
			}
			for _, item := range asSlice(fd["items"]) {
				asset, isStr := item.(string)
				if !isStr {
					asset = fmt.Sprintf("%v", item)
				}
				findings = append(findings, schemas.ParsedFinding{
					Title:          nonEmpty(str(fd, "description"), findingKey),
					Severity:       severity,
					Tool:           "scout-suite",
					Description:    str(fd, "rationale"),
					Asset:          asset,
					Recommendation: str(fd, "remediation"),
					References:     stringList(fd["references"]),
					Tags:           []string{provider, serviceName, findingKey},
					RawData:        map[string]any{"finding": fd, "item": item},
				})
			}
		}
	}
	return findings
}
