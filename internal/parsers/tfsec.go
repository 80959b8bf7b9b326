package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type tfsecParser struct{}

func (tfsecParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "tfsec",
		DisplayName: "tfsec",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Terraform static analysis security scanner",
	}
}

func (tfsecParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok || !has(doc, "results") {
		return false
	}
	if strings.Contains(strings.ToLower(truncate(content, 100)), "tfsec") {
		return true
	}
	for i, r := range asSlice(doc["results"]) {
		if i >= 3 {
			break
		}
		if has(asMap(r), "rule_id") {
			return true
		}
	}
	return false
}

func (tfsecParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, r := range asSlice(doc["results"]) {
		result := asMap(r)
		location := asMap(result["location"])
		tags := []string{"terraform"}
		for _, t := range []string{str(result, "rule_provider"), str(result, "rule_id")} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(result, "rule_id"), "unknown") + ": " + nonEmpty(firstStr(result, "rule_description", "description"), "Security Issue"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(result, "severity"), "MEDIUM")),
			Tool:           "tfsec",
			Description:    truncate(str(result, "description"), 2000),
			Asset:          nonEmpty(str(location, "filename"), "unknown"),
			FilePath:       str(location, "filename"),
			LineNumber:     intval(location, "start_line"),
			Recommendation: str(result, "resolution"),
			References:     stringList(result["links"]),
			Tags:           tags,
			RawData:        result,
		})
	}
	return findings
}
