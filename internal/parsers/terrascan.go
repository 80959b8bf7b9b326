package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type terrascanParser struct{}

func (terrascanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "terrascan",
		DisplayName: "Terrascan",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Accurics Terrascan IaC security scanner",
	}
}

func (terrascanParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok || !has(doc, "results") {
		return false
	}
	return strings.Contains(truncate(content, 500), "violated_policies")
}

func (terrascanParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, p := range asSlice(asMap(doc["results"])["violated_policies"]) {
		policy := asMap(p)
		var refs []string
		if ref := str(policy, "reference_id"); ref != "" {
			refs = []string{ref}
		}
		tags := []string{"iac"}
		for _, t := range []string{str(policy, "category"), str(policy, "resource_type")} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(policy, "rule_id"), "unknown") + ": " + nonEmpty(firstStr(policy, "rule_name", "description"), "Policy Violation"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(policy, "severity"), "MEDIUM")),
			Tool:           "terrascan",
			Description:    truncate(str(policy, "description"), 2000),
			Asset:          nonEmpty(firstStr(policy, "resource_name", "file"), "unknown"),
			FilePath:       str(policy, "file"),
			LineNumber:     intval(policy, "line"),
			Recommendation: str(policy, "remediation"),
			References:     refs,
			Tags:           tags,
			RawData:        policy,
		})
	}
	return findings
}
