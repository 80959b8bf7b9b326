package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type gosecParser struct{}

func (gosecParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "gosec",
		DisplayName: "Gosec",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Go security checker",
	}
}

func (gosecParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "Issues", "Golang errors")
}

func (gosecParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["Issues"]) {
		issue := asMap(v)

		f := schemas.ParsedFinding{
			Title:       fmt.Sprintf("%s: %s", nonEmpty(str(issue, "rule_id"), "G000"), nonEmpty(str(issue, "details"), "Security Issue")),
			Severity:    schemas.NormalizeSeverity(nonEmpty(str(issue, "severity"), "MEDIUM")),
			Tool:        "gosec",
			Description: str(issue, "details"),
			Asset:       nonEmpty(str(issue, "file"), "unknown"),
			FilePath:    str(issue, "file"),
			LineNumber:  intval(issue, "line"),
			CWEID:       intval(asMap(issue["cwe"]), "id"),
			RawData:     issue,
		}
		if ruleID := str(issue, "rule_id"); ruleID != "" {
			f.Tags = []string{ruleID}
		}
		findings = append(findings, f)
	}
	return findings
}
