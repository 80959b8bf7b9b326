package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type semgrepParser struct{}

func (semgrepParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "semgrep",
		DisplayName: "Semgrep",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Lightweight static analysis for many languages",
	}
}

func (semgrepParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	_, isList := data["results"].([]any)
	return isList
}

func (semgrepParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["results"]) {
		result := asMap(v)
		extra := asMap(result["extra"])
		metadata := asMap(extra["metadata"])

		cweID := 0
		if cwes := stringList(metadata["cwe"]); len(cwes) > 0 {
			// Semgrep formats CWE entries like "CWE-79: Improper Neutralization..."
			first := cwes[0]
			if i := strings.IndexAny(first, ": "); i > 0 {
				first = first[:i]
			}
			cweID = cweNumber(first)
		}

		path := str(result, "path")
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(result, "check_id"), "Unknown Check"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(extra, "severity"), "INFO")),
			Tool:           "semgrep",
			Description:    str(extra, "message"),
			Asset:          nonEmpty(path, "unknown"),
			FilePath:       path,
			LineNumber:     intval(asMap(result["start"]), "line"),
			CWEID:          cweID,
			Recommendation: str(metadata, "fix"),
			References:     stringList(metadata["references"]),
			Tags:           splitTags(metadata["category"]),
			RawData:        result,
		})
	}
	return findings
}
