package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type banditParser struct{}

func (banditParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "bandit",
		DisplayName: "Bandit",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Security linter for Python code",
	}
}

func (banditParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "results") && has(data, "generated_at")
}

func (banditParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["results"]) {
		result := asMap(v)

		cweID := 0
		if cwe := asMap(result["issue_cwe"]); len(cwe) > 0 {
			cweID = intval(cwe, "id")
		}

		testID := nonEmpty(str(result, "test_id"), "B000")
		f := schemas.ParsedFinding{
			Title:       fmt.Sprintf("%s: %s", testID, nonEmpty(str(result, "test_name"), "Unknown")),
			Severity:    schemas.NormalizeSeverity(nonEmpty(str(result, "issue_severity"), "LOW")),
			Tool:        "bandit",
			Description: str(result, "issue_text"),
			Asset:       nonEmpty(str(result, "filename"), "unknown"),
			FilePath:    str(result, "filename"),
			LineNumber:  intval(result, "line_number"),
			CWEID:       cweID,
			RawData:     result,
		}
		if str(result, "test_id") != "" {
			f.Tags = []string{str(result, "test_id")}
		}
		findings = append(findings, f)
	}
	return findings
}
