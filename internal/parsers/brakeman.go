package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type brakemanParser struct{}

func (brakemanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "brakeman",
		DisplayName: "Brakeman",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Static analysis security scanner for Ruby on Rails",
	}
}

func (brakemanParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "warnings") && has(data, "scan_info")
}

func (brakemanParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["warnings"]) {
		warning := asMap(v)

		// Brakeman rates confidence, not severity.
		var severity schemas.Severity
		switch nonEmpty(str(warning, "confidence"), "Medium") {
		case "High":
			severity = schemas.SeverityHigh
		case "Medium":
			severity = schemas.SeverityMedium
		default:
			severity = schemas.SeverityLow
		}

		link := str(warning, "link")
		f := schemas.ParsedFinding{
			Title:          fmt.Sprintf("%s: %s", nonEmpty(str(warning, "warning_type"), "Unknown"), str(warning, "message")),
			Severity:       severity,
			Tool:           "brakeman",
			Description:    str(warning, "message"),
			Asset:          nonEmpty(str(warning, "file"), "unknown"),
			FilePath:       str(warning, "file"),
			LineNumber:     intval(warning, "line"),
			Recommendation: link,
			Tags:           []string{str(warning, "warning_type"), str(warning, "warning_code")},
			RawData:        warning,
		}
		if link != "" {
			f.References = []string{link}
		}
		findings = append(findings, f)
	}
	return findings
}
