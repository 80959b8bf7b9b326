package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type hadolintParser struct{}

func (hadolintParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "hadolint",
		DisplayName: "Hadolint",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Dockerfile linter",
	}
}

func (hadolintParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	return has(first, "code") && has(first, "message")
}

func hadolintSeverity(level string) schemas.Severity {
	switch level {
	case "error":
		return schemas.SeverityHigh
	case "warning":
		return schemas.SeverityMedium
	case "info":
		return schemas.SeverityLow
	case "style":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (hadolintParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, r := range arr {
		result := asMap(r)
		code := str(result, "code")
		file := nonEmpty(str(result, "file"), "Dockerfile")
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(code, "DL0000") + ": " + truncate(nonEmpty(str(result, "message"), "Dockerfile Issue"), 80),
			Severity:    hadolintSeverity(nonEmpty(str(result, "level"), "warning")),
			Tool:        "hadolint",
			Description: str(result, "message"),
			Asset:       file,
			FilePath:    file,
			LineNumber:  intval(result, "line"),
			Tags:        []string{"dockerfile", code},
			RawData:     result,
		})
	}
	return findings
}
