package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type horusecParser struct{}

func (horusecParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "horusec",
		DisplayName: "Horusec",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Horusec open-source security analysis tool",
	}
}

func (horusecParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "analysisVulnerabilities") ||
		(has(data, "version") && has(data, "id") && has(data, "status"))
}

func (horusecParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["analysisVulnerabilities"]) {
		wrapper := asMap(v)
		vuln := asMap(wrapper["vulnerabilities"])
		if len(vuln) == 0 {
			vuln = wrapper
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "details", "securityTool"), "Horusec Finding"),
			Description: firstStr(vuln, "code", "details"),
			Severity:    horusecSeverity(str(vuln, "severity")),
			Tool:        "horusec",
			Asset:       nonEmpty(str(vuln, "file"), "unknown"),
			FilePath:    str(vuln, "file"),
			LineNumber:  intval(vuln, "line"),
			CWEID:       cweNumber(vuln["cwe"]),
			RawData:     vuln,
		})
	}
	return findings
}

func horusecSeverity(sev string) schemas.Severity {
	switch strings.ToLower(sev) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "low":
		return schemas.SeverityLow
	case "info", "unknown":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityMedium
	}
}
