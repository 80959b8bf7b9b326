package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type sonarqubeParser struct{}

func (sonarqubeParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "sonarqube",
		DisplayName: "SonarQube",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Continuous code quality and security analysis",
	}
}

func (sonarqubeParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "issues", "hotspots")
}

func (sonarqubeParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["issues"]) {
		issue := asMap(v)

		component := str(issue, "component")
		filePath := component
		if i := strings.LastIndex(component, ":"); i >= 0 {
			filePath = component[i+1:]
		}

		line := intval(issue, "line")
		if line == 0 {
			line = intval(asMap(issue["textRange"]), "startLine")
		}

		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(issue, "rule"), "Unknown Rule"),
			Severity:    sonarqubeSeverity(nonEmpty(str(issue, "severity"), "MINOR")),
			Tool:        "sonarqube",
			Description: str(issue, "message"),
			Asset:       nonEmpty(filePath, "unknown"),
			FilePath:    filePath,
			LineNumber:  line,
			Tags:        []string{str(issue, "type"), str(issue, "rule")},
			RawData:     issue,
		})
	}

	for _, v := range asSlice(data["hotspots"]) {
		hotspot := asMap(v)

		component := str(hotspot, "component")
		if i := strings.LastIndex(component, ":"); i >= 0 {
			component = component[i+1:]
		}

		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(hotspot, "securityCategory"), "Security Hotspot"),
			Severity:    schemas.SeverityMedium,
			Tool:        "sonarqube",
			Description: str(hotspot, "message"),
			Asset:       nonEmpty(component, "unknown"),
			FilePath:    component,
			LineNumber:  intval(hotspot, "line"),
			Tags:        []string{"hotspot", str(hotspot, "vulnerabilityProbability")},
			RawData:     hotspot,
		})
	}
	return findings
}

// SonarQube's scale runs BLOCKER..INFO and shifts one step down from ours.
func sonarqubeSeverity(sev string) schemas.Severity {
	switch strings.ToUpper(sev) {
	case "BLOCKER":
		return schemas.SeverityCritical
	case "CRITICAL":
		return schemas.SeverityHigh
	case "MAJOR":
		return schemas.SeverityMedium
	case "INFO":
		return schemas.SeverityInfo
	default:
		return schemas.SeverityLow
	}
}
