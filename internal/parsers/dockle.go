package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type dockleParser struct{}

func (dockleParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "dockle",
		DisplayName: "Dockle",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "Container image linter for security",
	}
}

func (dockleParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "details") && has(doc, "summary")
}

func dockleSeverity(level string) schemas.Severity {
	switch level {
	case "FATAL":
		return schemas.SeverityCritical
	case "WARN":
		return schemas.SeverityMedium
	case "INFO":
		return schemas.SeverityLow
	case "SKIP", "PASS":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (dockleParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	image := nonEmpty(str(asMap(doc["summary"]), "image"), "unknown")

	var findings []schemas.ParsedFinding
	for _, d := range asSlice(doc["details"]) {
		detail := asMap(d)
		level := nonEmpty(str(detail, "level"), "WARN")
		if level == "PASS" || level == "SKIP" {
			continue
		}
		code := str(detail, "code")
		for _, alert := range stringList(detail["alerts"]) {
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(code, "CIS-DI-0000") + ": " + nonEmpty(str(detail, "title"), "Container Security Issue"),
				Severity:    dockleSeverity(level),
				Tool:        "dockle",
				Description: alert,
				Asset:       image,
				Tags:        []string{"container", "dockle", code},
				RawData:     map[string]any{"detail": detail, "alert": alert},
			})
		}
	}
	return findings
}
