package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type mobsfParser struct{}

func (mobsfParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "mobsf",
		DisplayName: "MobSF",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json"},
		Description: "Mobile Security Framework for Android/iOS security analysis",
	}
}

func (mobsfParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "appsec", "code_analysis", "binary_analysis") {
		return true
	}
	return has(doc, "file_name") && has(doc, "md5")
}

func mobsfSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "warning", "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "info", "good", "secure":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (mobsfParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	appName := firstStr(doc, "file_name", "app_name")
	if appName == "" {
		appName = "Mobile App"
	}

	var findings []schemas.ParsedFinding
	for _, section := range []string{"code_analysis", "binary_analysis", "appsec"} {
		sectionData, ok := doc[section].(map[string]any)
		if !ok {
			continue
		}
		for key, value := range sectionData {
			switch v := value.(type) {
			case map[string]any:
				desc := str(v, "description")
				if desc == "" && v["metadata"] != nil {
					desc = fmt.Sprintf("%v", v["metadata"])
				}
				sev := str(v, "severity")
				if sev == "" {
					sev = str(v, "level")
				}
				findings = append(findings, schemas.ParsedFinding{
					Title:       nonEmpty(str(v, "title"), key),
					Severity:    mobsfSeverity(sev),
					Tool:        "mobsf",
					Description: truncate(desc, 2000),
					Asset:       appName,
					CWEID:       cweNumber(v["cwe"]),
					Tags:        []string{"mobile"},
					RawData:     v,
				})
			case []any:
				for _, item := range v {
					entry, ok := item.(map[string]any)
					if !ok {
						continue
					}
					findings = append(findings, schemas.ParsedFinding{
						Title:       nonEmpty(str(entry, "title"), key),
						Severity:    mobsfSeverity(str(entry, "severity")),
						Tool:        "mobsf",
						Description: truncate(str(entry, "description"), 2000),
						Asset:       appName,
						Tags:        []string{"mobile"},
						RawData:     entry,
					})
				}
			}
		}
	}
	for _, item := range asSlice(doc["findings"]) {
		finding := asMap(item)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(str(finding, "title"), "MobSF Finding"),
			Severity:    mobsfSeverity(str(finding, "severity")),
			Tool:        "mobsf",
			Description: truncate(str(finding, "description"), 2000),
			Asset:       appName,
			Tags:        []string{"mobile"},
			RawData:     finding,
		})
	}
	return findings
}
