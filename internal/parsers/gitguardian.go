package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type gitguardianParser struct{}

func (gitguardianParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "gitguardian",
		DisplayName: "GitGuardian",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "GitGuardian ggshield secrets detection",
	}
}

func (gitguardianParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "policy_breaks", "secrets_engine_version", "entities_with_incidents")
}

func (gitguardianParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	incidents := asSlice(data["policy_breaks"])
	if incidents == nil {
		incidents = asSlice(data["entities_with_incidents"])
	}
	for _, s := range asSlice(data["scans"]) {
		incidents = append(incidents, asSlice(asMap(s)["policy_breaks"])...)
	}

	// GitGuardian rates everything it reports as a leaked secret: high.
	var findings []schemas.ParsedFinding
	for _, v := range incidents {
		incident := asMap(v)
		title := fmt.Sprintf("Secret Detected: %s", nonEmpty(firstStr(incident, "break_type", "type"), "Secret"))
		description := fmt.Sprintf("GitGuardian detected %s in code", nonEmpty(str(incident, "policy"), "a secret"))

		matches := asSlice(incident["matches"])
		for _, mv := range matches {
			match := asMap(mv)
			findings = append(findings, schemas.ParsedFinding{
				Title:       title,
				Description: description,
				Severity:    schemas.SeverityHigh,
				Tool:        "gitguardian",
				Asset:       nonEmpty(firstStr(match, "filename"), nonEmpty(str(incident, "filename"), "unknown")),
				RawData:     map[string]any{"incident": incident, "match": match},
			})
		}
		if len(matches) == 0 {
			findings = append(findings, schemas.ParsedFinding{
				Title:       title,
				Description: description,
				Severity:    schemas.SeverityHigh,
				Tool:        "gitguardian",
				Asset:       nonEmpty(str(incident, "filename"), "unknown"),
				RawData:     incident,
			})
		}
	}
	return findings
}
