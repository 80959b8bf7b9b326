package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type kubesecParser struct{}

func (kubesecParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "kubesec",
		DisplayName: "Kubesec",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Kubernetes resource security analyzer",
	}
}

func (kubesecParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	return has(asMap(arr[0]), "scoring", "object")
}

func (kubesecParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, r := range arr {
		result := asMap(r)

		asset := "unknown"
		if obj, ok := result["object"].(map[string]any); ok {
			asset = nonEmpty(str(obj, "kind"), "Unknown") + "/" + nonEmpty(str(obj, "name"), "unknown")
		} else if s := toString(result["object"]); s != "" {
			asset = s
		}

		scoring := asMap(result["scoring"])
		for _, c := range asSlice(scoring["critical"]) {
			critical := asMap(c)
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(str(critical, "id"), "Critical Security Issue"),
				Severity:       schemas.SeverityCritical,
				Tool:           "kubesec",
				Description:    truncate(str(critical, "reason"), 2000),
				Asset:          asset,
				Recommendation: str(critical, "selector"),
				Tags:           []string{"kubernetes", "critical"},
				RawData:        critical,
			})
		}
		for _, a := range asSlice(scoring["advise"]) {
			adv := asMap(a)
			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(str(adv, "id"), "Security Advice"),
				Severity:       schemas.SeverityMedium,
				Tool:           "kubesec",
				Description:    truncate(str(adv, "reason"), 2000),
				Asset:          asset,
				Recommendation: str(adv, "selector"),
				Tags:           []string{"kubernetes", "advise"},
				RawData:        adv,
			})
		}
	}
	return findings
}
