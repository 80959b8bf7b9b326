package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type retirejsParser struct{}

func (retirejsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "retirejs",
		DisplayName: "Retire.js",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Retire.js for detecting vulnerable JavaScript libraries",
	}
}

func (retirejsParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok && len(arr) > 0 {
		first := asMap(arr[0])
		if has(first, "file", "results") {
			return true
		}
		return has(first, "component") && has(first, "vulnerabilities")
	}
	if doc, ok := decodeObject(content); ok {
		_, isList := doc["data"].([]any)
		return isList
	}
	return false
}

func retirejsSeverity(raw string) schemas.Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "critical":
		return schemas.SeverityCritical
	case "high":
		return schemas.SeverityHigh
	case "medium":
		return schemas.SeverityMedium
	case "low":
		return schemas.SeverityLow
	case "none":
		return schemas.SeverityInfo
	}
	return schemas.SeverityMedium
}

func (retirejsParser) Parse(content, _ string) []schemas.ParsedFinding {
	var items []any
	if arr, ok := decodeArray(content); ok {
		items = arr
	} else if doc, ok := decodeObject(content); ok {
		items = asSlice(doc["data"])
	} else {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, i := range items {
		item := asMap(i)
		filePath := nonEmpty(str(item, "file"), "unknown")
		results := asSlice(item["results"])
		if results == nil {
			results = []any{item}
		}
		for _, r := range results {
			result := asMap(r)
			component := nonEmpty(firstStr(result, "component", "library"), "unknown")
			version := str(result, "version")
			asset := component
			if version != "" {
				asset = component + "@" + version
			}
			for _, v := range asSlice(result["vulnerabilities"]) {
				vuln := asMap(v)
				cve := ""
				if cves := stringList(asMap(vuln["identifiers"])["CVE"]); len(cves) > 0 {
					cve = cves[0]
				}
				desc := str(vuln, "summary")
				if info := stringList(vuln["info"]); len(info) > 0 {
					desc = info[0]
				}
				raw := map[string]any{"file": filePath, "component": component, "version": version}
				for k, val := range vuln {
					raw[k] = val
				}
				findings = append(findings, schemas.ParsedFinding{
					Title:       "Vulnerable " + component + "@" + version,
					Severity:    retirejsSeverity(str(vuln, "severity")),
					Tool:        "retirejs",
					Description: truncate(desc, 2000),
					Asset:       asset,
					CVEID:       cve,
					Tags:        []string{"sca", "javascript"},
					RawData:     raw,
				})
			}
		}
	}
	return findings
}
