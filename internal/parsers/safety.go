package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type safetyParser struct{}

func (safetyParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "safety",
		DisplayName: "Safety",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Python dependency security checker",
	}
}

func (safetyParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok && len(arr) > 0 {
		// Legacy format: a list of [package, spec, version, advisory, id] rows.
		row := asSlice(arr[0])
		if len(row) >= 4 {
			_, isStr := row[0].(string)
			return isStr
		}
		return false
	}
	doc, ok := decodeObject(content)
	return ok && has(doc, "report", "vulnerabilities")
}

func (p safetyParser) Parse(content, _ string) []schemas.ParsedFinding {
	if arr, ok := decodeArray(content); ok {
		return p.parseList(arr)
	}
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	return p.parseReport(doc)
}

func (safetyParser) parseList(arr []any) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, item := range arr {
		row := asSlice(item)
		if len(row) < 4 {
			continue
		}
		pkgName := toString(row[0])
		affectedVersions := toString(row[1])
		installedVersion := toString(row[2])
		description := toString(row[3])
		vulnID := ""
		if len(row) > 4 {
			vulnID = toString(row[4])
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(vulnID, "Vulnerability") + ": " + pkgName,
			Severity:       schemas.SeverityHigh,
			Tool:           "safety",
			Description:    truncate(description, 2000),
			Asset:          pkgName + "==" + installedVersion,
			Recommendation: "Affected versions: " + affectedVersions,
			Tags:           []string{"python", pkgName},
			RawData:        map[string]any{"item": row},
		})
	}
	return findings
}

func (safetyParser) parseReport(doc map[string]any) []schemas.ParsedFinding {
	vulns := asSlice(doc["vulnerabilities"])
	if vulns == nil {
		vulns = asSlice(asMap(doc["report"])["vulnerabilities"])
	}
	var findings []schemas.ParsedFinding
	for _, v := range vulns {
		vuln := asMap(v)
		pkgName := nonEmpty(str(vuln, "package_name"), "unknown")
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(vuln, "vulnerability_id"), "Vulnerability in "+pkgName),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "high")),
			Tool:           "safety",
			Description:    truncate(str(vuln, "advisory"), 2000),
			Asset:          pkgName + "==" + str(vuln, "analyzed_version"),
			CVEID:          str(vuln, "CVE"),
			Recommendation: str(vuln, "recommendation"),
			Tags:           []string{"python", pkgName},
			RawData:        vuln,
		})
	}
	return findings
}
