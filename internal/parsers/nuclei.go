package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type nucleiParser struct{}

func (nucleiParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "nuclei",
		DisplayName: "Nuclei",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "jsonl"},
		Description: "ProjectDiscovery fast vulnerability scanner",
	}
}

func (nucleiParser) Detect(content, _ string) bool {
	for i, line := range lines(content) {
		if i >= 5 {
			break
		}
		if line == "" {
			continue
		}
		doc, ok := decodeObject(line)
		if !ok {
			return false
		}
		if has(doc, "template-id", "templateID", "template") {
			return true
		}
	}
	return false
}

func (nucleiParser) Parse(content, _ string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, line := range lines(content) {
		if line == "" {
			continue
		}
		result, ok := decodeObject(line)
		if !ok {
			continue
		}
		templateID := nonEmpty(firstStr(result, "template-id", "templateID", "template"), "unknown")
		info := asMap(result["info"])
		classification := asMap(info["classification"])

		sev := str(info, "severity")
		if sev == "" {
			sev = str(result, "severity")
		}

		cveID := ""
		if cves := stringList(classification["cve-id"]); len(cves) > 0 {
			cveID = cves[0]
		} else if cve := str(info, "cve"); cve != "" {
			cveID = cve
		}

		f := schemas.ParsedFinding{
			Title:          nonEmpty(str(info, "name"), templateID),
			Severity:       schemas.NormalizeSeverity(nonEmpty(sev, "info")),
			Tool:           "nuclei",
			Description:    truncate(str(info, "description"), 2000),
			Asset:          nonEmpty(firstStr(result, "host", "matched-at", "url"), "unknown"),
			CVEID:          cveID,
			CWEID:          cweNumber(classification["cwe-id"]),
			Recommendation: str(info, "remediation"),
			References:     stringList(info["reference"]),
			Tags:           splitTags(info["tags"]),
			RawData:        result,
		}
		if cvss, ok := num(classification, "cvss-score"); ok {
			f.CVSSScore = cvss
		}
		findings = append(findings, f)
	}
	return findings
}
