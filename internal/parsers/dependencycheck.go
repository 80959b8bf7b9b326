package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type dependencyCheckParser struct{}

func (dependencyCheckParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "dependency-check",
		DisplayName: "OWASP Dependency-Check",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json", "xml"},
		Description: "OWASP software composition analysis tool",
	}
}

func (dependencyCheckParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		doc, ok := decodeObject(content)
		return ok && has(doc, "dependencies") && has(doc, "scanInfo")
	}
	if strings.HasPrefix(trimmed, "<") {
		return strings.Contains(strings.ToLower(truncate(content, 500)), "dependency-check")
	}
	return false
}

func (p dependencyCheckParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseXML(content)
}

func (dependencyCheckParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, d := range asSlice(doc["dependencies"]) {
		dep := asMap(d)
		filePath := nonEmpty(firstStr(dep, "filePath", "fileName"), "unknown")
		fileName := str(dep, "fileName")

		for _, v := range asSlice(dep["vulnerabilities"]) {
			vuln := asMap(v)
			cveID := str(vuln, "name")

			cvss := 0.0
			if v3 := asMap(vuln["cvssv3"]); len(v3) > 0 {
				cvss, _ = num(v3, "baseScore")
			} else if v2 := asMap(vuln["cvssv2"]); len(v2) > 0 {
				cvss, _ = num(v2, "score")
			}
			tags := []string{"dependency"}
			if fileName != "" {
				tags = append(tags, fileName)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       cveID + ": " + nonEmpty(fileName, "Unknown Package"),
				Severity:    schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "MEDIUM")),
				Tool:        "dependency-check",
				Description: truncate(str(vuln, "description"), 2000),
				Asset:       filePath,
				FilePath:    filePath,
				CVEID:       cveID,
				CWEID:       cweNumber(vuln["cwes"]),
				CVSSScore:   cvss,
				References:  stringList(vuln["references"]),
				Tags:        tags,
				RawData:     vuln,
			})
		}
	}
	return findings
}

func (dependencyCheckParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, dep := range root.findAll("dependency") {
		filePath := dep.findText("filePath", "unknown")
		fileName := dep.findText("fileName", "unknown")

		for _, vuln := range dep.findAll("vulnerability") {
			cveID := vuln.findText("name", "")
			findings = append(findings, schemas.ParsedFinding{
				Title:       cveID + ": " + fileName,
				Severity:    schemas.NormalizeSeverity(vuln.findText("severity", "MEDIUM")),
				Tool:        "dependency-check",
				Description: truncate(vuln.findText("description", ""), 2000),
				Asset:       filePath,
				FilePath:    filePath,
				CVEID:       cveID,
				Tags:        []string{"dependency", fileName},
			})
		}
	}
	return findings
}
