package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type grypeParser struct{}

func (grypeParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "grype",
		DisplayName: "Grype",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Anchore container and filesystem vulnerability scanner",
	}
}

func (grypeParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "matches") && has(doc, "source")
}

func (grypeParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	assetName := "unknown"
	source := asMap(doc["source"])
	if target, ok := source["target"].(map[string]any); ok {
		assetName = nonEmpty(firstStr(target, "userInput", "imageID"), "unknown")
	} else if s := toString(source["target"]); s != "" {
		assetName = s
	}

	var findings []schemas.ParsedFinding
	for _, m := range asSlice(doc["matches"]) {
		match := asMap(m)
		vuln := asMap(match["vulnerability"])
		artifact := asMap(match["artifact"])

		cveID := str(vuln, "id")
		cvss := 0.0
		for _, c := range asSlice(vuln["cvss"]) {
			entry := asMap(c)
			if strings.HasPrefix(str(entry, "version"), "3") {
				if score, ok := num(asMap(entry["metrics"]), "baseScore"); ok {
					cvss = score
					break
				}
			}
		}

		pkgName := str(artifact, "name")
		version := str(artifact, "version")
		recommendation := ""
		if fixed := stringList(asMap(vuln["fix"])["versions"]); len(fixed) > 0 {
			recommendation = "Upgrade " + pkgName + " to: " + strings.Join(fixed, ", ")
		}

		var tags []string
		if t := str(artifact, "type"); t != "" {
			tags = append(tags, t)
		}
		if pkgName != "" {
			tags = append(tags, pkgName)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          cveID + ": " + pkgName + " " + version,
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "Unknown")),
			Tool:           "grype",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          assetName,
			CVEID:          cveID,
			CVSSScore:      cvss,
			Recommendation: recommendation,
			References:     stringList(vuln["urls"]),
			Tags:           tags,
			RawData:        match,
		})
	}
	return findings
}
