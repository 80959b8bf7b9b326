package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type clairParser struct{}

func (clairParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "clair",
		DisplayName: "Clair",
		Category:    schemas.CategoryContainer,
		FileTypes:   []string{"json"},
		Description: "CoreOS container vulnerability scanner",
	}
}

func (clairParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "vulnerabilities") && has(doc, "image", "manifest_hash")
}

func (clairParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	image := nonEmpty(firstStr(doc, "image", "manifest_hash"), "unknown")

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(v)
		cveID := str(vuln, "name")
		if cveID == "" {
			cveID = str(asMap(vuln["vulnerability"]), "name")
		}
		var refs []string
		if link := str(vuln, "link"); link != "" {
			refs = []string{link}
		}
		tags := []string{"container"}
		if fn := str(vuln, "featurename"); fn != "" {
			tags = append(tags, fn)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          cveID + ": " + nonEmpty(firstStr(vuln, "featurename", "package"), "unknown"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "Unknown")),
			Tool:           "clair",
			Description:    truncate(str(vuln, "description"), 2000),
			Asset:          image,
			CVEID:          cveID,
			Recommendation: "Fixed in: " + nonEmpty(str(vuln, "fixedby"), "No fix available"),
			References:     refs,
			Tags:           tags,
			RawData:        vuln,
		})
	}
	return findings
}
