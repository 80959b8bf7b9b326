package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type govulncheckParser struct{}

func (govulncheckParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "govulncheck",
		DisplayName: "Govulncheck",
		Category:    schemas.CategorySCA,
		FileTypes:   []string{"json"},
		Description: "Go vulnerability checker for Go modules",
	}
}

func (govulncheckParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	if !ok {
		return false
	}
	if has(doc, "vulns", "Vulns") {
		return true
	}
	return has(doc, "entries") && strings.Contains(content, "go.mod")
}

func govulncheckCVE(aliases []string) string {
	for _, alias := range aliases {
		if strings.HasPrefix(alias, "CVE-") {
			return alias
		}
	}
	return ""
}

func (govulncheckParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	vulns := asSlice(doc["vulns"])
	if vulns == nil {
		vulns = asSlice(doc["Vulns"])
	}
	if vulns == nil {
		vulns = asSlice(doc["entries"])
	}

	var findings []schemas.ParsedFinding
	for _, item := range vulns {
		vuln := asMap(item)
		osv := vuln
		if o := asMap(vuln["osv"]); len(o) > 0 {
			osv = o
		}
		sev := str(asMap(osv["database_specific"]), "severity")
		cve := govulncheckCVE(stringList(osv["aliases"]))
		base := schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(osv, "summary", "id"), "Govulncheck Finding"),
			Severity:    schemas.NormalizeSeverity(nonEmpty(sev, "medium")),
			Tool:        "govulncheck",
			Description: truncate(str(osv, "details"), 2000),
			CVEID:       cve,
			Tags:        []string{"sca", "go"},
		}

		modules := asSlice(vuln["modules"])
		if len(modules) == 0 {
			f := base
			f.Asset = nonEmpty(str(osv, "id"), "unknown")
			f.RawData = osv
			findings = append(findings, f)
			continue
		}
		for _, m := range modules {
			mod := asMap(m)
			f := base
			f.Asset = nonEmpty(str(mod, "path"), nonEmpty(str(osv, "id"), "unknown"))
			raw := map[string]any{"module": mod}
			for k, v := range osv {
				raw[k] = v
			}
			f.RawData = raw
			findings = append(findings, f)
		}
	}
	return findings
}
