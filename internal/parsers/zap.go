package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type zapParser struct{}

func (zapParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "zap",
		DisplayName: "OWASP ZAP",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "OWASP Zed Attack Proxy web application scanner",
	}
}

func (zapParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		doc, ok := decodeObject(content)
		if !ok {
			return false
		}
		return has(doc, "@version", "site") || strings.Contains(content, "OWASPZAPReport")
	}
	if strings.HasPrefix(trimmed, "<") {
		root := parseXML(content)
		if root == nil {
			return false
		}
		return root.name == "OWASPZAPReport" || strings.Contains(strings.ToLower(root.name), "zap")
	}
	return false
}

// ZAP risk codes: 3 high, 2 medium, 1 low, 0 informational.
func zapSeverity(riskcode string) schemas.Severity {
	switch strings.TrimSpace(riskcode) {
	case "3":
		return schemas.SeverityHigh
	case "2":
		return schemas.SeverityMedium
	case "1":
		return schemas.SeverityLow
	}
	return schemas.SeverityInfo
}

func (p zapParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseXML(content)
}

// Sites, alerts, and instances may each arrive as a single object or a list.
func zapList(v any) []any {
	if m, ok := v.(map[string]any); ok {
		return []any{m}
	}
	return asSlice(v)
}

func (zapParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, s := range zapList(doc["site"]) {
		site := asMap(s)
		host := nonEmpty(str(site, "@name"), "unknown")

		for _, a := range zapList(site["alerts"]) {
			alert := asMap(a)
			var refs []string
			if r := str(alert, "reference"); r != "" {
				refs = []string{r}
			}
			tags := []string{"zap"}
			if id := str(alert, "pluginid"); id != "" {
				tags = append(tags, id)
			}
			for _, i := range zapList(alert["instances"]) {
				instance := asMap(i)
				findings = append(findings, schemas.ParsedFinding{
					Title:          nonEmpty(str(alert, "name"), "Unknown Alert"),
					Severity:       zapSeverity(str(alert, "riskcode")),
					Tool:           "zap",
					Description:    truncate(str(alert, "desc"), 2000),
					Asset:          nonEmpty(str(instance, "uri"), host),
					CWEID:          cweNumber(alert["cweid"]),
					Recommendation: str(alert, "solution"),
					References:     refs,
					Tags:           tags,
					RawData:        map[string]any{"alert": alert, "instance": instance},
				})
			}
		}
	}
	return findings
}

func (zapParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, site := range root.findAll("site") {
		host := nonEmpty(site.attr("name"), "unknown")

		for _, alert := range site.findAll("alertitem") {
			tags := []string{"zap"}
			if id := alert.findText("pluginid", ""); id != "" {
				tags = append(tags, id)
			}
			for _, instance := range alert.findAll("instance") {
				asset := nonEmpty(instance.findText("uri", ""), host)
				findings = append(findings, schemas.ParsedFinding{
					Title:          alert.findText("name", "Unknown Alert"),
					Severity:       zapSeverity(alert.findText("riskcode", "0")),
					Tool:           "zap",
					Description:    truncate(alert.findText("desc", ""), 2000),
					Asset:          asset,
					CWEID:          cweNumber(alert.findText("cweid", "")),
					Recommendation: alert.findText("solution", ""),
					Tags:           tags,
				})
			}
		}
	}
	return findings
}
