package parsers

import (
	"strconv"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type qualysParser struct{}

func (qualysParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "qualys",
		DisplayName: "Qualys",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"xml", "json", "csv"},
		Description: "Qualys vulnerability management scanner",
	}
}

func (qualysParser) Detect(content, _ string) bool {
	return strings.Contains(strings.ToLower(content), "qualys") || strings.Contains(content, "QID")
}

// Qualys rates 1-5.
func qualysSeverity(raw string) schemas.Severity {
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return schemas.SeverityMedium
	}
	switch {
	case level >= 5:
		return schemas.SeverityCritical
	case level >= 4:
		return schemas.SeverityHigh
	case level >= 3:
		return schemas.SeverityMedium
	}
	return schemas.SeverityLow
}

func (p qualysParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	return p.parseJSON(content)
}

func (qualysParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	items := root.findAll("VULN")
	if len(items) == 0 {
		items = root.findAll("HOST_VULN")
	}
	if len(items) == 0 {
		items = root.findAll("vuln")
	}
	var findings []schemas.ParsedFinding
	for _, vuln := range items {
		qid := vuln.findText("QID", "")
		title := vuln.findText("TITLE", "")
		if title == "" {
			title = vuln.findText("title", "QID "+qid)
		}
		desc := vuln.findText("DIAGNOSIS", "")
		if desc == "" {
			desc = vuln.findText("diagnosis", "")
		}
		sev := vuln.findText("SEVERITY", "")
		if sev == "" {
			sev = vuln.findText("severity", "3")
		}
		asset := vuln.findText("IP", "")
		if asset == "" {
			asset = vuln.findText("HOST", "")
		}
		if asset == "" {
			asset = vuln.findText("host", "unknown")
		}
		cve := vuln.findText("CVE_ID", "")
		if cve == "" {
			cve = vuln.findText("cve", "")
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       title,
			Severity:    qualysSeverity(sev),
			Tool:        "qualys",
			Description: truncate(desc, 2000),
			Asset:       asset,
			CVEID:       cve,
			Tags:        []string{"network"},
			RawData:     map[string]any{"qid": qid},
		})
	}
	return findings
}

func (qualysParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	hosts := asSlice(doc["vulnerabilities"])
	if hosts == nil {
		out := asMap(doc["host_list_vm_detection_output"])
		hostList := asMap(asMap(out["response"])["HOST_LIST"])
		hosts = asSlice(hostList["HOST"])
		if hosts == nil {
			if m, ok := hostList["HOST"].(map[string]any); ok {
				hosts = []any{m}
			}
		}
	}
	var findings []schemas.ParsedFinding
	for _, h := range hosts {
		vuln := asMap(h)
		host := nonEmpty(firstStr(vuln, "IP", "DNS"), "unknown")
		detections := asSlice(asMap(vuln["DETECTION_LIST"])["DETECTION"])
		if detections == nil {
			if m, ok := asMap(vuln["DETECTION_LIST"])["DETECTION"].(map[string]any); ok {
				detections = []any{m}
			}
		}
		for _, d := range detections {
			det := asMap(d)
			findings = append(findings, schemas.ParsedFinding{
				Title:       nonEmpty(str(det, "TITLE"), "QID "+nonEmpty(toString(det["QID"]), "Unknown")),
				Severity:    qualysSeverity(toString(det["SEVERITY"])),
				Tool:        "qualys",
				Description: truncate(str(det, "RESULTS"), 2000),
				Asset:       host,
				Tags:        []string{"network"},
				RawData:     det,
			})
		}
	}
	return findings
}
