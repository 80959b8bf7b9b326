package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type niktoParser struct{}

func (niktoParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "nikto",
		DisplayName: "Nikto",
		Category:    schemas.CategoryDAST,
		FileTypes:   []string{"json", "xml"},
		Description: "Web server vulnerability scanner",
	}
}

func (niktoParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		doc, ok := decodeObject(content)
		return ok && has(doc, "vulnerabilities", "host")
	}
	if strings.HasPrefix(trimmed, "<") {
		return strings.Contains(strings.ToLower(truncate(content, 500)), "niktoscan")
	}
	return false
}

func (p niktoParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return p.parseJSON(content)
	}
	return p.parseXML(content)
}

// Nikto reports plugin hits without severity; everything lands at medium.
func (niktoParser) parseJSON(content string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	host := nonEmpty(firstStr(doc, "host", "ip"), "unknown")
	port := nonEmpty(str(doc, "port"), "80")

	var findings []schemas.ParsedFinding
	for _, item := range asSlice(doc["vulnerabilities"]) {
		vuln := asMap(item)
		msg := str(vuln, "msg")
		var refs []string
		if r := str(vuln, "references"); r != "" {
			refs = []string{r}
		}
		tags := []string{"nikto"}
		if id := str(vuln, "id"); id != "" {
			tags = append(tags, id)
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       truncate(nonEmpty(msg, "Nikto Finding"), 100),
			Severity:    schemas.SeverityMedium,
			Tool:        "nikto",
			Description: msg,
			Asset:       host + ":" + port,
			References:  refs,
			Tags:        tags,
			RawData:     vuln,
		})
	}
	return findings
}

func (niktoParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, scan := range root.findAll("scandetails") {
		host := scan.attr("targetip")
		if host == "" {
			host = scan.attr("targethostname")
		}
		if host == "" {
			host = "unknown"
		}
		port := nonEmpty(scan.attr("targetport"), "80")

		for _, item := range scan.findAll("item") {
			desc := item.findText("description", "")
			tags := []string{"nikto"}
			if id := item.attr("id"); id != "" {
				tags = append(tags, id)
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       truncate(nonEmpty(desc, "Nikto Finding"), 100),
				Severity:    schemas.SeverityMedium,
				Tool:        "nikto",
				Description: desc,
				Asset:       host + ":" + port,
				Tags:        tags,
			})
		}
	}
	return findings
}
