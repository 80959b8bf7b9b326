package parsers

import (
	"encoding/xml"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type fortifyParser struct{}

func (fortifyParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "fortify",
		DisplayName: "Fortify",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"xml", "fpr", "json"},
		Description: "HP/Micro Focus Fortify Static Code Analyzer",
	}
}

func (fortifyParser) Detect(content, _ string) bool {
	return strings.Contains(content, "FVDL") || strings.Contains(content, "Fortify") ||
		strings.Contains(content, "ReportDefinition")
}

func (fortifyParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "{") {
		return fortifyJSON(content)
	}
	return fortifyFVDL(content)
}

func fortifyJSON(content string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range asSlice(data["vulnerabilities"]) {
		vuln := asMap(v)
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(firstStr(vuln, "category", "type"), "Fortify Finding"),
			Description: firstStr(vuln, "abstract", "explanation"),
			Severity:    schemas.NormalizeSeverity(nonEmpty(str(vuln, "severity"), "medium")),
			Tool:        "fortify",
			Asset:       nonEmpty(str(asMap(vuln["primaryLocation"]), "file"), "unknown"),
			CWEID:       cweNumber(vuln["cwe"]),
			RawData:     vuln,
		})
	}
	return findings
}

// fortifyFVDL walks the FVDL XML token stream, collecting Category, Abstract
// and SourceLocation per Vulnerability element wherever they nest. Namespace
// prefixes vary between Fortify versions, so matching goes by local name.
func fortifyFVDL(content string) []schemas.ParsedFinding {
	dec := xml.NewDecoder(strings.NewReader(content))

	var findings []schemas.ParsedFinding
	var inVuln bool
	var category, abstract, path, capture string

	flush := func() {
		if !inVuln {
			return
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(category, "Fortify Finding"),
			Description: abstract,
			Severity:    schemas.SeverityMedium,
			Tool:        "fortify",
			Asset:       nonEmpty(path, "unknown"),
			FilePath:    path,
			RawData:     map[string]any{"xml": true},
		})
		inVuln, category, abstract, path = false, "", "", ""
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Vulnerability":
				flush()
				inVuln = true
			case "Category", "Abstract":
				capture = t.Name.Local
			case "SourceLocation":
				for _, attr := range t.Attr {
					if attr.Name.Local == "path" && path == "" {
						path = attr.Value
					}
				}
			}
		case xml.CharData:
			if inVuln && capture != "" {
				text := strings.TrimSpace(string(t))
				if capture == "Category" && category == "" {
					category = text
				} else if capture == "Abstract" && abstract == "" {
					abstract = text
				}
			}
		case xml.EndElement:
			if t.Name.Local == capture {
				capture = ""
			}
			if t.Name.Local == "Vulnerability" {
				flush()
			}
		}
	}
	flush()
	return findings
}
