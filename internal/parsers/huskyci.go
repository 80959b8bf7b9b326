package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type huskyCIParser struct{}

func (huskyCIParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "huskyci",
		DisplayName: "HuskyCI",
		Category:    schemas.CategoryOther,
		FileTypes:   []string{"json"},
		Description: "HuskyCI security pipeline orchestrator",
	}
}

func (huskyCIParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "huskyciresults", "goResults", "npmResults", "pythonResults")
}

func (huskyCIParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	results := asMap(data["huskyciresults"])
	if len(results) == 0 {
		results = data
	}

	levels := []struct {
		key string
		sev schemas.Severity
	}{
		{"highVulns", schemas.SeverityHigh},
		{"mediumVulns", schemas.SeverityMedium},
		{"lowVulns", schemas.SeverityLow},
	}

	var findings []schemas.ParsedFinding
	for _, toolKey := range []string{"goResults", "npmResults", "pythonResults", "javaResults", "rubyResults"} {
		toolResults := asMap(results[toolKey])
		for _, level := range levels {
			for _, v := range asSlice(toolResults[level.key]) {
				vuln := asMap(v)
				findings = append(findings, schemas.ParsedFinding{
					Title:       nonEmpty(firstStr(vuln, "title", "details"), "HuskyCI Finding"),
					Description: str(vuln, "details"),
					Severity:    level.sev,
					Tool:        "huskyci",
					Asset:       nonEmpty(firstStr(vuln, "file", "code"), "unknown"),
					RawData:     vuln,
				})
			}
		}
	}
	return findings
}
