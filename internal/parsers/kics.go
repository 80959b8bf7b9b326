package parsers

import (
	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type kicsParser struct{}

func (kicsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "kics",
		DisplayName: "KICS",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json"},
		Description: "Checkmarx Infrastructure as Code security scanner",
	}
}

func (kicsParser) Detect(content, _ string) bool {
	doc, ok := decodeObject(content)
	return ok && has(doc, "queries") && has(doc, "kics_version")
}

func (kicsParser) Parse(content, _ string) []schemas.ParsedFinding {
	doc, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, q := range asSlice(doc["queries"]) {
		query := asMap(q)
		queryName := nonEmpty(str(query, "query_name"), "Unknown Query")
		severity := nonEmpty(str(query, "severity"), "MEDIUM")
		description := str(query, "description")
		cweID := cweNumber(query["cwe"])

		tags := []string{}
		if p := str(query, "platform"); p != "" {
			tags = append(tags, p)
		}
		if id := str(query, "query_id"); id != "" {
			tags = append(tags, id)
		}
		for _, f := range asSlice(query["files"]) {
			file := asMap(f)
			findings = append(findings, schemas.ParsedFinding{
				Title:          queryName,
				Severity:       schemas.NormalizeSeverity(severity),
				Tool:           "kics",
				Description:    truncate(description, 2000),
				Asset:          nonEmpty(str(file, "file_name"), "unknown"),
				FilePath:       str(file, "file_name"),
				LineNumber:     intval(file, "line"),
				CWEID:          cweID,
				Recommendation: str(file, "expected_value"),
				Tags:           tags,
				RawData:        map[string]any{"query": query, "file": file},
			})
		}
	}
	return findings
}
