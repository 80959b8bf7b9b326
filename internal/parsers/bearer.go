package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type bearerParser struct{}

func (bearerParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "bearer",
		DisplayName: "Bearer CLI",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Code security and privacy analysis",
	}
}

func (bearerParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "findings") || (has(data, "high") && has(data, "critical"))
}

func (bearerParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	// Bearer emits either a flat "findings" array or one bucket per severity.
	var results []any
	if has(data, "findings") {
		results = asSlice(data["findings"])
	} else {
		for _, sev := range []string{"critical", "high", "medium", "low", "warning"} {
			results = append(results, asSlice(data[sev])...)
		}
	}

	var findings []schemas.ParsedFinding
	for _, v := range results {
		result := asMap(v)

		cweID := 0
		if ids := stringList(result["cwe_ids"]); len(ids) > 0 {
			cweID = cweNumber(ids[0])
		}

		docURL := str(result, "documentation_url")
		f := schemas.ParsedFinding{
			Title:          firstStr(result, "title", "rule_id"),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(result, "severity"), "medium")),
			Tool:           "bearer",
			Description:    str(result, "description"),
			Asset:          nonEmpty(str(result, "filename"), "unknown"),
			FilePath:       str(result, "filename"),
			LineNumber:     intval(result, "line_number"),
			CWEID:          cweID,
			Recommendation: docURL,
			Tags:           stringList(result["categories"]),
			RawData:        result,
		}
		if f.Title == "" {
			f.Title = "Unknown"
		}
		if docURL != "" {
			f.References = []string{docURL}
		}
		findings = append(findings, f)
	}
	return findings
}
