package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type gcpSCCParser struct{}

func (gcpSCCParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "gcp-scc",
		DisplayName: "Google Cloud Security Command Center",
		Category:    schemas.CategoryCloud,
		FileTypes:   []string{"json"},
		Description: "Google Cloud security findings",
	}
}

func (gcpSCCParser) Detect(content, _ string) bool {
	if arr, ok := decodeArray(content); ok {
		return len(arr) > 0 && has(asMap(arr[0]), "finding", "resourceName")
	}
	obj, ok := decodeObject(content)
	return ok && has(obj, "listFindingsResults", "finding")
}

func (gcpSCCParser) Parse(content, _ string) []schemas.ParsedFinding {
	var results []any
	if arr, ok := decodeArray(content); ok {
		results = arr
	} else if obj, ok := decodeObject(content); ok {
		if results = asSlice(obj["listFindingsResults"]); results == nil {
			results = []any{obj}
		}
	}

	var findings []schemas.ParsedFinding
	for _, v := range results {
		result := asMap(v)
		if len(result) == 0 {
			continue
		}
		data := result
		if nested := asMap(result["finding"]); len(nested) > 0 {
			data = nested
		}
		f := schemas.ParsedFinding{
			Title:          nonEmpty(str(data, "category"), nonEmpty(str(data, "findingClass"), "GCP Security Finding")),
			Severity:       schemas.NormalizeSeverity(nonEmpty(str(data, "severity"), "MEDIUM")),
			Tool:           "gcp-scc",
			Description:    str(data, "description"),
			Asset:          nonEmpty(str(data, "resourceName"), nonEmpty(str(asMap(result["resource"]), "name"), "unknown")),
			Recommendation: str(data, "nextSteps"),
			Tags:           []string{"gcp", str(data, "findingClass"), str(data, "category")},
			RawData:        result,
		}
		if uri := str(data, "externalUri"); uri != "" {
			f.References = []string{uri}
		}
		findings = append(findings, f)
	}
	return findings
}
