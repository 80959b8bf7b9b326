package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type awsSecurityHubParser struct{}

func (awsSecurityHubParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "aws-security-hub",
		DisplayName: "AWS Security Hub",
		Category:    schemas.CategoryCloud,
		FileTypes:   []string{"json"},
		Description: "AWS Security Hub findings (ASFF format)",
	}
}

func (awsSecurityHubParser) Detect(content, _ string) bool {
	items := asffFindings(content)
	if len(items) == 0 {
		return false
	}
	first := asMap(items[0])
	return has(first, "AwsAccountId", "ProductArn", "SchemaVersion")
}

func (awsSecurityHubParser) Parse(content, _ string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, v := range asffFindings(content) {
		asff := asMap(v)
		if len(asff) == 0 {
			continue
		}
		asset := "unknown"
		if resources := asSlice(asff["Resources"]); len(resources) > 0 {
			asset = nonEmpty(str(asMap(resources[0]), "Id"), "unknown")
		}
		severity := schemas.SeverityInfo
		switch str(asMap(asff["Severity"]), "Label") {
		case "CRITICAL":
			severity = schemas.SeverityCritical
		case "HIGH":
			severity = schemas.SeverityHigh
		case "MEDIUM":
			severity = schemas.SeverityMedium
		case "LOW":
			severity = schemas.SeverityLow
		}
		recommendation := asMap(asMap(asff["Remediation"])["Recommendation"])
		f := schemas.ParsedFinding{
			Title:          nonEmpty(str(asff, "Title"), "AWS Security Hub Finding"),
			Severity:       severity,
			Tool:           "aws-security-hub",
			Description:    str(asff, "Description"),
			Asset:          asset,
			Recommendation: str(recommendation, "Text"),
			Tags:           []string{"aws", str(asMap(asff["ProductFields"]), "ControlId"), str(asff, "GeneratorId")},
			RawData:        asff,
		}
		if has(asff, "Remediation") {
			f.References = []string{str(recommendation, "Url")}
		}
		findings = append(findings, f)
	}
	return findings
}

// asffFindings unwraps either a {"Findings": [...]} envelope, a bare
// array, or a single finding object.
func asffFindings(content string) []any {
	if obj, ok := decodeObject(content); ok {
		if items := asSlice(obj["Findings"]); items != nil {
			return items
		}
		return []any{obj}
	}
	if arr, ok := decodeArray(content); ok {
		return arr
	}
	return nil
}
