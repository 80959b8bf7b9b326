package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type azureSecurityCenterParser struct{}

func (azureSecurityCenterParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "azure-security-center",
		DisplayName: "Azure Security Center / Defender",
		Category:    schemas.CategoryCloud,
		FileTypes:   []string{"json", "csv"},
		Description: "Microsoft Azure security recommendations",
	}
}

func (azureSecurityCenterParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if arr, ok := decodeArray(content); ok {
			if len(arr) == 0 {
				return false
			}
			return has(asMap(arr[0]), "resourceGroup", "subscriptionId")
		}
		if obj, ok := decodeObject(content); ok {
			return has(obj, "value") && strings.Contains(strings.ToLower(truncate(content, 500)), "recommendations")
		}
		return false
	}
	head := truncate(content, 500)
	return strings.Contains(head, "subscriptionId") || strings.Contains(head, "resourceGroup")
}

func (p azureSecurityCenterParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return p.parseJSON(content)
	}
	return p.parseCSV(content)
}

func (azureSecurityCenterParser) parseJSON(content string) []schemas.ParsedFinding {
	var recs []any
	if obj, ok := decodeObject(content); ok {
		if recs = asSlice(obj["value"]); recs == nil {
			recs = []any{obj}
		}
	} else if arr, ok := decodeArray(content); ok {
		recs = arr
	}

	var findings []schemas.ParsedFinding
	for _, v := range recs {
		rec := asMap(v)
		if len(rec) == 0 {
			continue
		}
		props := asMap(rec["properties"])
		severity := schemas.SeverityMedium
		switch nonEmpty(str(rec, "severity"), str(props, "severity")) {
		case "High":
			severity = schemas.SeverityHigh
		case "Low":
			severity = schemas.SeverityLow
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(str(rec, "displayName"), nonEmpty(str(props, "displayName"), "Azure Recommendation")),
			Severity:       severity,
			Tool:           "azure-security-center",
			Description:    nonEmpty(str(rec, "description"), str(props, "description")),
			Asset:          nonEmpty(str(rec, "resourceId"), nonEmpty(str(rec, "id"), "unknown")),
			Recommendation: nonEmpty(str(rec, "remediation"), str(props, "remediationDescription")),
			Tags:           []string{"azure", str(rec, "category")},
			RawData:        rec,
		})
	}
	return findings
}

func (azureSecurityCenterParser) parseCSV(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "recommendationDisplayName", "displayName"), "Azure Recommendation"),
			Severity:    schemas.NormalizeSeverity(nonEmpty(csvField(row, "severity"), "Medium")),
			Tool:        "azure-security-center",
			Description: csvField(row, "description"),
			Asset:       nonEmpty(csvField(row, "resourceId", "resourceName"), "unknown"),
			Tags:        []string{"azure", csvField(row, "category")},
			RawData:     rawRow(row),
		})
	}
	return findings
}
