package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type prowlerParser struct{}

func (prowlerParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "prowler",
		DisplayName: "Prowler",
		Category:    schemas.CategoryInfrastructure,
		FileTypes:   []string{"json", "csv"},
		Description: "AWS/Azure/GCP security assessment tool",
	}
}

func (prowlerParser) Detect(content, _ string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		arr, ok := decodeArray(content)
		if !ok || len(arr) == 0 {
			return false
		}
		return has(asMap(arr[0]), "CheckID", "check_id", "StatusExtended")
	}
	head := truncate(content, 500)
	return strings.Contains(head, "CHECK_ID") || strings.Contains(head, "SEVERITY")
}

func (p prowlerParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return p.parseJSON(content)
	}
	return p.parseCSV(content)
}

func (prowlerParser) parseJSON(content string) []schemas.ParsedFinding {
	var items []any
	if arr, ok := decodeArray(content); ok {
		items = arr
	} else if doc, ok := decodeObject(content); ok {
		items = []any{doc}
	} else {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, entry := range items {
		result, ok := entry.(map[string]any)
		if !ok || len(result) == 0 {
			continue
		}
		if strings.EqualFold(firstStr(result, "Status", "status"), "PASS") {
			continue
		}
		checkID := firstStr(result, "CheckID", "check_id")

		recommendation := ""
		var refs []string
		if rem, ok := result["Remediation"].(map[string]any); ok {
			rec := asMap(rem["Recommendation"])
			recommendation = str(rec, "Text")
			refs = stringList(rec["Url"])
		}
		tags := []string{}
		for _, t := range []string{str(result, "Provider"), firstStr(result, "ServiceName", "service_name"), checkID} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:          nonEmpty(firstStr(result, "CheckTitle", "check_title"), checkID),
			Severity:       schemas.NormalizeSeverity(nonEmpty(firstStr(result, "Severity", "severity"), "medium")),
			Tool:           "prowler",
			Description:    truncate(firstStr(result, "StatusExtended", "status_extended"), 2000),
			Asset:          nonEmpty(firstStr(result, "ResourceId", "resource_id", "ResourceArn"), "unknown"),
			Recommendation: recommendation,
			References:     refs,
			Tags:           tags,
			RawData:        result,
		})
	}
	return findings
}

func (prowlerParser) parseCSV(content string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, row := range csvRows(content) {
		if strings.EqualFold(csvField(row, "STATUS", "Status"), "PASS") {
			continue
		}
		tags := []string{"prowler"}
		for _, t := range []string{csvField(row, "PROVIDER"), csvField(row, "SERVICE_NAME")} {
			if t != "" {
				tags = append(tags, t)
			}
		}
		findings = append(findings, schemas.ParsedFinding{
			Title:       nonEmpty(csvField(row, "CHECK_TITLE", "CheckTitle", "CHECK_ID"), "Unknown"),
			Severity:    schemas.NormalizeSeverity(nonEmpty(csvField(row, "SEVERITY", "Severity"), "medium")),
			Tool:        "prowler",
			Description: truncate(csvField(row, "STATUS_EXTENDED", "StatusExtended"), 2000),
			Asset:       nonEmpty(csvField(row, "RESOURCE_ID", "ResourceId"), "unknown"),
			Tags:        tags,
			RawData:     rawRow(row),
		})
	}
	return findings
}
