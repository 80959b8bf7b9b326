package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type credscanParser struct{}

func (credscanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "credscan",
		DisplayName: "CredScan",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"csv", "json"},
		Description: "Microsoft CredScan for detecting credentials in code",
	}
}

func (credscanParser) Detect(content, _ string) bool {
	if strings.Contains(content, "CredentialType") || strings.Contains(content, "SearcherName") {
		return true
	}
	data, ok := decodeObject(content)
	return ok && has(data, "credentials", "matches")
}

func (credscanParser) Parse(content, _ string) []schemas.ParsedFinding {
	trimmed := strings.TrimSpace(content)

	var findings []schemas.ParsedFinding
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		creds, ok := decodeArray(content)
		if !ok {
			data, okObj := decodeObject(content)
			if !okObj {
				return nil
			}
			creds = asSlice(data["credentials"])
			if creds == nil {
				creds = asSlice(data["matches"])
			}
		}
		for _, v := range creds {
			cred := asMap(v)
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Credential Found: %s", nonEmpty(firstStr(cred, "type", "SearcherName"), "Unknown")),
				Description: nonEmpty(str(cred, "description"), "Hardcoded credential detected"),
				Severity:    schemas.SeverityHigh,
				Tool:        "credscan",
				Asset:       nonEmpty(firstStr(cred, "file", "FileName"), "unknown"),
				RawData:     cred,
			})
		}
		return findings
	}

	for _, row := range csvRows(content) {
		findings = append(findings, schemas.ParsedFinding{
			Title:       fmt.Sprintf("Credential Found: %s", nonEmpty(csvField(row, "CredentialType", "SearcherName"), "Unknown")),
			Description: nonEmpty(csvField(row, "Description"), "Hardcoded credential detected"),
			Severity:    schemas.SeverityHigh,
			Tool:        "credscan",
			Asset:       nonEmpty(csvField(row, "FileName", "File"), "unknown"),
			RawData:     rawRow(row),
		})
	}
	return findings
}
