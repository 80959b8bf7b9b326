package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type gitleaksParser struct{}

func (gitleaksParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "gitleaks",
		DisplayName: "Gitleaks",
		Category:    schemas.CategorySecrets,
		FileTypes:   []string{"json"},
		Description: "Secret and credential scanner for git repositories",
	}
}

func (gitleaksParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	return has(asMap(arr[0]), "RuleID", "rule", "Secret")
}

func (gitleaksParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, v := range arr {
		result := asMap(v)

		ruleID := nonEmpty(firstStr(result, "RuleID", "rule"), "unknown-secret")
		description := nonEmpty(firstStr(result, "Description", "description"), "Secret detected")
		filePath := nonEmpty(firstStr(result, "File", "file"), "unknown")
		line := intval(result, "StartLine")
		if line == 0 {
			line = intval(result, "line")
		}

		// The secret value itself never leaves the parser; only a short
		// preview survives in the description and RawData drops it entirely.
		var preview string
		if secret := str(result, "Secret"); secret != "" {
			preview = truncate(secret, 20) + "..."
		}
		raw := make(map[string]any, len(result))
		for k, val := range result {
			if k != "Secret" {
				raw[k] = val
			}
		}

		findings = append(findings, schemas.ParsedFinding{
			Title:       fmt.Sprintf("Secret Detected: %s", ruleID),
			Severity:    schemas.SeverityHigh,
			Tool:        "gitleaks",
			Description: fmt.Sprintf("%s. Partial match: %s", description, preview),
			Asset:       filePath,
			FilePath:    filePath,
			LineNumber:  line,
			Tags:        []string{"secrets", "credentials", ruleID},
			RawData:     raw,
		})
	}
	return findings
}
