package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type detectSecretsParser struct{}

func (detectSecretsParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "detect_secrets",
		DisplayName: "Detect-secrets",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "Yelp's detect-secrets for finding secrets in code",
	}
}

func (detectSecretsParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	// results is a file-keyed object, not an array, which distinguishes this
	// format from bandit's {results, generated_at} pair.
	if _, isMap := data["results"].(map[string]any); !isMap {
		return false
	}
	return has(data, "generated_at") || has(data, "version")
}

func (detectSecretsParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for filePath, v := range asMap(data["results"]) {
		for _, s := range asSlice(v) {
			secret := asMap(s)

			raw := map[string]any{"file": filePath}
			for k, val := range secret {
				raw[k] = val
			}

			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Secret Detected: %s", nonEmpty(str(secret, "type"), "Unknown Secret")),
				Description: fmt.Sprintf("Potential secret found at line %s", nonEmpty(str(secret, "line_number"), "unknown")),
				Severity:    schemas.SeverityHigh,
				Tool:        "detect_secrets",
				Asset:       filePath,
				FilePath:    filePath,
				LineNumber:  intval(secret, "line_number"),
				RawData:     raw,
			})
		}
	}
	return findings
}
