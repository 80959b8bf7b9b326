package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type noseyparkerParser struct{}

func (noseyparkerParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "noseyparker",
		DisplayName: "Nosey Parker",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json", "jsonl"},
		Description: "Praetorian Nosey Parker secrets scanner",
	}
}

func (noseyparkerParser) Detect(content, _ string) bool {
	first := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	data, ok := decodeObject(first)
	if !ok {
		return false
	}
	return has(data, "rule_name") ||
		(has(data, "matches") && strings.Contains(first, "provenance"))
}

func (noseyparkerParser) Parse(content, _ string) []schemas.ParsedFinding {
	var findings []schemas.ParsedFinding
	for _, line := range lines(content) {
		if line == "" {
			continue
		}
		data, ok := decodeObject(line)
		if !ok {
			continue
		}

		matches := asSlice(data["matches"])
		if matches == nil {
			matches = []any{data}
		}
		for _, mv := range matches {
			match := asMap(mv)
			rule := nonEmpty(str(match, "rule_name"), nonEmpty(str(data, "rule_name"), "Unknown"))
			asset := str(asMap(match["provenance"]), "path")
			if asset == "" {
				asset = str(match, "path")
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Secret Found: %s", rule),
				Description: firstStr(match, "snippet", "match_content"),
				Severity:    schemas.SeverityHigh,
				Tool:        "noseyparker",
				Asset:       nonEmpty(asset, "unknown"),
				RawData:     match,
			})
		}
	}
	return findings
}
