package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type codeqlParser struct{}

func (codeqlParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "codeql",
		DisplayName: "CodeQL / GitHub Advanced Security",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json", "sarif"},
		Description: "GitHub's semantic code analysis engine",
	}
}

func (codeqlParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	if schema := str(data, "$schema"); schema != "" && strings.Contains(schema, "sarif") {
		return true
	}
	_, isRuns := data["runs"].([]any)
	return isRuns
}

func (codeqlParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, rv := range asSlice(data["runs"]) {
		run := asMap(rv)
		driver := asMap(asMap(run["tool"])["driver"])
		toolName := nonEmpty(str(driver, "name"), "codeql")

		rules := map[string]map[string]any{}
		for _, r := range asSlice(driver["rules"]) {
			rule := asMap(r)
			rules[str(rule, "id")] = rule
		}

		for _, res := range asSlice(run["results"]) {
			result := asMap(res)
			ruleID := nonEmpty(str(result, "ruleId"), "unknown")
			ruleInfo := rules[ruleID]

			var severity schemas.Severity
			switch nonEmpty(str(result, "level"), "warning") {
			case "error":
				severity = schemas.SeverityHigh
			case "warning":
				severity = schemas.SeverityMedium
			default:
				severity = schemas.SeverityLow
			}

			var filePath string
			var lineNumber int
			if locs := asSlice(result["locations"]); len(locs) > 0 {
				physical := asMap(asMap(locs[0])["physicalLocation"])
				filePath = str(asMap(physical["artifactLocation"]), "uri")
				lineNumber = intval(asMap(physical["region"]), "startLine")
			}

			cweID := 0
			tags := stringList(asMap(ruleInfo["properties"])["tags"])
			for _, tag := range tags {
				if strings.HasPrefix(tag, "external/cwe/cwe-") {
					cweID = cweNumber(strings.TrimPrefix(tag, "external/cwe/"))
					break
				}
			}

			f := schemas.ParsedFinding{
				Title:       nonEmpty(str(asMap(ruleInfo["shortDescription"]), "text"), ruleID),
				Severity:    severity,
				Tool:        strings.ReplaceAll(strings.ToLower(toolName), " ", "-"),
				Description: str(asMap(result["message"]), "text"),
				Asset:       nonEmpty(filePath, "unknown"),
				FilePath:    filePath,
				LineNumber:  lineNumber,
				CWEID:       cweID,
				References:  stringList(ruleInfo["helpUri"]),
				Tags:        tags,
				RawData:     result,
			}
			findings = append(findings, f)
		}
	}
	return findings
}
