package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type eslintParser struct{}

func (eslintParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "eslint",
		DisplayName: "ESLint",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "JavaScript/TypeScript linting with security rules",
	}
}

func (eslintParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	return has(first, "filePath") && has(first, "messages")
}

func (eslintParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for _, fv := range arr {
		fileResult := asMap(fv)
		filePath := nonEmpty(str(fileResult, "filePath"), "unknown")

		for _, mv := range asSlice(fileResult["messages"]) {
			message := asMap(mv)

			// ESLint severity: 2 = error, 1 = warn.
			var severity schemas.Severity
			switch intval(message, "severity") {
			case 2:
				severity = schemas.SeverityHigh
			case 1:
				severity = schemas.SeverityMedium
			default:
				severity = schemas.SeverityLow
			}

			tags := []string{"eslint"}
			if ruleID := str(message, "ruleId"); ruleID != "" {
				tags = append(tags, ruleID)
			}

			findings = append(findings, schemas.ParsedFinding{
				Title:          nonEmpty(str(message, "ruleId"), "eslint-rule"),
				Severity:       severity,
				Tool:           "eslint",
				Description:    str(message, "message"),
				Asset:          filePath,
				FilePath:       filePath,
				LineNumber:     intval(message, "line"),
				Recommendation: str(asMap(message["fix"]), "text"),
				Tags:           tags,
				RawData:        message,
			})
		}
	}
	return findings
}
