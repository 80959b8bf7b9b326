package parsers

import "github.com/djvirus9/secops-dashboard/api/schemas"

type phpstanParser struct{}

func (phpstanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "phpstan",
		DisplayName: "PHPStan",
		Category:    schemas.CategorySAST,
		FileTypes:   []string{"json"},
		Description: "PHP static analysis tool",
	}
}

func (phpstanParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	return ok && has(data, "totals") && has(data, "files")
}

func (phpstanParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}

	var findings []schemas.ParsedFinding
	for filePath, fv := range asMap(data["files"]) {
		for _, mv := range asSlice(asMap(fv)["messages"]) {
			message := asMap(mv)
			findings = append(findings, schemas.ParsedFinding{
				Title:       truncate(nonEmpty(str(message, "message"), "PHPStan Issue"), 100),
				Severity:    schemas.SeverityMedium,
				Tool:        "phpstan",
				Description: str(message, "message"),
				Asset:       filePath,
				FilePath:    filePath,
				LineNumber:  intval(message, "line"),
				Tags:        []string{"phpstan"},
				RawData:     message,
			})
		}
	}
	return findings
}
