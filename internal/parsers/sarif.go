package parsers

import (
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type sarifParser struct{}

func (sarifParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "sarif",
		DisplayName: "SARIF",
		Category:    schemas.CategoryGeneric,
		FileTypes:   []string{"sarif", "json"},
		Description: "Static Analysis Results Interchange Format (SARIF)",
	}
}

func (sarifParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	if schema := str(data, "$schema"); schema != "" {
		return strings.Contains(strings.ToLower(schema), "sarif")
	}
	return has(data, "runs") && strings.Contains(truncate(content, 500), "tool")
}

func (p sarifParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, rv := range asSlice(data["runs"]) {
		run := asMap(rv)
		driver := asMap(asMap(run["tool"])["driver"])
		toolName := strings.ReplaceAll(strings.ToLower(nonEmpty(str(driver, "name"), "sarif-tool")), " ", "-")

		rules := make(map[string]map[string]any)
		for _, rule := range asSlice(driver["rules"]) {
			m := asMap(rule)
			if id := str(m, "id"); id != "" {
				rules[id] = m
			}
		}

		for _, resv := range asSlice(run["results"]) {
			result := asMap(resv)
			ruleID := nonEmpty(str(result, "ruleId"), "unknown")
			rule := rules[ruleID]

			level := str(result, "level")
			if level == "" {
				level = nonEmpty(str(asMap(rule["defaultConfiguration"]), "level"), "warning")
			}
			severity := schemas.SeverityMedium
			switch level {
			case "error":
				severity = schemas.SeverityHigh
			case "warning":
				severity = schemas.SeverityMedium
			case "note":
				severity = schemas.SeverityLow
			case "none":
				severity = schemas.SeverityInfo
			}

			filePath, asset, line := "", "unknown", 0
			if locations := asSlice(result["locations"]); len(locations) > 0 {
				physical := asMap(asMap(locations[0])["physicalLocation"])
				artifact := asMap(physical["artifactLocation"])
				filePath = firstStr(artifact, "uri", "uriBaseId")
				asset = nonEmpty(filePath, "unknown")
				line = intval(asMap(physical["region"]), "startLine")
			}

			title := ruleID
			if short := asMap(rule["shortDescription"]); len(short) > 0 {
				title = nonEmpty(str(short, "text"), ruleID)
			}

			tags := stringList(asMap(rule["properties"])["tags"])
			cwe := 0
			for _, tag := range tags {
				if strings.Contains(strings.ToLower(tag), "cwe") {
					parts := strings.Split(tag, "-")
					if n, ok := parseFloat(parts[len(parts)-1]); ok {
						cwe = int(n)
					}
					break
				}
			}

			f := schemas.ParsedFinding{
				Title:          title,
				Severity:       severity,
				Tool:           toolName,
				Description:    str(asMap(result["message"]), "text"),
				Asset:          asset,
				FilePath:       filePath,
				LineNumber:     line,
				CWEID:          cwe,
				Recommendation: str(asMap(rule["help"]), "text"),
				Tags:           tags,
				RawData:        result,
			}
			if uri := str(rule, "helpUri"); uri != "" {
				f.References = []string{uri}
			}
			findings = append(findings, f)
		}
	}
	return findings
}
