package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type sslyzeParser struct{}

func (sslyzeParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "sslyze",
		DisplayName: "SSLyze",
		Category:    schemas.CategoryNetwork,
		FileTypes:   []string{"json"},
		Description: "SSLyze SSL/TLS configuration analyzer",
	}
}

func (sslyzeParser) Detect(content, _ string) bool {
	data, ok := decodeObject(content)
	if !ok {
		return false
	}
	return has(data, "server_scan_results", "sslyze_version") || strings.Contains(content, "server_info")
}

func (sslyzeParser) Parse(content, _ string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	results := asSlice(data["server_scan_results"])
	if results == nil {
		results = []any{data}
	}
	var findings []schemas.ParsedFinding
	for _, rv := range results {
		result := asMap(rv)
		serverInfo := asMap(result["server_info"])
		location := asMap(serverInfo["server_location"])
		hostname := nonEmpty(str(location, "hostname"), nonEmpty(str(serverInfo, "hostname"), "unknown"))
		port := 443
		if p, ok := num(location, "port"); ok {
			port = int(p)
		}
		asset := fmt.Sprintf("%s:%d", hostname, port)

		commands := asMap(result["scan_commands_results"])
		if len(commands) == 0 {
			commands = asMap(result["scan_result"])
		}

		if len(asSlice(asMap(commands["ssl_2_0_cipher_suites"])["accepted_cipher_suites"])) > 0 {
			findings = append(findings, schemas.ParsedFinding{
				Title:       "SSL 2.0 Enabled",
				Description: "Server supports SSLv2 which is insecure and deprecated",
				Severity:    schemas.SeverityCritical,
				Tool:        "sslyze",
				Asset:       asset,
				RawData:     map[string]any{"vulnerability": "ssl2_enabled"},
			})
		}
		if len(asSlice(asMap(commands["ssl_3_0_cipher_suites"])["accepted_cipher_suites"])) > 0 {
			findings = append(findings, schemas.ParsedFinding{
				Title:       "SSL 3.0 Enabled",
				Description: "Server supports SSLv3 which is vulnerable to POODLE",
				Severity:    schemas.SeverityHigh,
				Tool:        "sslyze",
				Asset:       asset,
				CVEID:       "CVE-2014-3566",
				RawData:     map[string]any{"vulnerability": "ssl3_enabled"},
			})
		}
		if vulnerable, _ := asMap(commands["heartbleed"])["is_vulnerable_to_heartbleed"].(bool); vulnerable {
			findings = append(findings, schemas.ParsedFinding{
				Title:       "Heartbleed Vulnerability",
				Description: "Server is vulnerable to Heartbleed (CVE-2014-0160)",
				Severity:    schemas.SeverityCritical,
				Tool:        "sslyze",
				Asset:       asset,
				CVEID:       "CVE-2014-0160",
				RawData:     map[string]any{"vulnerability": "heartbleed"},
			})
		}
		if robot := asMap(commands["robot"])["robot_result"]; robot != nil &&
			strings.Contains(strings.ToUpper(fmt.Sprintf("%v", robot)), "VULNERABLE") {
			findings = append(findings, schemas.ParsedFinding{
				Title:       "ROBOT Vulnerability",
				Description: "Server is vulnerable to ROBOT attack",
				Severity:    schemas.SeverityHigh,
				Tool:        "sslyze",
				Asset:       asset,
				RawData:     map[string]any{"vulnerability": "robot"},
			})
		}
		for _, dv := range asSlice(asMap(commands["certificate_info"])["certificate_deployments"]) {
			for _, vv := range asSlice(asMap(dv)["path_validation_results"]) {
				val := asMap(vv)
				if ok, _ := val["was_validation_successful"].(bool); ok {
					continue
				}
				findings = append(findings, schemas.ParsedFinding{
					Title:       "Certificate Validation Failed",
					Description: fmt.Sprintf("Certificate validation failed: %s", nonEmpty(str(val, "openssl_error_string"), "unknown error")),
					Severity:    schemas.SeverityMedium,
					Tool:        "sslyze",
					Asset:       asset,
					RawData:     val,
				})
			}
		}
	}
	return findings
}
