package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

func mustParser(t *testing.T, name string) Parser {
	t.Helper()
	p, err := Get(name)
	require.NoError(t, err)
	return p
}

func TestBanditParse(t *testing.T) {
	content := `{
		"generated_at": "2026-02-11T09:00:00Z",
		"results": [{
			"test_id": "B602",
			"test_name": "subprocess_popen_with_shell_equals_true",
			"issue_severity": "HIGH",
			"issue_text": "subprocess call with shell=True identified",
			"issue_cwe": {"id": 78, "link": "https://cwe.mitre.org/data/definitions/78.html"},
			"filename": "app/runner.py",
			"line_number": 42
		}, {
			"test_name": "hardcoded_password_string",
			"filename": "app/settings.py"
		}]
	}`

	p := mustParser(t, "bandit")
	assert.True(t, p.Detect(content, "bandit.json"))

	findings := p.Parse(content, "bandit.json")
	require.Len(t, findings, 2)

	f := findings[0]
	assert.Equal(t, "B602: subprocess_popen_with_shell_equals_true", f.Title)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, "bandit", f.Tool)
	assert.Equal(t, "app/runner.py", f.Asset)
	assert.Equal(t, "app/runner.py", f.FilePath)
	assert.Equal(t, 42, f.LineNumber)
	assert.Equal(t, 78, f.CWEID)
	assert.Equal(t, []string{"B602"}, f.Tags)

	// Missing fields fall back instead of dropping the result.
	f = findings[1]
	assert.Equal(t, "B000: hardcoded_password_string", f.Title)
	assert.Equal(t, schemas.SeverityLow, f.Severity)
	assert.Empty(t, f.Tags)
}

func TestNucleiParseJSONL(t *testing.T) {
	content := `{"template-id": "CVE-2021-44228", "host": "https://vuln.example.com", "info": {"name": "Apache Log4j RCE", "severity": "critical", "description": "JNDI injection in log4j2.", "remediation": "Upgrade to 2.17.1", "tags": "cve,rce,log4j", "classification": {"cve-id": ["CVE-2021-44228"], "cvss-score": 10.0}}}
not json, skipped
{"template-id": "tech-detect", "matched-at": "https://other.example.com/login"}`

	p := mustParser(t, "nuclei")
	assert.True(t, p.Detect(content, "nuclei.jsonl"))

	findings := p.Parse(content, "nuclei.jsonl")
	require.Len(t, findings, 2)

	f := findings[0]
	assert.Equal(t, "Apache Log4j RCE", f.Title)
	assert.Equal(t, schemas.SeverityCritical, f.Severity)
	assert.Equal(t, "nuclei", f.Tool)
	assert.Equal(t, "https://vuln.example.com", f.Asset)
	assert.Equal(t, "CVE-2021-44228", f.CVEID)
	assert.InDelta(t, 10.0, f.CVSSScore, 0.001)
	assert.Equal(t, "Upgrade to 2.17.1", f.Recommendation)
	assert.Contains(t, f.Tags, "rce")

	f = findings[1]
	assert.Equal(t, "tech-detect", f.Title)
	assert.Equal(t, schemas.SeverityInfo, f.Severity)
	assert.Equal(t, "https://other.example.com/login", f.Asset)
}

func TestTrivyParseVulnerabilitiesAndMisconfigurations(t *testing.T) {
	content := `{
		"SchemaVersion": 2,
		"ArtifactName": "registry/app:1.4",
		"Results": [{
			"Target": "registry/app:1.4 (debian 12.4)",
			"Type": "debian",
			"Vulnerabilities": [{
				"VulnerabilityID": "CVE-2024-1234",
				"PkgName": "libssl3",
				"InstalledVersion": "3.0.11-1",
				"FixedVersion": "3.0.13-1",
				"Severity": "CRITICAL",
				"Description": "Buffer overflow in TLS handshake.",
				"CVSS": {"nvd": {"V3Score": 9.8}}
			}]
		}, {
			"Target": "Dockerfile",
			"Misconfigurations": [{
				"ID": "DS002",
				"Title": "Image runs as root",
				"Severity": "HIGH",
				"Type": "dockerfile",
				"Resolution": "Add a USER instruction"
			}]
		}]
	}`

	p := mustParser(t, "trivy")
	assert.True(t, p.Detect(content, "trivy.json"))

	findings := p.Parse(content, "trivy.json")
	require.Len(t, findings, 2)

	vuln := findings[0]
	assert.Equal(t, "CVE-2024-1234: libssl3", vuln.Title)
	assert.Equal(t, schemas.SeverityCritical, vuln.Severity)
	assert.Equal(t, "registry/app:1.4 (debian 12.4)", vuln.Asset)
	assert.Equal(t, "CVE-2024-1234", vuln.CVEID)
	assert.InDelta(t, 9.8, vuln.CVSSScore, 0.001)
	assert.Equal(t, "Upgrade libssl3 from 3.0.11-1 to 3.0.13-1", vuln.Recommendation)
	assert.Equal(t, []string{"debian", "libssl3"}, vuln.Tags)

	mis := findings[1]
	assert.Equal(t, "Image runs as root", mis.Title)
	assert.Equal(t, schemas.SeverityHigh, mis.Severity)
	assert.Equal(t, "Dockerfile", mis.Asset)
	assert.Equal(t, "Add a USER instruction", mis.Recommendation)
	assert.Equal(t, []string{"misconfiguration", "dockerfile"}, mis.Tags)
}

func TestSarifParse(t *testing.T) {
	content := `{
		"$schema": "https://json.schemastore.org/sarif-2.1.0.json",
		"version": "2.1.0",
		"runs": [{
			"tool": {"driver": {
				"name": "Example Analyzer",
				"rules": [{
					"id": "js/sql-injection",
					"shortDescription": {"text": "SQL query built from user input"},
					"help": {"text": "Use parameterized queries."},
					"helpUri": "https://example.com/rules/js/sql-injection",
					"properties": {"tags": ["security", "external/cwe/cwe-089"]}
				}]
			}},
			"results": [{
				"ruleId": "js/sql-injection",
				"level": "error",
				"message": {"text": "Query depends on a user-provided value."},
				"locations": [{"physicalLocation": {
					"artifactLocation": {"uri": "src/db/users.js"},
					"region": {"startLine": 118}
				}}]
			}, {
				"ruleId": "js/unused-var",
				"level": "note",
				"message": {"text": "Unused variable x."}
			}]
		}]
	}`

	findings := mustParser(t, "sarif").Parse(content, "results.sarif")
	require.Len(t, findings, 2)

	f := findings[0]
	assert.Equal(t, "SQL query built from user input", f.Title)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, "example-analyzer", f.Tool)
	assert.Equal(t, "src/db/users.js", f.Asset)
	assert.Equal(t, "src/db/users.js", f.FilePath)
	assert.Equal(t, 118, f.LineNumber)
	assert.Equal(t, 89, f.CWEID)
	assert.Equal(t, "Use parameterized queries.", f.Recommendation)
	assert.Equal(t, []string{"https://example.com/rules/js/sql-injection"}, f.References)

	f = findings[1]
	assert.Equal(t, "js/unused-var", f.Title)
	assert.Equal(t, schemas.SeverityLow, f.Severity)
	assert.Equal(t, "unknown", f.Asset)
	assert.Zero(t, f.LineNumber)
}

func TestProwlerParseSkipsNonObjectEntries(t *testing.T) {
	content := `[
		{"CheckID": "iam_root_hardware_mfa", "CheckTitle": "Root account has hardware MFA enabled",
		 "Status": "FAIL", "Severity": "high",
		 "StatusExtended": "Root account does not have hardware MFA enabled.",
		 "ResourceId": "arn:aws:iam::123456789012:root",
		 "Provider": "aws", "ServiceName": "iam"},
		{"CheckID": "s3_bucket_public_access", "Status": "PASS"},
		42,
		"stray string",
		{}
	]`

	findings := mustParser(t, "prowler").Parse(content, "prowler.json")
	// PASS results, scalar entries and empty objects are all skipped.
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, "Root account has hardware MFA enabled", f.Title)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, "prowler", f.Tool)
	assert.Equal(t, "arn:aws:iam::123456789012:root", f.Asset)
	assert.Equal(t, []string{"aws", "iam", "iam_root_hardware_mfa"}, f.Tags)
}

func TestMasscanParse(t *testing.T) {
	content := `[
		{"ip": "10.0.0.5", "ports": [
			{"port": 22, "proto": "tcp", "status": "open"},
			{"port": 443, "proto": "tcp", "status": "open"}
		]},
		{"ip": "10.0.0.9", "ports": [{"port": 161, "proto": "udp", "status": "open"}]}
	]`

	findings := mustParser(t, "masscan").Parse(content, "masscan.json")
	require.Len(t, findings, 3)

	f := findings[0]
	assert.Equal(t, "Open Port: 22 (tcp)", f.Title)
	assert.Equal(t, "Port 22 is open on 10.0.0.5", f.Description)
	assert.Equal(t, schemas.SeverityInfo, f.Severity)
	assert.Equal(t, "10.0.0.5:22", f.Asset)

	assert.Equal(t, "Open Port: 161 (udp)", findings[2].Title)
	assert.Equal(t, "10.0.0.9:161", findings[2].Asset)
}

func TestGenericCSVParse(t *testing.T) {
	content := "Title,Severity,Host,CVE,CVSS,Recommendation\n" +
		"Outdated TLS version,high,mail.example.com,,5.3,Disable TLS 1.0\n" +
		",critical,ghost.example.com,,,\n" +
		"Default credentials,,router.example.com,CVE-2020-0022,,\n"

	findings := mustParser(t, "generic-csv").Parse(content, "import.csv")
	require.Len(t, findings, 2) // titleless row dropped

	f := findings[0]
	assert.Equal(t, "Outdated TLS version", f.Title)
	assert.Equal(t, schemas.SeverityHigh, f.Severity)
	assert.Equal(t, "generic-csv", f.Tool)
	assert.Equal(t, "mail.example.com", f.Asset)
	assert.InDelta(t, 5.3, f.CVSSScore, 0.001)
	assert.Equal(t, "Disable TLS 1.0", f.Recommendation)

	// No severity column value defaults to medium.
	f = findings[1]
	assert.Equal(t, schemas.SeverityMedium, f.Severity)
	assert.Equal(t, "CVE-2020-0022", f.CVEID)
}
