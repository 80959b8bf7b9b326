package parsers

import (
	"fmt"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type masscanParser struct{}

func (masscanParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "masscan",
		DisplayName: "Masscan",
		Category:    schemas.CategoryNetwork,
		FileTypes:   []string{"json"},
		Description: "Masscan high-speed port scanner",
	}
}

func (masscanParser) Detect(content, _ string) bool {
	arr, ok := decodeArray(content)
	if !ok || len(arr) == 0 {
		return false
	}
	first := asMap(arr[0])
	return has(first, "ip") && has(first, "ports")
}

func (masscanParser) Parse(content, _ string) []schemas.ParsedFinding {
	arr, ok := decodeArray(content)
	if !ok {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, v := range arr {
		host := asMap(v)
		ip := nonEmpty(str(host, "ip"), "unknown")
		for _, pv := range asSlice(host["ports"]) {
			port := asMap(pv)
			portNum := intval(port, "port")
			raw := map[string]any{"ip": ip}
			for k, val := range port {
				raw[k] = val
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Open Port: %d (%s)", portNum, nonEmpty(str(port, "proto"), "tcp")),
				Description: fmt.Sprintf("Port %d is open on %s", portNum, ip),
				Severity:    schemas.SeverityInfo,
				Tool:        "masscan",
				Asset:       fmt.Sprintf("%s:%d", ip, portNum),
				RawData:     raw,
			})
		}
	}
	return findings
}
