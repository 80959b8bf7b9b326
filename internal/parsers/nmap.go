package parsers

import (
	"fmt"
	"strings"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

type nmapParser struct{}

func (nmapParser) Info() schemas.ParserInfo {
	return schemas.ParserInfo{
		Name:        "nmap",
		DisplayName: "Nmap",
		Category:    schemas.CategoryNetwork,
		FileTypes:   []string{"xml", "json"},
		Description: "Nmap network discovery and security auditing",
	}
}

func (nmapParser) Detect(content, _ string) bool {
	lower := strings.ToLower(content)
	return strings.Contains(lower, "nmap") || strings.Contains(lower, "nmaprun") ||
		(strings.Contains(content, "<host") && strings.Contains(content, "<port"))
}

func (p nmapParser) Parse(content, _ string) []schemas.ParsedFinding {
	if strings.HasPrefix(strings.TrimSpace(content), "<") {
		return p.parseXML(content)
	}
	return p.parseJSON(content)
}

func (p nmapParser) parseXML(content string) []schemas.ParsedFinding {
	root := parseXML(content)
	if root == nil {
		return nil
	}
	var findings []schemas.ParsedFinding
	for _, host := range root.findAll("host") {
		addr := "unknown"
		if addrEl := host.find("address"); addrEl != nil {
			addr = nonEmpty(addrEl.attr("addr"), "unknown")
		}
		hostname := ""
		if hostnames := host.find("hostnames"); hostnames != nil {
			if hn := hostnames.find("hostname"); hn != nil {
				hostname = hn.attr("name")
			}
		}
		for _, port := range host.findAll("port") {
			state := port.find("state")
			if state == nil || state.attr("state") != "open" {
				continue
			}
			serviceName, product, version := "unknown", "", ""
			if service := port.find("service"); service != nil {
				serviceName = nonEmpty(service.attr("name"), "unknown")
				product = service.attr("product")
				version = service.attr("version")
			}
			portID := port.attr("portid")
			for _, script := range port.findAll("script") {
				output := script.attr("output")
				if strings.Contains(strings.ToUpper(output), "VULNERABLE") ||
					strings.Contains(strings.ToLower(script.attr("id")), "vuln") {
					findings = append(findings, schemas.ParsedFinding{
						Title:       fmt.Sprintf("Vulnerability: %s", nonEmpty(script.attr("id"), "Unknown")),
						Description: truncate(output, 500),
						Severity:    p.inferSeverity(output),
						Tool:        "nmap",
						Asset:       fmt.Sprintf("%s:%s", addr, portID),
						RawData:     map[string]any{"script": script.attr("id"), "host": addr, "port": portID},
					})
				}
			}
			desc := fmt.Sprintf("Port %s is open", portID)
			if product != "" {
				desc = strings.TrimSpace(fmt.Sprintf("Service: %s %s", product, version))
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Open Port: %s (%s)", portID, serviceName),
				Description: desc,
				Severity:    schemas.SeverityInfo,
				Tool:        "nmap",
				Asset:       fmt.Sprintf("%s:%s", nonEmpty(hostname, addr), portID),
				RawData:     map[string]any{"host": addr, "hostname": hostname, "port": portID, "service": serviceName},
			})
		}
	}
	return findings
}

func (nmapParser) parseJSON(content string) []schemas.ParsedFinding {
	data, ok := decodeObject(content)
	if !ok {
		return nil
	}
	hosts := asSlice(data["hosts"])
	if hosts == nil {
		hostVal := asMap(data["nmaprun"])["host"]
		if hosts = asSlice(hostVal); hosts == nil && hostVal != nil {
			hosts = []any{hostVal}
		}
	}
	var findings []schemas.ParsedFinding
	for _, hv := range hosts {
		h := asMap(hv)
		addr := nonEmpty(str(asMap(h["address"]), "addr"), nonEmpty(str(h, "ip"), "unknown"))
		for _, pv := range asSlice(asMap(h["ports"])["port"]) {
			port := asMap(pv)
			if str(asMap(port["state"]), "state") != "open" {
				continue
			}
			portID := toString(port["portid"])
			raw := map[string]any{"host": addr}
			for k, val := range port {
				raw[k] = val
			}
			findings = append(findings, schemas.ParsedFinding{
				Title:       fmt.Sprintf("Open Port: %s", portID),
				Description: fmt.Sprintf("Service: %s", nonEmpty(str(asMap(port["service"]), "name"), "unknown")),
				Severity:    schemas.SeverityInfo,
				Tool:        "nmap",
				Asset:       fmt.Sprintf("%s:%s", addr, portID),
				RawData:     raw,
			})
		}
	}
	return findings
}

func (nmapParser) inferSeverity(output string) schemas.Severity {
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "critical") || strings.Contains(lower, "rce"):
		return schemas.SeverityCritical
	case strings.Contains(lower, "high") || strings.Contains(lower, "vulnerable"):
		return schemas.SeverityHigh
	case strings.Contains(lower, "medium"):
		return schemas.SeverityMedium
	}
	return schemas.SeverityLow
}
