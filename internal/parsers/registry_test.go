package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

func parserIndex(t *testing.T, name string) int {
	t.Helper()
	for i, info := range List() {
		if info.Name == name {
			return i
		}
	}
	t.Fatalf("parser %q not registered", name)
	return -1
}

func TestRegistryIsComplete(t *testing.T) {
	infos := List()
	require.NotEmpty(t, infos)

	seen := make(map[string]bool, len(infos))
	for _, info := range infos {
		assert.NotEmpty(t, info.Name)
		assert.NotEmpty(t, info.DisplayName)
		assert.NotEmpty(t, info.Category)
		assert.False(t, seen[info.Name], "duplicate parser name %q", info.Name)
		seen[info.Name] = true

		p, err := Get(info.Name)
		require.NoError(t, err)
		assert.Equal(t, info.Name, p.Info().Name)
	}
}

func TestGetUnknownParser(t *testing.T) {
	_, err := Get("no-such-scanner")
	assert.ErrorIs(t, err, ErrUnknownParser)
}

func TestDetectOrderIsStable(t *testing.T) {
	// The JSON catch-all must come after every specific JSON parser, and the
	// generic fallbacks must never participate in detection at all.
	sarifIdx := parserIndex(t, "sarif")
	jfrogIdx := parserIndex(t, "jfrog-unified")
	assert.Less(t, sarifIdx, jfrogIdx)

	total := len(List())
	assert.Equal(t, total-2, parserIndex(t, "generic-json"))
	assert.Equal(t, total-1, parserIndex(t, "generic-csv"))
}

func TestDetectFallsThroughToUnifiedJSON(t *testing.T) {
	p, err := Detect(`{"completely": "unrecognized", "but": "valid json"}`, "blob.json")
	require.NoError(t, err)
	assert.Equal(t, "jfrog-unified", p.Info().Name)
}

func TestDetectRejectsOpaqueContent(t *testing.T) {
	_, err := Detect("not structured output at all", "notes.txt")
	assert.ErrorIs(t, err, ErrNoParserDetected)
}

func TestGenericParsersNeverSelfDetect(t *testing.T) {
	assert.False(t, genericJSONParser{}.Detect(`{"findings": [{"title": "x"}]}`, "f.json"))
	assert.False(t, genericCSVParser{}.Detect("title,severity\nXSS,high\n", "f.csv"))
}

func TestDetectMasscanOverUnifiedJSON(t *testing.T) {
	content := `[{"ip": "10.0.0.5", "ports": [{"port": 443, "proto": "tcp", "status": "open"}]}]`
	p, err := Detect(content, "scan.json")
	require.NoError(t, err)
	assert.Equal(t, "masscan", p.Info().Name)
}

func TestParseDispatch(t *testing.T) {
	content := `{"findings": [{"title": "XSS", "severity": "high", "asset": "web"}]}`

	findings, err := Parse(content, "generic-json", "report.json")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "XSS", findings[0].Title)

	_, err = Parse(content, "no-such-scanner", "report.json")
	assert.ErrorIs(t, err, ErrUnknownParser)
}

// Every Parse must absorb malformed input and return zero or more findings,
// never panic.
func TestParseIsTotalOnMalformedInput(t *testing.T) {
	samples := []string{
		"",
		"{",
		`{"truncated": [`,
		"<?xml version=\"1.0\"?><unclosed>",
		"\x00\x01\xff binary garbage",
		"field1,field2\nunterminated \"quote",
		"[1, 2, 3]",
		"null",
	}
	for _, info := range List() {
		p, err := Get(info.Name)
		require.NoError(t, err)
		for _, sample := range samples {
			findings := p.Parse(sample, "input")
			for _, f := range findings {
				assert.NotEmpty(t, f.Title, "parser %s emitted an untitled finding", info.Name)
				assert.NotEmpty(t, f.Tool, "parser %s emitted a finding without tool", info.Name)
			}
		}
	}
}

// Detect must likewise never panic, whatever the input.
func TestDetectIsTotalOnMalformedInput(t *testing.T) {
	samples := []string{"", "{", "<?xml", "\xff\xfe", "a,b\n1"}
	for _, info := range List() {
		p, err := Get(info.Name)
		require.NoError(t, err)
		for _, sample := range samples {
			p.Detect(sample, "input")
		}
	}
}

func TestListByCategory(t *testing.T) {
	network := ListByCategory(schemas.CategoryNetwork)
	require.NotEmpty(t, network)
	for _, info := range network {
		assert.Equal(t, schemas.CategoryNetwork, info.Category)
	}

	assert.Empty(t, ListByCategory(schemas.Category("bogus")))
}
