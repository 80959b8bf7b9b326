// Package parsers normalizes heterogeneous security-scanner output into the
// unified finding shape. Each supported scanner has one adapter implementing
// the Parser interface; adapters are registered into a process-wide registry
// at init and resolved either by explicit name or by content auto-detection.
package parsers

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/djvirus9/secops-dashboard/api/schemas"
)

// json handles the decode-heavy path through the adapters. The compatible
// config keeps behavior identical to encoding/json for the loose map shapes
// scanner output decodes into.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sentinel errors for parser resolution. Parsing itself never fails: a
// malformed document yields zero findings, which is valid output.
var (
	// ErrUnknownParser means the caller named a parser that is not registered.
	ErrUnknownParser = errors.New("unknown parser")
	// ErrNoParserDetected means auto-detection exhausted every registered
	// parser without a match. The remedy is an explicit name, or one of the
	// generic-json / generic-csv fallbacks.
	ErrNoParserDetected = errors.New("no parser detected for content")
)

// Parser is the capability set every scanner adapter implements. Adapters are
// stateless; one shared instance serves all goroutines.
type Parser interface {
	// Info returns the adapter's static metadata.
	Info() schemas.ParserInfo

	// Detect reports whether content looks like this scanner's output. It is
	// cheap, side-effect-free and advisory: it must return false rather than
	// fail on foreign content. False positives and negatives are tolerated;
	// auto-detection is best-effort, first match wins.
	Detect(content, filename string) bool

	// Parse extracts normalized findings from content. Parse is total: it
	// never panics or reports an error, and returns whatever findings it
	// could extract from arbitrary (possibly malformed) input. Partial
	// success is the norm.
	Parse(content, filename string) []schemas.ParsedFinding
}

// Get returns the parser registered under name, or ErrUnknownParser.
func Get(name string) (Parser, error) {
	p, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParser, name)
	}
	return p, nil
}

// Detect probes registered parsers in registration order and returns the
// first whose Detect accepts the content. Registration order is fixed by the
// builtin list in registry.go, so detection is deterministic when several
// parsers structurally overlap.
func Detect(content, filename string) (Parser, error) {
	for _, p := range ordered {
		if p.Detect(content, filename) {
			return p, nil
		}
	}
	return nil, ErrNoParserDetected
}

// Parse is the single dispatch entry point: it resolves a parser by explicit
// name when one is given, otherwise by auto-detection, and returns the
// findings the parser extracted. The only failure modes are resolution
// errors; malformed scanner output is absorbed inside the adapters.
func Parse(content, parserName, filename string) ([]schemas.ParsedFinding, error) {
	var (
		p   Parser
		err error
	)
	if parserName != "" {
		p, err = Get(parserName)
	} else {
		p, err = Detect(content, filename)
	}
	if err != nil {
		return nil, err
	}
	return p.Parse(content, filename), nil
}

// List enumerates the metadata of every registered parser in registration order.
func List() []schemas.ParserInfo {
	infos := make([]schemas.ParserInfo, 0, len(ordered))
	for _, p := range ordered {
		infos = append(infos, p.Info())
	}
	return infos
}

// ListByCategory filters List down to one scanner category.
func ListByCategory(c schemas.Category) []schemas.ParserInfo {
	var infos []schemas.ParserInfo
	for _, p := range ordered {
		if info := p.Info(); info.Category == c {
			infos = append(infos, info)
		}
	}
	return infos
}
