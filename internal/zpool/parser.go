package zpool

import (
	"strings"
	"time"
)

// Result is the outcome of parsing one status report.
type Result struct {
	Pools       []*Pool
	Diagnostics []Diagnostic
}

// Option configures a parse.
type Option func(*options)

type options struct {
	location *time.Location
}

// WithLocation sets the time zone used to interpret scan completion
// timestamps. The default is time.Local, the zone zpool prints in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

// ParseOutput splits the captured output of zpool status into lines and
// parses them.
func ParseOutput(output string, opts ...Option) Result {
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Parse(lines, opts...)
}

// Parse builds the pool model from the lines of a zpool status report.
// It never fails: anything it cannot interpret is reported in
// Result.Diagnostics and the pools parsed so far are returned.
func Parse(lines []string, opts ...Option) Result {
	o := options{location: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	p := &parser{
		cur:  cursor{lines: lines},
		opts: o,
	}
	p.run()

	return Result{Pools: p.pools, Diagnostics: p.diags}
}

// parser carries the state of a single parse: the line cursor, the pools
// accumulated so far and the diagnostics sink.
type parser struct {
	cur   cursor
	opts  options
	pools []*Pool
	diags []Diagnostic
}

// current returns the pool the last pool: header opened, or nil.
func (p *parser) current() *Pool {
	if len(p.pools) == 0 {
		return nil
	}
	return p.pools[len(p.pools)-1]
}

func (p *parser) report(kind DiagnosticKind, line int, text, msg string) {
	p.diags = append(p.diags, Diagnostic{
		Kind:    kind,
		Line:    line,
		Text:    strings.TrimSpace(text),
		Message: msg,
	})
}

// decodeState decodes a drive or subpool state token, recording a
// diagnostic for tokens outside the vocabulary.
func (p *parser) decodeState(token string, line int) State {
	state, ok := DecodeState(token)
	if !ok {
		p.report(UnknownState, line, token, "unrecognized state keyword, assuming ONLINE")
	}
	return state
}

// run is the top-level dispatcher. It walks the report one section header
// at a time until input is exhausted or a line matches no section.
func (p *parser) run() {
	for !p.cur.done() {
		line := p.cur.current()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			p.cur.advance(1)

		case strings.HasPrefix(trimmed, "pool:"):
			p.pools = append(p.pools, &Pool{Name: sectionValue(trimmed)})
			p.cur.advance(1)

		case strings.HasPrefix(trimmed, "state:"):
			if !p.requirePool(line) {
				return
			}
			p.parsePoolState(trimmed)
			p.cur.advance(1)

		case strings.HasPrefix(trimmed, "scan:"):
			if !p.requirePool(line) {
				return
			}
			p.parseScan()

		case strings.HasPrefix(trimmed, "config:"):
			if !p.requirePool(line) {
				return
			}
			p.cur.advance(1)
			p.parseConfig()

		case strings.HasPrefix(trimmed, "errors:"):
			p.cur.advance(1)

		case isProseSection(trimmed):
			p.cur.advance(1)
			p.skipContinuation()

		default:
			p.report(UnexpectedLine, p.cur.lineNo(), line, "line does not start a known section")
			return
		}
	}
}

// requirePool records an anomaly when a pool section appears before any
// pool: header.
func (p *parser) requirePool(line string) bool {
	if p.current() != nil {
		return true
	}
	p.report(UnexpectedLine, p.cur.lineNo(), line, "section before any pool: header")
	return false
}

func (p *parser) parsePoolState(trimmed string) {
	token := sectionValue(trimmed)
	state, ok := decodePoolState(token)
	if !ok {
		p.report(UnknownState, p.cur.lineNo(), token, "unrecognized pool state, assuming ONLINE")
	}
	p.current().State = state
}

// isProseSection matches the free-text headers zpool prints for unhealthy
// pools. Their bodies are not modeled.
func isProseSection(trimmed string) bool {
	for _, prefix := range []string{"status:", "action:", "see:", "remove:", "checkpoint:"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// skipContinuation consumes the tab-indented continuation lines of a prose
// or scan section.
func (p *parser) skipContinuation() {
	for !p.cur.done() {
		line := p.cur.current()
		if isBlank(line) || !strings.HasPrefix(line, "\t") {
			return
		}
		p.cur.advance(1)
	}
}

// sectionValue returns the text after the first colon, trimmed.
func sectionValue(trimmed string) string {
	_, value, _ := strings.Cut(trimmed, ":")
	return strings.TrimSpace(value)
}
