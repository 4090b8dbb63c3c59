package zpool

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// scanTimeLayout is the layout of the "on ..." completion clause after
// whitespace has been collapsed ("Mon Jan  2" becomes "Mon Jan 2").
const scanTimeLayout = "Mon Jan 2 15:04:05 2006"

var remainingPattern = regexp.MustCompile(`([0-9]+) days ([0-9]+):([0-9]+):([0-9]+)`)

// parseScan interprets a scan: block and advances the cursor past it,
// including any tab-indented progress lines it does not read.
func (p *parser) parseScan() {
	pool := p.current()
	if pool == nil {
		panic("zpool: scan section parsed without a current pool")
	}

	header := p.cur.current()
	headerLine := p.cur.lineNo()
	text := sectionValue(strings.TrimSpace(header))

	switch {
	case strings.HasPrefix(text, "scrub"):
		if strings.Contains(text, "in progress") {
			p.parseScrubProgress(pool)
			return
		}
		if isFinished(text) {
			pool.Scrubbing = false
			if ts, ok := p.completionTime(text, headerLine); ok {
				pool.LastScrub = ts
			}
		}

	case strings.HasPrefix(text, "resilver"):
		if strings.Contains(text, "in progress") {
			p.parseResilverProgress(pool, text, headerLine)
			return
		}
		if isFinished(text) {
			pool.Resilvering = false
			if ts, ok := p.completionTime(text, headerLine); ok {
				pool.LastResilver = ts
			}
		}
	}

	p.cur.advance(1)
	p.skipContinuation()
}

// isFinished reports whether a scan line describes a finished operation.
// OpenZFS words a finished resilver as "resilvered ... on <date>".
func isFinished(text string) bool {
	return strings.Contains(text, "completed") ||
		strings.Contains(text, "repaired") ||
		strings.Contains(text, "resilvered")
}

// parseScrubProgress reads the three-line in-progress scrub block. The
// remaining time is on the third line.
func (p *parser) parseScrubProgress(pool *Pool) {
	pool.Scrubbing = true

	progress, ok := p.cur.peek(2)
	if !ok {
		p.report(TruncatedSection, p.cur.lineNo(), p.cur.current(), "scrub progress block ends early")
		p.cur.advance(p.cur.remaining())
		return
	}

	if secs, ok := parseRemaining(lastField(progress)); ok {
		pool.ScrubRemaining = secs
	} else {
		p.report(BadScanField, p.cur.lineNo()+2, progress, "unparseable scrub time remaining")
	}
	p.cur.advance(3)
	p.skipContinuation()
}

// parseResilverProgress reads the remaining time from the header's last
// clause. OpenZFS prints it two lines below instead, as it does for
// scrubs; that layout is accepted as well.
func (p *parser) parseResilverProgress(pool *Pool, text string, headerLine int) {
	pool.Resilvering = true

	if secs, ok := parseRemaining(lastField(text)); ok {
		pool.ResilverRemaining = secs
		p.cur.advance(1)
		p.skipContinuation()
		return
	}

	if progress, ok := p.cur.peek(2); ok && strings.Contains(progress, "to go") {
		if secs, ok := parseRemaining(lastField(progress)); ok {
			pool.ResilverRemaining = secs
			p.cur.advance(3)
			p.skipContinuation()
			return
		}
	}

	p.report(BadScanField, headerLine, text, "unparseable resilver time remaining")
	p.cur.advance(1)
	p.skipContinuation()
}

// completionTime parses the timestamp after the last " on " of a finished
// scan line.
func (p *parser) completionTime(text string, line int) (int64, bool) {
	idx := strings.LastIndex(text, " on ")
	if idx < 0 {
		p.report(BadScanField, line, text, "scan completion time missing")
		return 0, false
	}

	stamp := strings.Join(strings.Fields(text[idx+len(" on "):]), " ")
	t, err := time.ParseInLocation(scanTimeLayout, stamp, p.opts.location)
	if err != nil {
		p.report(BadScanField, line, stamp, "unparseable scan completion time: "+err.Error())
		return 0, false
	}
	return t.Unix(), true
}

// lastField returns the last comma-separated clause of a line, trimmed.
func lastField(line string) string {
	fields := strings.Split(strings.TrimSpace(line), ", ")
	return strings.TrimSpace(fields[len(fields)-1])
}

// parseRemaining converts "<d> days <HH>:<MM>:<SS> to go" to seconds.
func parseRemaining(clause string) (int64, bool) {
	clause = strings.TrimSpace(strings.TrimSuffix(clause, "to go"))
	m := remainingPattern.FindStringSubmatch(clause)
	if m == nil {
		return 0, false
	}

	var parts [4]int64
	for i := range parts {
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, false
		}
		parts[i] = n
	}
	return parts[0]*86400 + parts[1]*3600 + parts[2]*60 + parts[3], true
}
