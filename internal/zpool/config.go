package zpool

import "strings"

// indentWidth is the number of columns zpool indents each tree level by.
const indentWidth = 2

// indentLevel returns the tree depth of a config line relative to base,
// the indentation of the NAME header row.
func indentLevel(line string, base int) int {
	d := leadingSpace(line) - base
	level := d / indentWidth
	if d%indentWidth != 0 && d < 0 {
		level--
	}
	return level
}

// parseConfig builds the subpool/drive tree of the current pool from the
// lines following a config: header. It stops on the errors: line, which is
// left for the dispatcher, or at end of input.
func (p *parser) parseConfig() {
	pool := p.current()
	if pool == nil {
		panic("zpool: config section parsed without a current pool")
	}

	base := 0
	for !p.cur.done() {
		line := p.cur.current()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "errors:"):
			return

		case trimmed == "":
			p.cur.advance(1)

		case strings.HasPrefix(trimmed, "NAME"):
			base = leadingSpace(line)
			p.cur.advance(1)

		case indentLevel(line, base) == 0:
			if !p.parseRootEntry(pool, line, trimmed, base) {
				return
			}

		case indentLevel(line, base) == 1:
			if !p.parseSubpool(pool, line, trimmed, base) {
				return
			}

		default:
			p.report(UnexpectedLine, p.cur.lineNo(), line, "config line outside any subpool")
			p.cur.advance(1)
			return
		}
	}
}

// parseRootEntry handles a level-0 config line: the pool's own row or the
// spares header.
func (p *parser) parseRootEntry(pool *Pool, line, trimmed string, base int) bool {
	switch {
	case trimmed == "spares" || strings.HasPrefix(trimmed, "spares "):
		p.cur.advance(1)
		p.parseSpares(pool, base)
		return true

	case firstField(trimmed) == pool.Name:
		p.cur.advance(1)
		return true

	default:
		p.report(UnexpectedLine, p.cur.lineNo(), line, "unrecognized top-level config entry")
		p.cur.advance(1)
		return false
	}
}

// parseSubpool handles a level-1 config line and the drives nested under it.
func (p *parser) parseSubpool(pool *Pool, line, trimmed string, base int) bool {
	fields := strings.Fields(trimmed)
	lineNo := p.cur.lineNo()

	typ, ok := subpoolType(fields[0])
	if !ok {
		// A bare drive at level 1 is a single-device top-level vdev. An
		// unknown group type is recognizable by the members nested under it.
		if len(fields) < 2 || p.hasNestedMembers(base) {
			p.report(UnexpectedLine, lineNo, line, "unrecognized subpool entry")
			p.cur.advance(1)
			return false
		}
		state, known := DecodeState(fields[1])
		if !known {
			p.report(UnexpectedLine, lineNo, line, "unrecognized subpool entry")
			p.cur.advance(1)
			return false
		}
		pool.Subpools = append(pool.Subpools, Subpool{
			Name:   fields[0],
			Type:   SubpoolDisk,
			State:  state,
			Drives: []Drive{{Name: fields[0], State: state}},
		})
		p.report(SingleDriveVdev, lineNo, fields[0], "bare drive at subpool level, treated as a single-drive subpool")
		p.cur.advance(1)
		return true
	}

	sub := Subpool{Name: fields[0], Type: typ}
	if len(fields) > 1 {
		sub.State = p.decodeState(fields[1], lineNo)
	}
	p.cur.advance(1)

	for !p.cur.done() {
		l := p.cur.current()
		if isBlank(l) || indentLevel(l, base) < 2 {
			break
		}
		sub.Drives = append(sub.Drives, p.parseDrive(l, false))
		p.cur.advance(1)
	}

	pool.Subpools = append(pool.Subpools, sub)
	return true
}

func (p *parser) hasNestedMembers(base int) bool {
	next, ok := p.cur.peek(1)
	return ok && !isBlank(next) && indentLevel(next, base) >= 2
}

// parseSpares collects the level-1 drive lines under a spares header. A
// blank line ends the list and is consumed; a shallower line ends it and is
// left for the caller.
func (p *parser) parseSpares(pool *Pool, base int) {
	for !p.cur.done() {
		line := p.cur.current()
		if isBlank(line) {
			p.cur.advance(1)
			return
		}

		switch level := indentLevel(line, base); {
		case level < 1:
			return
		case level == 1:
			pool.Spares = append(pool.Spares, p.parseDrive(line, true))
			p.cur.advance(1)
		default:
			p.report(UnexpectedLine, p.cur.lineNo(), line, "spare line nested too deep")
			return
		}
	}
}

// parseDrive reads "<name> <state> ..." from a drive row.
func (p *parser) parseDrive(line string, spare bool) Drive {
	fields := strings.Fields(line)
	d := Drive{Name: fields[0], Spare: spare, State: StateOnline}
	if len(fields) < 2 {
		p.report(UnknownState, p.cur.lineNo(), line, "drive row has no state, assuming ONLINE")
		return d
	}
	d.State = p.decodeState(fields[1], p.cur.lineNo())
	return d
}

// subpoolType matches a vdev name such as "raidz2-0" or "mirror-1".
// raidz2 is tested first since raidz is its prefix.
func subpoolType(name string) (SubpoolType, bool) {
	switch {
	case strings.HasPrefix(name, "raidz2"):
		return SubpoolRaidz2, true
	case strings.HasPrefix(name, "raidz"):
		return SubpoolRaidz, true
	case strings.HasPrefix(name, "mirror"):
		return SubpoolMirror, true
	default:
		return 0, false
	}
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
