package semver

import (
	"regexp"
	"strconv"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// comparator is one primitive bound of a range alternative, such as
// ">=1.2.3-beta.1" or "<2.0.0-0".
type comparator struct {
	op string // one of <, <=, >, >=, =
	v  *mm.Version
}

func (c comparator) test(v *mm.Version) bool {
	n := v.Compare(c.v)
	switch c.op {
	case "<":
		return n < 0
	case "<=":
		return n <= 0
	case ">":
		return n > 0
	case ">=":
		return n >= 0
	}
	return n == 0
}

var (
	opPattern      = regexp.MustCompile(`^(<=|>=|<|>|=|~>|~|\^)?`)
	partialPattern = regexp.MustCompile(`^v?(\d+|[xX*])(?:\.(\d+|[xX*]))?(?:\.(\d+|[xX*]))?(?:-([0-9A-Za-z.-]+))?(?:\+[0-9A-Za-z.-]+)?$`)
)

// partial is a version whose trailing parts may be missing or wildcards.
// parts counts the concrete leading parts; pre is kept only when all three
// are concrete.
type partial struct {
	major, minor, patch uint64
	parts               int
	pre                 string
}

func parsePartial(s string) (partial, bool) {
	if s == "" {
		return partial{}, true
	}
	m := partialPattern.FindStringSubmatch(s)
	if m == nil {
		return partial{}, false
	}
	var p partial
	nums := []*uint64{&p.major, &p.minor, &p.patch}
	for i, n := range nums {
		part := m[i+1]
		if part == "" || part == "x" || part == "X" || part == "*" {
			break
		}
		v, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return partial{}, false
		}
		*n = v
		p.parts++
	}
	if p.parts == 3 {
		p.pre = m[4]
	}
	return p, true
}

func ver(major, minor, patch uint64, pre string) *mm.Version {
	return mm.New(major, minor, patch, pre, "")
}

func anyVersion() []comparator {
	return []comparator{{">=", ver(0, 0, 0, "")}}
}

func noVersion() []comparator {
	return []comparator{{"<", ver(0, 0, 0, "0")}}
}

// parseAlternatives expands every "||" alternative of raw into primitive
// comparators, desugaring caret, tilde, x-ranges and hyphen ranges the way
// npm does. Upper bounds carry a "-0" pre-release so pre-releases of the
// excluded version stay excluded.
func parseAlternatives(raw string) ([][]comparator, bool) {
	var alts [][]comparator
	for _, alt := range strings.Split(raw, "||") {
		cs, ok := parseAlternative(alt)
		if !ok {
			return nil, false
		}
		alts = append(alts, cs)
	}
	return alts, true
}

func parseAlternative(s string) ([]comparator, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return anyVersion(), true
	}
	if len(fields) == 3 && fields[1] == "-" {
		return hyphenRange(fields[0], fields[2])
	}

	var out []comparator
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		// "> 1.2.3" is written with a space after the operator.
		if opPattern.FindString(tok) == tok && i+1 < len(fields) {
			i++
			tok += fields[i]
		}
		cs, ok := parseComparator(tok)
		if !ok {
			return nil, false
		}
		out = append(out, cs...)
	}
	return out, true
}

func parseComparator(tok string) ([]comparator, bool) {
	op := opPattern.FindString(tok)
	p, ok := parsePartial(tok[len(op):])
	if !ok {
		return nil, false
	}
	switch op {
	case "^":
		return caretRange(p), true
	case "~", "~>":
		return tildeRange(p), true
	}
	return primitive(op, p), true
}

func hyphenRange(lo, hi string) ([]comparator, bool) {
	from, ok := parsePartial(lo)
	if !ok {
		return nil, false
	}
	to, ok := parsePartial(hi)
	if !ok {
		return nil, false
	}

	var out []comparator
	if from.parts > 0 {
		out = append(out, comparator{">=", ver(from.major, from.minor, from.patch, from.pre)})
	}
	switch to.parts {
	case 1:
		out = append(out, comparator{"<", ver(to.major+1, 0, 0, "0")})
	case 2:
		out = append(out, comparator{"<", ver(to.major, to.minor+1, 0, "0")})
	case 3:
		out = append(out, comparator{"<=", ver(to.major, to.minor, to.patch, to.pre)})
	}
	if len(out) == 0 {
		return anyVersion(), true
	}
	return out, true
}

func tildeRange(p partial) []comparator {
	switch p.parts {
	case 0:
		return anyVersion()
	case 1:
		return []comparator{{">=", ver(p.major, 0, 0, "")}, {"<", ver(p.major+1, 0, 0, "0")}}
	}
	return []comparator{{">=", ver(p.major, p.minor, p.patch, p.pre)}, {"<", ver(p.major, p.minor+1, 0, "0")}}
}

func caretRange(p partial) []comparator {
	lo := comparator{">=", ver(p.major, p.minor, p.patch, p.pre)}
	switch {
	case p.parts == 0:
		return anyVersion()
	case p.parts == 1:
		return []comparator{lo, {"<", ver(p.major+1, 0, 0, "0")}}
	case p.major != 0:
		return []comparator{lo, {"<", ver(p.major+1, 0, 0, "0")}}
	case p.parts == 2 || p.minor != 0:
		return []comparator{lo, {"<", ver(0, p.minor+1, 0, "0")}}
	}
	return []comparator{lo, {"<", ver(0, 0, p.patch+1, "0")}}
}

// primitive handles plain and operator comparators, filling in wildcard
// parts: ">1.2" means ">=1.3.0" and "<=1" means "<2.0.0-0".
func primitive(op string, p partial) []comparator {
	if p.parts == 3 {
		if op == "" {
			op = "="
		}
		return []comparator{{op, ver(p.major, p.minor, p.patch, p.pre)}}
	}
	if p.parts == 0 {
		if op == "<" || op == ">" {
			return noVersion()
		}
		return anyVersion()
	}

	lo := ver(p.major, p.minor, 0, "")
	next := ver(p.major+1, 0, 0, "0")
	if p.parts == 2 {
		next = ver(p.major, p.minor+1, 0, "0")
	}
	switch op {
	case ">":
		return []comparator{{">=", ver(next.Major(), next.Minor(), 0, "")}}
	case ">=":
		return []comparator{{">=", lo}}
	case "<":
		return []comparator{{"<", ver(p.major, p.minor, 0, "0")}}
	case "<=":
		return []comparator{{"<", next}}
	}
	return []comparator{{">=", lo}, {"<", next}}
}

// allowsPrerelease reports whether v may match alt at all: a pre-release
// only matches when a comparator of the same alternative carries a
// pre-release on the same major.minor.patch.
func allowsPrerelease(alt []comparator, v *mm.Version) bool {
	for _, c := range alt {
		if c.v.Prerelease() != "" &&
			c.v.Major() == v.Major() && c.v.Minor() == v.Minor() && c.v.Patch() == v.Patch() {
			return true
		}
	}
	return false
}

func matchesAll(alt []comparator, v *mm.Version) bool {
	for _, c := range alt {
		if !c.test(v) {
			return false
		}
	}
	return true
}
