package dismissal

import (
	"strings"
	"unicode"

	"github.com/valyala/bytebufferpool"
)

type Kind string

const (
	KindNotOut          Kind = "not_out"
	KindCaught          Kind = "caught"
	KindCaughtAndBowled Kind = "caught_and_bowled"
	KindStumped         Kind = "stumped"
	KindRunOut          Kind = "run_out"
	KindBowled          Kind = "bowled"
	KindLBW             Kind = "lbw"
	KindHitWicket       Kind = "hit_wicket"
	KindRetiredHurt     Kind = "retired_hurt"
	KindRetiredOut      Kind = "retired_out"
	KindOther           Kind = "other"
	KindUnknown         Kind = "unknown"
	KindMalformed       Kind = "malformed"
)

// Dismissal is the structured form of a scorecard dismissal string.
// Fielders holds the catcher, the keeper or the run-out fielders in the
// order they were written.
type Dismissal struct {
	Raw      string
	Kind     Kind
	Fielders []string
	Bowler   string
}

// Dismissed reports whether the batter's innings ended with a wicket.
func (d Dismissal) Dismissed() bool {
	switch d.Kind {
	case KindNotOut, KindRetiredHurt:
		return false
	}
	return true
}

// DirectRunOut is true when a single fielder effected the run out.
func (d Dismissal) DirectRunOut() bool {
	return d.Kind == KindRunOut && len(d.Fielders) == 1
}

var caughtAndBowled = []string{"c & b ", "c and b ", "c&b "}

var otherModes = []string{
	"obstructing the field",
	"handled the ball",
	"hit the ball twice",
	"timed out",
	"mankad",
}

// Parse never fails: text it cannot read comes back as KindUnknown, and
// a recognised mode with a missing name comes back as KindMalformed.
func Parse(raw string) Dismissal {
	text := normalize(raw)
	lower := asciiLower(text)
	d := Dismissal{Raw: raw}

	switch {
	case lower == "" || lower == "not out" || lower == "batting" || lower == "dnb" || lower == "did not bat" || lower == "yet to bat":
		d.Kind = KindNotOut
	case strings.HasPrefix(lower, "retired out"):
		d.Kind = KindRetiredOut
	case strings.HasPrefix(lower, "retired") || strings.HasPrefix(lower, "absent hurt"):
		d.Kind = KindRetiredHurt
	case strings.HasPrefix(lower, "run out"):
		d.Kind = KindRunOut
		d.Fielders = splitFielders(text[len("run out"):])
		if len(d.Fielders) == 0 {
			d.Kind = KindMalformed
		}
	case hasAnyPrefix(lower, caughtAndBowled...) || lower == "c & b" || lower == "c and b" || lower == "c&b":
		name := ""
		for _, prefix := range caughtAndBowled {
			if strings.HasPrefix(lower, prefix) {
				name = strings.TrimSpace(text[len(prefix):])
				break
			}
		}
		d.Kind = KindCaughtAndBowled
		d.Bowler = name
		if name == "" {
			d.Kind = KindMalformed
			break
		}
		d.Fielders = []string{name}
	case strings.HasPrefix(lower, "c "):
		d = parseFielderAndBowler(d, text[2:], KindCaught)
	case strings.HasPrefix(lower, "st "):
		d = parseFielderAndBowler(d, text[3:], KindStumped)
	case strings.HasPrefix(lower, "lbw"):
		d = parseBowlerOnly(d, text[3:], KindLBW)
	case strings.HasPrefix(lower, "hit wicket"):
		d = parseBowlerOnly(d, text[len("hit wicket"):], KindHitWicket)
	case strings.HasPrefix(lower, "hw "):
		d = parseBowlerOnly(d, text[2:], KindHitWicket)
	case strings.HasPrefix(lower, "b "):
		d.Kind = KindBowled
		d.Bowler = strings.TrimSpace(text[2:])
		if d.Bowler == "" {
			d.Kind = KindMalformed
		}
	case hasAnyPrefix(lower, otherModes...):
		d.Kind = KindOther
	default:
		d.Kind = KindUnknown
	}

	return d
}

// parseFielderAndBowler splits at the first " b " that follows a fielder
// token, so a bowler written with an initial ("c Dhoni b B Kumar") keeps it.
func parseFielderAndBowler(d Dismissal, rest string, kind Kind) Dismissal {
	fielder, bowler := rest, ""
	padded := " " + asciiLower(rest)
	idx := strings.Index(padded[1:], " b ")
	switch {
	case idx >= 0:
		idx++
	case strings.HasPrefix(padded, " b "):
		idx = 0
	}
	if idx >= 0 {
		fielder = rest[:max(idx-1, 0)]
		bowler = rest[idx+2:]
	}
	fielder = stripSubstitute(strings.TrimSpace(fielder))
	bowler = strings.TrimSpace(bowler)

	d.Kind = kind
	d.Bowler = bowler
	if fielder == "" {
		d.Kind = KindMalformed
		return d
	}
	d.Fielders = []string{fielder}
	return d
}

func parseBowlerOnly(d Dismissal, rest string, kind Kind) Dismissal {
	rest = strings.TrimSpace(rest)
	lower := asciiLower(rest)
	if strings.HasPrefix(lower, "b ") {
		rest = strings.TrimSpace(rest[2:])
	} else if lower == "b" {
		rest = ""
	}

	d.Kind = kind
	d.Bowler = rest
	if rest == "" && kind == KindLBW {
		d.Kind = KindMalformed
	}
	return d
}

// splitFielders reads "(Jadeja/Dhoni)", "Jadeja" or "sub (Jadeja)".
func splitFielders(rest string) []string {
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "(")
	rest = strings.TrimSuffix(rest, ")")
	rest = stripSubstitute(rest)

	parts := strings.FieldsFunc(rest, func(r rune) bool { return r == '/' || r == ',' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = stripSubstitute(strings.Trim(strings.TrimSpace(part), "()[]"))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func stripSubstitute(name string) string {
	lower := asciiLower(name)
	if strings.HasPrefix(lower, "sub ") || strings.HasPrefix(lower, "sub(") || strings.HasPrefix(lower, "sub[") {
		name = strings.TrimSpace(name[3:])
	}
	return strings.TrimSpace(strings.Trim(name, "()[]"))
}

// normalize drops keeper and captain markers and collapses whitespace.
func normalize(raw string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	space := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r == '†' || r == '*':
			continue
		case unicode.IsSpace(r):
			space = true
			continue
		}
		if space && buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		space = false
		_, _ = buf.WriteString(string(r))
	}
	return buf.String()
}

// asciiLower folds only A-Z so byte offsets found in the result are valid
// in the input. strings.ToLower may change the length of non-ASCII runes.
func asciiLower(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= 'A' && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if b[j] >= 'A' && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
