package graph

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned for lexical forms that are not a
// day-time xsd:duration.
var ErrInvalidDuration = errors.New("invalid xsd:duration")

// FormatDuration renders d as an xsd:duration lexical form such as
// "PT1H30M" or "-PT0.5S". Days are folded into hours.
func FormatDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}

	var sb strings.Builder
	u := uint64(d)
	if d < 0 {
		sb.WriteByte('-')
		u = uint64(-(d + 1)) + 1
	}
	sb.WriteString("PT")

	hours := u / uint64(time.Hour)
	u %= uint64(time.Hour)
	minutes := u / uint64(time.Minute)
	u %= uint64(time.Minute)
	seconds := u / uint64(time.Second)
	nanos := u % uint64(time.Second)

	if hours > 0 {
		sb.WriteString(strconv.FormatUint(hours, 10))
		sb.WriteByte('H')
	}
	if minutes > 0 {
		sb.WriteString(strconv.FormatUint(minutes, 10))
		sb.WriteByte('M')
	}
	if seconds > 0 || nanos > 0 {
		sb.WriteString(strconv.FormatUint(seconds, 10))
		if nanos > 0 {
			frac := strings.TrimRight(fmt.Sprintf("%09d", nanos), "0")
			sb.WriteByte('.')
			sb.WriteString(frac)
		}
		sb.WriteByte('S')
	}
	return sb.String()
}

// ParseDuration parses an xsd:duration lexical form. Only the day-time
// subset is accepted: years and months have no fixed length. Fractional
// seconds beyond nanosecond precision are truncated.
func ParseDuration(s string) (time.Duration, error) {
	invalid := func(reason string) (time.Duration, error) {
		return 0, fmt.Errorf("%w: %q: %s", ErrInvalidDuration, s, reason)
	}

	rest, neg := strings.CutPrefix(s, "-")
	rest, ok := strings.CutPrefix(rest, "P")
	if !ok || rest == "" {
		return invalid("expected P followed by components")
	}
	datePart, timePart, hasTime := strings.Cut(rest, "T")
	if hasTime && timePart == "" {
		return invalid("T without time components")
	}

	var total time.Duration
	add := func(n int64, unit time.Duration) bool {
		if n > int64(math.MaxInt64/unit) {
			return false
		}
		d := time.Duration(n) * unit
		if total > math.MaxInt64-d {
			return false
		}
		total += d
		return true
	}

	if datePart != "" {
		num, designator, tail, ok := splitDurationComponent(datePart)
		if !ok || tail != "" {
			return invalid("malformed date component")
		}
		if designator != 'D' {
			return invalid("years and months are not supported")
		}
		n, err := strconv.ParseInt(num, 10, 64)
		if err != nil || !add(n, 24*time.Hour) {
			return invalid("bad day count")
		}
	}

	order := "HMS"
	for timePart != "" {
		num, designator, tail, ok := splitDurationComponent(timePart)
		if !ok {
			return invalid("malformed time component")
		}
		idx := strings.IndexByte(order, designator)
		if idx < 0 {
			return invalid(fmt.Sprintf("unexpected designator %q", designator))
		}
		order = order[idx+1:]
		timePart = tail

		switch designator {
		case 'H', 'M':
			n, err := strconv.ParseInt(num, 10, 64)
			unit := time.Hour
			if designator == 'M' {
				unit = time.Minute
			}
			if err != nil || !add(n, unit) {
				return invalid("bad " + string(designator) + " component")
			}
		case 'S':
			whole, frac, _ := strings.Cut(num, ".")
			secs, err := strconv.ParseInt(whole, 10, 64)
			if err != nil || !add(secs, time.Second) {
				return invalid("bad seconds")
			}
			if frac != "" {
				if len(frac) > 9 {
					frac = frac[:9]
				}
				frac += strings.Repeat("0", 9-len(frac))
				nanos, err := strconv.ParseInt(frac, 10, 64)
				if err != nil || !add(nanos, 1) {
					return invalid("bad fractional seconds")
				}
			}
		}
	}

	if neg {
		total = -total
	}
	return total, nil
}

// splitDurationComponent splits "12H30M" into "12", 'H' and "30M".
func splitDurationComponent(s string) (num string, designator byte, rest string, ok bool) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 || i == len(s) || s[0] == '.' {
		return "", 0, "", false
	}
	num = s[:i]
	if strings.Count(num, ".") > 1 || strings.HasSuffix(num, ".") {
		return "", 0, "", false
	}
	return num, s[i], s[i+1:], true
}
