package value

import (
	"strconv"
	"strings"
	"time"

	"github.com/reifydb/reifydb/internal/diagnostic"
)

// ParseDuration parses an ISO-8601 duration literal (P1Y2M3DT4H5M6S) into a
// time.Duration, following the grammar and error taxonomy in spec §7
// ("Temporal errors"), grounded on original_source's
// value/temporal/parse/duration.rs. Years/months are approximated as 365
// and 30 days respectively, matching the original's month->day folding at
// the duration (not calendar) level.
func ParseDuration(text string) (time.Duration, error) {
	frag := diagnostic.SpanFragment(text, 0, 0)

	if len(text) == 1 || !strings.HasPrefix(text, "P") || text == "PT" {
		return 0, diagnostic.InvalidDurationFormat(frag)
	}

	runes := []rune(text)
	pos := 1 // skip 'P'

	var months, days int64
	var nanos int64
	var current strings.Builder
	inTimePart := false

	seenDate := map[byte]bool{}
	seenTime := map[byte]bool{}
	var lastDateOrder, lastTimeOrder int

	checkOrder := func(component byte, seen map[byte]bool, lastOrder *int, order int, position int) error {
		if seen[component] {
			return diagnostic.DuplicateDurationComponent(frag.SubFragment(position, 1), component)
		}
		if order <= *lastOrder {
			return diagnostic.OutOfOrderDurationComponent(frag.SubFragment(position, 1), component)
		}
		seen[component] = true
		*lastOrder = order
		return nil
	}

	for i := 1; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == 'T':
			inTimePart = true
			pos++
		case c >= '0' && c <= '9' || c == '.':
			current.WriteRune(c)
			pos++
		case c == 'Y':
			if inTimePart {
				return 0, diagnostic.InvalidUnitInContext(frag.SubFragment(pos, 1), 'Y', true)
			}
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if strings.Contains(current.String(), ".") {
				return 0, diagnostic.InvalidDurationCharacter(frag.SubFragment(pos-current.Len()+strings.Index(current.String(), "."), 1))
			}
			if err := checkOrder('Y', seenDate, &lastDateOrder, 1, pos); err != nil {
				return 0, err
			}
			years, err := strconv.ParseInt(current.String(), 10, 32)
			if err != nil {
				return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'Y')
			}
			days += years * 365
			current.Reset()
			pos++
		case c == 'W':
			if inTimePart {
				return 0, diagnostic.InvalidUnitInContext(frag.SubFragment(pos, 1), 'W', true)
			}
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if err := checkOrder('W', seenDate, &lastDateOrder, 2, pos); err != nil {
				return 0, err
			}
			weeks, err := strconv.ParseInt(current.String(), 10, 32)
			if err != nil {
				return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'W')
			}
			days += weeks * 7
			current.Reset()
			pos++
		case c == 'D':
			if inTimePart {
				return 0, diagnostic.InvalidUnitInContext(frag.SubFragment(pos, 1), 'D', true)
			}
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if err := checkOrder('D', seenDate, &lastDateOrder, 3, pos); err != nil {
				return 0, err
			}
			d, err := strconv.ParseInt(current.String(), 10, 32)
			if err != nil {
				return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'D')
			}
			days += d
			current.Reset()
			pos++
		case c == 'H':
			if !inTimePart {
				return 0, diagnostic.InvalidUnitInContext(frag.SubFragment(pos, 1), 'H', false)
			}
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if err := checkOrder('H', seenTime, &lastTimeOrder, 1, pos); err != nil {
				return 0, err
			}
			h, err := strconv.ParseFloat(current.String(), 64)
			if err != nil {
				return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'H')
			}
			nanos += int64(h * float64(time.Hour))
			current.Reset()
			pos++
		case c == 'M':
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if inTimePart {
				if err := checkOrder('M', seenTime, &lastTimeOrder, 2, pos); err != nil {
					return 0, err
				}
				m, err := strconv.ParseFloat(current.String(), 64)
				if err != nil {
					return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'M')
				}
				nanos += int64(m * float64(time.Minute))
			} else {
				if err := checkOrder('M', seenDate, &lastDateOrder, 2, pos); err != nil {
					return 0, err
				}
				m, err := strconv.ParseInt(current.String(), 10, 32)
				if err != nil {
					return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'M')
				}
				months += m
			}
			current.Reset()
			pos++
		case c == 'S':
			if !inTimePart {
				return 0, diagnostic.InvalidUnitInContext(frag.SubFragment(pos, 1), 'S', false)
			}
			if current.Len() == 0 {
				return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
			}
			if err := checkOrder('S', seenTime, &lastTimeOrder, 3, pos); err != nil {
				return 0, err
			}
			s, err := strconv.ParseFloat(current.String(), 64)
			if err != nil {
				return 0, diagnostic.InvalidDurationComponentValue(frag.SubFragment(pos-current.Len(), current.Len()), 'S')
			}
			nanos += int64(s * float64(time.Second))
			current.Reset()
			pos++
		default:
			return 0, diagnostic.InvalidDurationCharacter(frag.SubFragment(pos, 1))
		}
	}

	if current.Len() > 0 {
		return 0, diagnostic.IncompleteDuration(frag.SubFragment(pos, 1))
	}
	if len(seenDate) == 0 && len(seenTime) == 0 {
		return 0, diagnostic.InvalidDurationFormat(frag)
	}

	const daysInMonth = 30
	total := time.Duration(months)*daysInMonth*24*time.Hour + time.Duration(days)*24*time.Hour + time.Duration(nanos)
	return total, nil
}
