// Package format renders prices and dates for templates.
package format

import (
	"fmt"
	"strings"
	"time"
)

// CAD formats a dollar amount for display. English locales get "$1,049.00",
// French gets "1 049,00 $".
func CAD(amount float64, lang string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	// round to cents before splitting
	cents := int64(amount*100 + 0.5)
	major := cents / 100
	minor := cents % 100

	switch strings.ToLower(lang) {
	case "fr":
		s := fmt.Sprintf("%s,%02d $", groupThousands(major, " "), minor)
		if neg {
			return "-" + s
		}
		return s
	default:
		s := fmt.Sprintf("$%s.%02d", groupThousands(major, ","), minor)
		if neg {
			return "-" + s
		}
		return s
	}
}

func groupThousands(n int64, sep string) string {
	s := fmt.Sprintf("%d", n)
	var out strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out.WriteString(sep)
		}
		out.WriteRune(c)
	}
	return out.String()
}

// Date formats time in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "fr":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// DateString formats a backend timestamp string. Unparseable values are
// returned as-is so the page still renders.
func DateString(s, lang string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Date(t, lang)
		}
	}
	return s
}
