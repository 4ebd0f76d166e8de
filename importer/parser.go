// Package importer turns pasted bank statement text into structured entries.
//
// Each useful line looks like
//
//	05/09/2025 - Ifood Delivery - R$ 1.045,90
//
// i.e. a DD/MM/YYYY date, a dash, a free-text description, a dash and a
// Brazilian-formatted amount. Lines that do not follow that shape are skipped.
package importer

import (
	"bufio"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const currencyMarker = "R$"

type Entry struct {
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// Parse returns the entries found in text, in input order. The sequence reads
// text lazily and only once: ranging over it a second time yields nothing.
func Parse(text string) iter.Seq[Entry] {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(nil, len(text)+bufio.MaxScanTokenSize)

	return func(yield func(Entry) bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			e, ok := ParseLine(line)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

func Collect(text string) []Entry {
	return slices.Collect(Parse(text))
}

// ParseLine parses a single statement line.
func ParseLine(line string) (Entry, bool) {
	l := &lexer{s: strings.TrimSpace(line)}

	date, ok := l.date()
	if !ok {
		return Entry{}, false
	}
	l.skipSpace()
	if !l.accept("-") {
		return Entry{}, false
	}

	// The description runs up to the last "- R$"; it may contain dashes itself.
	rest := l.rest()
	idx := strings.LastIndex(rest, currencyMarker)
	if idx < 0 {
		return Entry{}, false
	}
	head := strings.TrimRight(rest[:idx], " \t")
	if !strings.HasSuffix(head, "-") {
		return Entry{}, false
	}
	desc := strings.TrimSpace(strings.TrimSuffix(head, "-"))
	if desc == "" {
		return Entry{}, false
	}

	amount, ok := parseAmount(strings.TrimSpace(rest[idx+len(currencyMarker):]))
	if !ok {
		return Entry{}, false
	}

	return Entry{Description: desc, Amount: amount, Date: date}, true
}

type lexer struct {
	s   string
	pos int
}

func (l *lexer) rest() string { return l.s[l.pos:] }

func (l *lexer) skipSpace() {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t') {
		l.pos++
	}
}

func (l *lexer) accept(tok string) bool {
	if strings.HasPrefix(l.rest(), tok) {
		l.pos += len(tok)
		return true
	}
	return false
}

// number reads exactly n ASCII digits.
func (l *lexer) number(n int) (int, bool) {
	if l.pos+n > len(l.s) {
		return 0, false
	}
	v := 0
	for _, c := range []byte(l.s[l.pos : l.pos+n]) {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	l.pos += n
	return v, true
}

// date reads DD/MM/YYYY and rejects days that do not exist.
func (l *lexer) date() (time.Time, bool) {
	day, ok := l.number(2)
	if !ok || !l.accept("/") {
		return time.Time{}, false
	}
	month, ok := l.number(2)
	if !ok || !l.accept("/") {
		return time.Time{}, false
	}
	year, ok := l.number(4)
	if !ok || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// parseAmount reads an optionally signed amount with '.' as the grouping
// separator and ',' as the decimal separator, e.g. "1.045,90".
func parseAmount(s string) (decimal.Decimal, bool) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = strings.TrimSpace(s[1:])
	}

	intPart, frac, hasFrac := strings.Cut(s, ",")
	if !validGroups(intPart) {
		return decimal.Decimal{}, false
	}
	if hasFrac && (frac == "" || !onlyDigits(frac)) {
		return decimal.Decimal{}, false
	}

	canonical := sign + strings.ReplaceAll(intPart, ".", "")
	if hasFrac {
		canonical += "." + frac
	}
	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// validGroups accepts "1045" or "1.045": without dots any run of digits,
// with dots a leading group of 1 to 3 digits followed by groups of exactly 3.
func validGroups(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups) == 1 {
		return onlyDigits(s)
	}
	if len(groups[0]) > 3 || !onlyDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !onlyDigits(g) {
			return false
		}
	}
	return true
}

func onlyDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
