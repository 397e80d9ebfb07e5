package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"hotel_admin/internal/domain"
)

// supported short-date forms, index-aligned with matcher tags
var (
	localeTags = []language.Tag{
		language.AmericanEnglish,
		language.BritishEnglish,
		language.French,
		language.Spanish,
		language.German,
		language.Japanese,
	}
	shortDates = []string{
		"1/2/2006",
		"02/01/2006",
		"02/01/2006",
		"2/1/2006",
		"2.1.2006",
		"2006/1/2",
	}
	matcher = language.NewMatcher(localeTags)
)

// Locale renders dates and money for one viewer.
type Locale struct {
	Tag    language.Tag
	layout string
	loc    *time.Location
	p      *message.Printer
}

// NewLocale picks the closest supported language for an Accept-Language
// header. Unknown or empty headers fall back to US English.
func NewLocale(acceptLanguage string, loc *time.Location) Locale {
	if loc == nil {
		loc = time.UTC
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	idx := 0
	if err == nil && len(tags) > 0 {
		_, idx, _ = matcher.Match(tags...)
	}
	tag := localeTags[idx]
	return Locale{Tag: tag, layout: shortDates[idx], loc: loc, p: message.NewPrinter(tag)}
}

// Date renders a backend date in short form, or "N/A".
func (l Locale) Date(raw string) string {
	t, ok := domain.CalendarDay(raw, l.loc)
	if !ok {
		return NA
	}
	return t.Format(l.layout)
}

// Money renders a price with locale grouping and at most two decimals.
func (l Locale) Money(v float64) string {
	return "$" + l.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

func (l Locale) Int(n int) string { return l.p.Sprintf("%v", number.Decimal(n)) }
