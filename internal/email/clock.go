package email

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	weekdays = [...]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}
	months   = [...]string{
		"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
		"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
	}
)

const (
	markerAM = "ص"
	markerPM = "م"
	// Arabic comma
	comma = "،"
)

// Formats timestamps the way Egyptian Arabic readers expect them, in Arabic-Indic digits
type clock struct {
	loc     *time.Location
	printer *message.Printer
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.UTC
	}
	return clock{
		loc: loc,
		// ar-EG alone resolves to the latn numbering system
		printer: message.NewPrinter(language.MustParse("ar-EG-u-nu-arab")),
	}
}

func (c clock) num(v int, minDigits int) string {
	opts := []number.Option{number.NoSeparator()}
	if minDigits > 1 {
		opts = append(opts, number.MinIntegerDigits(minDigits))
	}
	return c.printer.Sprint(number.Decimal(v, opts...))
}

func (c clock) hour(t time.Time) (string, string) {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}

	marker := markerAM
	if t.Hour() >= 12 {
		marker = markerPM
	}

	return c.num(h, 1), marker
}

// d/M/yyyy، h:mm:ss ص
func (c clock) Short(t time.Time) string {
	t = t.In(c.loc)
	h, marker := c.hour(t)
	return fmt.Sprintf(
		"%s/%s/%s%s %s:%s:%s %s",
		c.num(t.Day(), 1),
		c.num(int(t.Month()), 1),
		c.num(t.Year(), 1),
		comma,
		h,
		c.num(t.Minute(), 2),
		c.num(t.Second(), 2),
		marker,
	)
}

// weekday، d month yyyy في h:mm ص
func (c clock) Long(t time.Time) string {
	t = t.In(c.loc)
	h, marker := c.hour(t)
	return fmt.Sprintf(
		"%s%s %s %s %s في %s:%s %s",
		weekdays[t.Weekday()],
		comma,
		c.num(t.Day(), 1),
		months[t.Month()-1],
		c.num(t.Year(), 1),
		h,
		c.num(t.Minute(), 2),
		marker,
	)
}
