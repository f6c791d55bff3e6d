// Package format renders timestamps, sizes and names for pages and terminal output.
package format

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s ago", n, unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// RelativeTime renders t relative to now ("Just now", "3 hours ago", "Yesterday", ...).
// Dates a year or more old fall back to a plain date.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	secs := int(d / time.Second)
	mins := secs / 60
	hours := mins / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30

	switch {
	case secs < 60:
		return "Just now"
	case mins < 60:
		return plural(mins, "minute")
	case hours < 24:
		return plural(hours, "hour")
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case weeks < 4:
		return plural(weeks, "week")
	case months < 12:
		return plural(months, "month")
	}
	return t.Local().Format("1/2/2006")
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FileSize renders a byte count with one decimal in 1024 steps. nil and 0 are "0 Bytes".
func FileSize(bytes *int64) string {
	if bytes == nil || *bytes <= 0 {
		return "0 Bytes"
	}
	v := float64(*bytes)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	v = math.Round(v*10) / 10
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// FileKind classifies a document for its icon: pdf, doc, markdown, text, table or file.
func FileKind(filename, mimeType string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	mt := strings.ToLower(mimeType)
	switch {
	case strings.Contains(mt, "pdf") || ext == "pdf":
		return "pdf"
	case strings.Contains(mt, "word") || ext == "docx" || ext == "doc":
		return "doc"
	case strings.Contains(mt, "markdown") || ext == "md":
		return "markdown"
	case strings.Contains(mt, "csv") || ext == "csv",
		strings.Contains(mt, "excel") || strings.Contains(mt, "spreadsheet") || ext == "xlsx" || ext == "xls":
		return "table"
	case strings.Contains(mt, "text") || ext == "txt":
		return "text"
	}
	return "file"
}

// Truncate cuts s to max runes and appends "...".
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + "..."
}

// Initials takes the first letter of up to the first two words, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}
