// Package export encodes admin export tables as comma separated text.
//
// Every free-text column is wrapped in double quotes with embedded quotes
// doubled. The id and year columns are written bare unless their content needs
// quoting, so any RFC 4180 reader recovers the original cells.
package export

import (
	"bufio"
	"io"
	"strings"
	"time"
)

// Bare column positions within an export row.
const (
	colID   = 0
	colYear = 6
)

// WriteCSV writes table to w, one record per line terminated by "\n".
func WriteCSV(w io.Writer, table [][]string) error {
	bw := bufio.NewWriter(w)
	for _, row := range table {
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			if (i == colID || i == colYear) && !needsQuotes(cell) {
				bw.WriteString(cell)
				continue
			}
			bw.WriteString(Quote(cell))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Quote wraps s in double quotes, doubling any quote inside it.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
	return b.String()
}

func needsQuotes(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == ' ' || s[0] == '\t' {
		return true
	}
	return strings.ContainsAny(s, ",\"\r\n")
}

// Filename names an export produced at now.
func Filename(now time.Time) string {
	return "registrations_" + now.Format("2006-01-02") + ".csv"
}
