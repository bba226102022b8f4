package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestQuote(t *testing.T) {
	assert.Equal(t, `"He said ""great event"""`, Quote(`He said "great event"`))
	assert.Equal(t, `""`, Quote(""))
	assert.Equal(t, `"a,b"`, Quote("a,b"))
}

func TestWriteCSV(t *testing.T) {
	table := [][]string{
		{"ID", "Name", "Email", "Phone", "College", "Branch", "Year", "Reason", "Registered At"},
		{"7f9c", "Alice", "alice@x.com", "9876543210", "RVCE", "CSE", "2", `He said "great event"`, "2026-03-14T09:30:00Z"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))

	want := `ID,"Name","Email","Phone","College","Branch",Year,"Reason","Registered At"` + "\n" +
		`7f9c,"Alice","alice@x.com","9876543210","RVCE","CSE",2,"He said ""great event""","2026-03-14T09:30:00Z"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVQuotesBareColumnsWhenNeeded(t *testing.T) {
	row := []string{"id", "n", "e", "p", "c", "b", `2,"nd"`, "i", "t"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, [][]string{row}))

	assert.Contains(t, buf.String(), `,"2,""nd""",`)
	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{row}, got)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rows := rapid.IntRange(1, 5).Draw(t, "rows")
		table := make([][]string, rows)
		for i := range table {
			table[i] = rapid.SliceOfN(
				rapid.StringMatching(`[a-zA-Z0-9 ,"'@.\-]{0,12}`),
				9, 9,
			).Draw(t, "row")
		}

		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, table))

		r := csv.NewReader(&buf)
		r.FieldsPerRecord = 9
		got, err := r.ReadAll()
		require.NoError(t, err)
		require.Equal(t, table, got)
	})
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 4, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "registrations_2026-03-04.csv", Filename(now))
}
