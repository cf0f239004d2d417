package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cgea-sas/console/internal/client/query"
)

// column is one table column of a record list.
type column[T any] struct {
	Header string
	Value  func(T) string
}

// field is one labelled line of a detail view.
type field struct {
	Label string
	Value string
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func renderTable[T any](w io.Writer, cols []column[T], rows []T) error {
	tw := newTable(w)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	cells := make([]string, len(cols))
	for _, r := range rows {
		for i, c := range cols {
			cells[i] = dash(c.Value(r))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// renderPage prints one page of a list and its position. Pages are shown
// one-based.
func renderPage[T any](w io.Writer, cols []column[T], res query.Result[T]) error {
	if res.Total == 0 {
		_, err := fmt.Fprintln(w, "No records.")
		return err
	}
	if err := renderTable(w, cols, res.Items); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d/%d (%d records)\n", res.Page+1, max(res.PageCount, 1), res.Total)
	return err
}

func renderFields(w io.Writer, fields []field) error {
	tw := newTable(w)
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, dash(f.Value))
	}
	return tw.Flush()
}

func renderStats(w io.Writer, st query.Stats) error {
	return renderFields(w, []field{
		{"Certificates", strconv.Itoa(st.Count)},
		{"Total weight", fmt.Sprintf("%.2f", st.TotalWeight)},
		{"Rate min", fmt.Sprintf("%.2f", st.RateMin)},
		{"Rate max", fmt.Sprintf("%.2f", st.RateMax)},
		{"Rate average", fmt.Sprintf("%.2f", st.RateAverage)},
	})
}

const barWidth = 40

// renderChart draws a horizontal bar chart, the longest bar barWidth wide.
func renderChart(w io.Writer, title string, points []query.Point) error {
	fmt.Fprintln(w, title)
	if len(points) == 0 {
		_, err := fmt.Fprintln(w, "No data.")
		return err
	}

	top := 0.0
	for _, p := range points {
		top = math.Max(top, p.Value)
	}

	tw := newTable(w)
	for _, p := range points {
		n := 0
		if top > 0 {
			n = int(math.Round(p.Value / top * barWidth))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64), strings.Repeat("#", n))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
