package timing

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
)

func humanBytes(n uint64) string {
	if n == 0 {
		return "-"
	}
	return humanize.IBytes(n)
}

// WriteTable prints the reports as aligned columns.
func WriteTable(w io.Writer, reports []Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	lines := lo.Map(reports, func(r Report, _ int) string {
		return fmt.Sprintf("%s\t%d\t%s\t%s\t%s\n",
			r.Variant, r.Size, r.InsertAtEnd, r.Search, humanBytes(r.RSS))
	})
	if _, err := fmt.Fprint(tw, "VARIANT\tSIZE\tINSERT-AT-END\tSEARCH\tRSS\n"); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprint(tw, line); err != nil {
			return err
		}
	}
	return tw.Flush()
}
