package domain

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// SessionFeatures is one session's observed feature counts, including the
// session length under TimeDimensionName.
type SessionFeatures struct {
	ID           string            `json:"id"`
	FeatureCount map[string]uint64 `json:"feature_count"`
}

// Row holds one bin name per dimension, in space order.
type Row struct {
	SessionID string
	Cells     []string
}

type Cube struct {
	Space    Space
	Sessions []SessionFeatures
	Rows     []Row
}

// WriteTSV writes the header line and one line per row.
func (c *Cube) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)

	cols := make([]string, 0, len(c.Space.Dimensions)+1)
	for _, d := range c.Space.Dimensions {
		parts := make([]string, 0, len(d.Bins)+2)
		parts = append(parts, "FEATURE", d.Name)
		for _, b := range d.Bins {
			parts = append(parts, b.Name)
		}
		cols = append(cols, strings.Join(parts, "|"))
	}
	cols = append(cols, "TOTAL|"+strconv.Itoa(len(c.Rows)))
	if _, err := bw.WriteString(strings.Join(cols, "\t") + "\n"); err != nil {
		return err
	}

	for _, r := range c.Rows {
		if _, err := bw.WriteString(strings.Join(r.Cells, "\t") + "\t1\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
