// Package export writes the final posting set to CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"impactjobs-engine/internal/domain"
)

var Header = []string{
	"id", "site", "job_url", "title", "company", "location", "date_posted",
	"interval", "min_amount", "max_amount", "currency", "is_remote", "emails", "description",
}

// Write emits a header and one row per post. Every field is quoted.
func Write(w io.Writer, jobs []domain.JobPost) error {
	bw := bufio.NewWriter(w)
	if err := writeRow(bw, Header); err != nil {
		return err
	}
	for _, j := range jobs {
		if err := writeRow(bw, row(j)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile replaces path atomically.
func WriteFile(path string, jobs []domain.JobPost) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("csv: create output dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", tmp, err)
	}
	if err := Write(f, jobs); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("csv: write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("csv: close: %w", err)
	}
	return os.Rename(tmp, path)
}

func row(j domain.JobPost) []string {
	date := ""
	if j.DatePosted != nil {
		date = j.DatePosted.Format("2006-01-02")
	}
	var interval, minAmt, maxAmt, currency string
	if c := j.Compensation; c != nil {
		interval = string(c.Interval)
		minAmt = strconv.FormatFloat(c.Min, 'f', -1, 64)
		maxAmt = strconv.FormatFloat(c.Max, 'f', -1, 64)
		currency = c.Currency
	}
	return []string{
		j.ID, j.Site, j.JobURL, j.Title, j.CompanyName, j.Location.String(), date,
		interval, minAmt, maxAmt, currency,
		strconv.FormatBool(j.IsRemote), strings.Join(j.Emails, ", "), j.Description,
	}
}

func writeRow(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\n")
	return err
}
