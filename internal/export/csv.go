package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV пишет таблицу через запятую. Каждое значение в кавычках,
// кавычки внутри значения удваиваются.
func WriteCSV(w io.Writer, t Table) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(t.Headers, ",")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, value := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quote(value)); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
