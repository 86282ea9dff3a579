package export

import (
	"fmt"
	"io"
	"strings"
)

// Table - плоская таблица для выгрузки: заголовок и строки одинаковой длины
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string
}

func (t Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// AddRow добавляет строку, значения приводятся к строкам
func (t *Table) AddRow(values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.Rows = append(t.Rows, row)
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat разбирает формат выгрузки, по умолчанию csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("неизвестный формат выгрузки: %s", s)
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Write выгружает таблицу в выбранном формате
func Write(w io.Writer, t Table, format Format) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, t)
	default:
		return WriteCSV(w, t)
	}
}
