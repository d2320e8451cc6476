package report

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"holderRaffle/internal/model"
)

const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSONL = "jsonl"
)

// Symbols returns the column names of tokens.
func Symbols(tokens []model.Token) []string {
	symbols := make([]string, 0, len(tokens))
	for _, token := range tokens {
		symbols = append(symbols, token.Symbol)
	}
	return symbols
}

// Render writes rows in the given format. symbols names the per-token columns.
func Render(w io.Writer, format string, rows []WinnerRow, symbols []string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return renderTable(w, rows, symbols)
	case FormatCSV:
		return renderCSV(w, rows, symbols)
	case FormatJSONL:
		return renderJSONL(w, rows)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func header(symbols []string) []string {
	cols := []string{"rank", "address", "total", "share_pct"}
	for _, symbol := range symbols {
		cols = append(cols, strings.ToUpper(symbol))
	}
	return cols
}

func record(row WinnerRow) []string {
	cols := []string{strconv.Itoa(row.Rank), row.Address, row.Total, row.Share}
	for _, token := range row.Tokens {
		cols = append(cols, token.Amount)
	}
	return cols
}

func renderTable(w io.Writer, rows []WinnerRow, symbols []string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header(symbols), "\t")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(record(row), "\t")); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, rows []WinnerRow, symbols []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(symbols)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(record(row)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderJSONL(w io.Writer, rows []WinnerRow) error {
	for _, row := range rows {
		line, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("marshal: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return nil
}

// Output is a buffered destination: a file, or stdout when the path is empty.
type Output struct {
	file   *os.File
	writer *bufio.Writer
}

// OpenOutput truncates and opens path, creating parent directories.
func OpenOutput(path string) (*Output, error) {
	if path == "" || path == "-" {
		return &Output{writer: bufio.NewWriter(os.Stdout)}, nil
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return &Output{file: file, writer: bufio.NewWriter(file)}, nil
}

func (o *Output) Write(p []byte) (int, error) {
	return o.writer.Write(p)
}

// Close flushes and closes the file. Stdout is flushed only.
func (o *Output) Close() error {
	if o == nil {
		return nil
	}
	if err := o.writer.Flush(); err != nil {
		if o.file != nil {
			o.file.Close()
		}
		return err
	}
	if o.file == nil {
		return nil
	}
	return o.file.Close()
}
