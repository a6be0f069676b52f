package source

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// DecodeCSV reads a csv export. The separator is ',' or ';', whichever is
// the most frequent in the header line.
func DecodeCSV(r io.Reader, opts Options) (*Statement, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}

	cr := csv.NewReader(br)
	if bytes.Count(first, []byte{';'}) > bytes.Count(first, []byte{','}) {
		cr.Comma = ';'
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return table(records, opts)
}

// DecodeXLSX reads the first sheet of an excel workbook.
func DecodeXLSX(r io.Reader, opts Options) (*Statement, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
	}
	return table(records, opts)
}

func table(records [][]string, opts Options) (*Statement, error) {
	rows, err := opts.mapping().rows(records)
	if err != nil {
		return nil, err
	}
	st := &Statement{Rows: rows}
	st.Source.Provider = opts.Provider
	return st, nil
}
