package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// AddressFields are the raw address columns of one side (shipping or billing).
type AddressFields struct {
	Name       string
	Street1    string
	Street2    string
	City       string
	Region     string
	PostalCode string
	Country    string
}

// Row is one raw line of the storefront order export. Order-level fields are
// usually blank on every row of a group except the first.
type Row struct {
	Line        int
	OrderNumber string
	SKU         string
	Quantity    string
	Price       string
	CreatedAt   string
	Shipping    AddressFields
	Billing     AddressFields
	Subtotal    string
	ShippingFee string
	Taxes       string
	Total       string
	Note        string
}

const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
)

var requiredColumns = []string{"name", "lineitem sku", "lineitem quantity", "lineitem price", "created at"}

// columnSetters maps lower-cased export headers onto Row fields.
var columnSetters = map[string]func(*Row, string){
	"name":              func(r *Row, v string) { r.OrderNumber = v },
	"lineitem sku":      func(r *Row, v string) { r.SKU = v },
	"lineitem quantity": func(r *Row, v string) { r.Quantity = v },
	"lineitem price":    func(r *Row, v string) { r.Price = v },
	"created at":        func(r *Row, v string) { r.CreatedAt = v },
	"subtotal":          func(r *Row, v string) { r.Subtotal = v },
	"shipping":          func(r *Row, v string) { r.ShippingFee = v },
	"taxes":             func(r *Row, v string) { r.Taxes = v },
	"total":             func(r *Row, v string) { r.Total = v },
	"notes":             func(r *Row, v string) { r.Note = v },
	"shipping name":     func(r *Row, v string) { r.Shipping.Name = v },
	"shipping address1": func(r *Row, v string) { r.Shipping.Street1 = v },
	"shipping address2": func(r *Row, v string) { r.Shipping.Street2 = v },
	"shipping city":     func(r *Row, v string) { r.Shipping.City = v },
	"shipping province": func(r *Row, v string) { r.Shipping.Region = v },
	"shipping zip":      func(r *Row, v string) { r.Shipping.PostalCode = v },
	"shipping country":  func(r *Row, v string) { r.Shipping.Country = v },
	"billing name":      func(r *Row, v string) { r.Billing.Name = v },
	"billing address1":  func(r *Row, v string) { r.Billing.Street1 = v },
	"billing address2":  func(r *Row, v string) { r.Billing.Street2 = v },
	"billing city":      func(r *Row, v string) { r.Billing.City = v },
	"billing province":  func(r *Row, v string) { r.Billing.Region = v },
	"billing zip":       func(r *Row, v string) { r.Billing.PostalCode = v },
	"billing country":   func(r *Row, v string) { r.Billing.Country = v },
}

// ReadRows parses a whole export file. XLSX is detected by extension; anything
// else is read as CSV in the given encoding.
func ReadRows(filename string, r io.Reader, encoding string) ([]Row, error) {
	var records []record
	var err error
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		records, err = readXLSX(r)
	} else {
		records, err = readCSV(r, encoding)
	}
	if err != nil {
		return nil, err
	}
	return mapRecords(records)
}

// record is one raw line of the file with its 1-based line number.
type record struct {
	line   int
	fields []string
}

func readCSV(r io.Reader, encoding string) ([]record, error) {
	if encoding == EncodingWindows1252 {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var records []record
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, invalid("malformed csv: %v", err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}

func readXLSX(r io.Reader) ([]record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	xl, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, invalid("malformed xlsx: %v", err)
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		return nil, invalid("xlsx has no sheets")
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil {
		return nil, invalid("read sheet %s: %v", sheets[0], err)
	}
	records := make([]record, len(rows))
	for i, fields := range rows {
		records[i] = record{line: i + 1, fields: fields}
	}
	return records, nil
}

func mapRecords(records []record) ([]Row, error) {
	if len(records) == 0 {
		return nil, invalid("file is empty")
	}

	header := records[0].fields
	setters := make([]func(*Row, string), len(header))
	trimmers := make([]func(string) string, len(header))
	present := map[string]bool{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		setters[i] = columnSetters[key]
		trimmers[i] = strings.TrimSpace
		if key == "notes" {
			trimmers[i] = trimSpaces
		}
		present[key] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Message: "missing required columns", Problems: missing}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blankRecord(rec.fields) {
			continue
		}
		row := Row{Line: rec.line}
		for j, v := range rec.fields {
			if j < len(setters) && setters[j] != nil {
				setters[j](&row, trimmers[j](v))
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, invalid("file contains no order rows")
	}
	return rows, nil
}

// trimSpaces keeps tabs and other unusual whitespace so note sanitizing sees them.
func trimSpaces(v string) string { return strings.Trim(v, " ") }

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
