package springer

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"springerdl/internal/model"
)

// Spreadsheet columns of the publisher's listing export (0-based).
const (
	colTitle    = 0  // A: book title
	colPackage  = 11 // L: package name
	colDOI      = 17 // R: DOI as a resolver URL
	colSubjects = 19 // T: semicolon-separated subject list
)

// decode reads the cached spreadsheet and returns its raw book records.
func (l *Listing) decode() ([]model.RawBook, error) {
	f, err := excelize.OpenFile(l.cachePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	return rowsToRawBooks(rows), nil
}

// rowsToRawBooks maps spreadsheet rows to raw book records.
//
// The first row is the header. Rows whose mapped cells are all empty
// (trailing spreadsheet rows) are skipped. Short rows are padded, since
// the spreadsheet reader omits trailing empty cells.
func rowsToRawBooks(rows [][]string) []model.RawBook {
	var books []model.RawBook
	for i, row := range rows {
		if i == 0 {
			continue
		}

		book := model.RawBook{
			Title:    cell(row, colTitle),
			Package:  cell(row, colPackage),
			Subjects: cell(row, colSubjects),
			DOI:      stripDOIPrefix(cell(row, colDOI)),
		}
		if book.Title == "" && book.Package == "" && book.Subjects == "" && book.DOI == "" {
			continue
		}

		books = append(books, book)
	}
	return books
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// stripDOIPrefix removes the DOI resolver prefix from a listing cell.
// This is an exact prefix removal: a DOI that happens to start with
// characters from the prefix is left intact.
func stripDOIPrefix(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "http://doi.org/")
	raw = strings.TrimPrefix(raw, "https://doi.org/")
	return raw
}
