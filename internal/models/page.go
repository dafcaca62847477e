package models

// Table is a detected table: rows of cells. Cells may be empty.
type Table [][]string

// Page is what the PDF extraction collaborator yields for one page.
// Text may be empty and Tables nil; both mean "nothing on this page".
type Page struct {
	Number int
	Text   string
	Tables []Table
}
