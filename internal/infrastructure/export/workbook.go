package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of generated workbooks
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const maxColumnWidth = 40

// File is a rendered workbook ready to be sent to a client
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type cellKind int

const (
	kindText cellKind = iota
	kindMoney
	kindDate
	kindDateTime
	kindInt
)

type column struct {
	header string
	kind   cellKind
}

type sheet struct {
	name    string
	columns []column
	rows    [][]any
}

type styles struct {
	header   int
	money    int
	date     int
	dateTime int
}

// workbook renders sheets with excelize's stream writer
type workbook struct {
	f      *excelize.File
	styles styles
	count  int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	w := &workbook{f: f}

	var err error
	if w.styles.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return nil, err
	}
	money := "#,##0.00 ₺"
	if w.styles.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return nil, err
	}
	date := "dd.mm.yyyy"
	if w.styles.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &date}); err != nil {
		return nil, err
	}
	dateTime := "dd.mm.yyyy hh:mm"
	if w.styles.dateTime, err = f.NewStyle(&excelize.Style{CustomNumFmt: &dateTime}); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *workbook) styleFor(k cellKind) int {
	switch k {
	case kindMoney:
		return w.styles.money
	case kindDate:
		return w.styles.date
	case kindDateTime:
		return w.styles.dateTime
	default:
		return 0
	}
}

func (w *workbook) addSheet(s sheet) error {
	name := s.name
	if w.count == 0 {
		if err := w.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.count++

	sw, err := w.f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("open sheet %s: %w", name, err)
	}

	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	for i, width := range columnWidths(s) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return err
		}
	}

	header := make([]any, len(s.columns))
	for i, c := range s.columns {
		header[i] = excelize.Cell{StyleID: w.styles.header, Value: c.header}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header %s: %w", name, err)
	}

	for r, row := range s.rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = excelize.Cell{StyleID: w.styleFor(s.columns[i].kind), Value: v}
		}
		ref, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, cells); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r+2, name, err)
		}
	}

	return sw.Flush()
}

func (w *workbook) render(name string) (*File, error) {
	defer w.f.Close()

	w.f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := w.f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &File{Name: name, ContentType: ContentTypeXLSX, Data: buf.Bytes()}, nil
}

// columnWidths sizes each column to its longest value, capped
func columnWidths(s sheet) []float64 {
	widths := make([]float64, len(s.columns))
	for i, c := range s.columns {
		widths[i] = float64(len([]rune(c.header)) + 2)
	}
	for _, row := range s.rows {
		for i, v := range row {
			n := float64(displayLen(v) + 2)
			if n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

func displayLen(v any) int {
	switch t := v.(type) {
	case string:
		return len([]rune(t))
	case time.Time:
		return len("02.01.2006 15:04")
	case float64:
		return len(fmt.Sprintf("%.2f", t)) + 4
	default:
		return len(fmt.Sprint(t))
	}
}

func build(name string, sheets ...sheet) (*File, error) {
	w, err := newWorkbook()
	if err != nil {
		return nil, err
	}
	for _, s := range sheets {
		if err := w.addSheet(s); err != nil {
			_ = w.f.Close()
			return nil, err
		}
	}
	return w.render(name)
}
