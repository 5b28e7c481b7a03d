package export

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	grey       = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerFill = &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	stripeFill = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	totalFill  = &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
)

// PDF renders data as an A4 portrait document.
func PDF(data Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)
	addHeader(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addTotal(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("export: generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data Data) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(text.New(data.Title, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center})),
		),
		row.New(8).Add(
			col.New(8).Add(text.New(fmt.Sprintf("Project: %s, %s", data.Project, data.Location), props.Text{Size: 9, Color: grey})),
			col.New(4).Add(text.New("Date: "+data.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(4),
	)
}

func addTableHeader(m core.Maroto) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	right := head
	right.Align = align.Right

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", head)).WithStyle(headerFill),
			col.New(3).Add(text.New("Item", head)).WithStyle(headerFill),
			col.New(5).Add(text.New("Specification", head)).WithStyle(headerFill),
			col.New(3).Add(text.New("Amount", right)).WithStyle(headerFill),
		),
	)
}

func addTableRow(m core.Maroto, r Row, striped bool) {
	body := props.Text{Size: 7, Align: align.Left}
	right := body
	right.Align = align.Right

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, body)),
		col.New(3).Add(text.New(r.Name, body)),
		col.New(5).Add(text.New(r.Detail, body)),
		col.New(3).Add(text.New(amountText(r.Currency, r.Amount), right)),
	}
	if striped {
		for i := range cols {
			cols[i] = cols[i].WithStyle(stripeFill)
		}
	}
	m.AddRows(row.New(8).Add(cols...))
}

func addTotal(m core.Maroto, data Data) {
	bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(6),
		row.New(8).Add(
			col.New(9).Add(text.New("Grand Total Estimate", bold)).WithStyle(totalFill),
			col.New(3).Add(text.New(amountText(data.Currency, data.Total), bold)).WithStyle(totalFill),
		),
	)
}
