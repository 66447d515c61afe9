package render

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// MonthlyRow is one "YYYY-MM" line of the monthly report
type MonthlyRow struct {
	Month string
	Count int
	Total float64
}

// MonthlyReport is the data printed on the monthly sales report
type MonthlyReport struct {
	CompanyName string
	GeneratedAt time.Time
	Rows        []MonthlyRow
	TotalBills  int
	TotalAmount float64
	TotalTax    float64
}

// ReportRenderer renders tabular reports
type ReportRenderer struct{}

// NewReportRenderer creates a new report renderer
func NewReportRenderer() *ReportRenderer {
	return &ReportRenderer{}
}

// RenderMonthly renders the monthly report as PDF bytes
func (r *ReportRenderer) RenderMonthly(ctx context.Context, report *MonthlyReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("render: report is required")
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "Monthly Sales Report", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
			Color: &props.Color{Red: colorBlue.r, Green: colorBlue.g, Blue: colorBlue.b},
		}),
		text.NewCol(4, "Generated "+report.GeneratedAt.UTC().Format("02/01/2006"), props.Text{
			Size:  9,
			Align: align.Right,
			Top:   4,
		}),
	)
	if report.CompanyName != "" {
		m.AddRow(8, text.NewCol(12, report.CompanyName, props.Text{Size: 12, Style: fontstyle.Bold}))
	}

	m.AddRow(8, col.New(12))

	m.AddRow(10,
		text.NewCol(4, "Month", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(4, "Bills", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
		text.NewCol(4, "Total (Rs.)", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if len(report.Rows) == 0 {
		m.AddRow(10, text.NewCol(12, "No bills issued yet", props.Text{Size: 9, Style: fontstyle.Italic}))
	}
	for _, row := range report.Rows {
		m.AddRow(8,
			text.NewCol(4, row.Month, props.Text{Size: 9}),
			text.NewCol(4, strconv.Itoa(row.Count), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, money(row.Total), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(6, col.New(12))
	m.AddRow(8,
		col.New(4),
		text.NewCol(4, "Total bills", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(4, strconv.Itoa(report.TotalBills), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(4),
		text.NewCol(4, "Total amount", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(4, money(report.TotalAmount), props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(4),
		text.NewCol(4, "Total tax", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(4, money(report.TotalTax), props.Text{Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render: generate report: %w", err)
	}
	return doc.GetBytes(), nil
}
