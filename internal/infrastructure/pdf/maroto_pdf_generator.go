// Package pdf renders the printable pickup receipt of an order.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: farm name + address  │  order ref + date            │
//	│  CUSTOMER: name / email / phone + pickup notes               │
//	│  TABLE: Qty | Product | Unit price | Subtotal                │
//	│  TOTAL                                                       │
//	│  FOOTER: QR of the order id + pickup hours                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/willowtrellis/farmstand-api/internal/application/notification"
	"github.com/willowtrellis/farmstand-api/internal/application/order"
	"github.com/willowtrellis/farmstand-api/internal/domain/entity"
	appconfig "github.com/willowtrellis/farmstand-api/pkg/config"
)

var _ order.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 22, Green: 163, Blue: 74}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoReceiptGenerator renders receipts with Maroto v2.
type MarotoReceiptGenerator struct {
	farm appconfig.FarmConfig
}

// NewMarotoReceiptGenerator builds the generator.
func NewMarotoReceiptGenerator(farm appconfig.FarmConfig) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{farm: farm}
}

// Generate returns the PDF bytes.
func (g *MarotoReceiptGenerator) Generate(o *entity.Order) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Pickup receipt "+notification.ShortID(o.ID), true).
		WithAuthor(g.farm.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(o.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(o))
	m.AddRows(line.NewRow(4))
	m.AddRows(g.footerRow(o))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate receipt: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoReceiptGenerator) headerRow(o *entity.Order) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(g.farm.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New(g.farm.Address, props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(g.farm.Phone, props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("PICKUP RECEIPT", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("#"+notification.ShortID(o.ID), props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New(o.CreatedAt.Format("Jan 2, 2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func customerRow(o *entity.Order) core.Row {
	contact := o.CustomerEmail
	if o.CustomerPhone != "" {
		contact += "   |   " + o.CustomerPhone
	}
	r := row.New(18)
	c := col.New(12).Add(
		text.New("CUSTOMER", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(o.CustomerName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
	)
	if o.PickupNotes != "" {
		c.Add(text.New("Notes: "+o.PickupNotes, props.Text{Size: 8, Top: 14, Color: colorGray}))
	}
	return r.Add(c)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Product", 6, align.Left),
		h("Unit price", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

func itemRows(items []entity.OrderItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.ProductName, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(notification.Money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(notification.Money(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalRow(o *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2})),
		col.New(3).Add(text.New(notification.Money(o.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2})),
	)
}

func (g *MarotoReceiptGenerator) footerRow(o *entity.Order) core.Row {
	return row.New(45).Add(
		col.New(4).Add(code.NewQr(o.ID, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("Show this code at the farm stand to pick up your order.", props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Pickup hours: "+g.farm.Hours, props.Text{Style: fontstyle.Bold, Size: 10, Top: 16, Left: 3, Color: colorPrimary}),
			text.New("Status: "+string(o.Status), props.Text{Size: 8, Top: 26, Left: 3, Color: colorGray}),
		),
	)
}
