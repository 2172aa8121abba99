package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ReceiptData struct {
	StoreName    string
	StoreAddress string
	StorePhone   string

	OrderNumber   string
	Date          string
	CustomerName  string
	PaymentMethod string
	PaymentStatus string

	Items []ReceiptItem

	Subtotal   string
	Discount   string
	GrandTotal string
}

type ReceiptItem struct {
	Name      string
	Batch     string
	Qty       int
	UnitPrice string
	Amount    string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, data.StoreName, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(15,
		col.New(12).Add(
			text.New(data.StoreAddress, props.Text{Top: 0, Size: 9}),
			text.New(data.StorePhone, props.Text{Top: 4, Size: 9}),
		),
	)

	// Receipt Meta
	m.AddRow(25,
		col.New(6).Add(
			text.New("Receipt: "+data.OrderNumber, props.Text{Top: 0}),
			text.New("Date: "+data.Date, props.Text{Top: 4}),
			text.New("Customer: "+data.CustomerName, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Payment: "+data.PaymentMethod, props.Text{Top: 0}),
			text.New("Status: "+data.PaymentStatus, props.Text{Top: 4}),
		),
	)

	// Table Header
	m.AddRow(10,
		text.NewCol(5, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Batch", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(1, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	// Items
	for _, item := range data.Items {
		m.AddRow(12,
			text.NewCol(5, item.Name, props.Text{Size: 9}),
			text.NewCol(2, item.Batch, props.Text{Size: 9}),
			text.NewCol(1, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	// Footer Totals
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Subtotal", props.Text{Size: 9}),
		text.NewCol(2, data.Subtotal, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Discount", props.Text{Size: 9}),
		text.NewCol(2, data.Discount, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	m.AddRow(15,
		text.NewCol(12, "Thank you, get well soon.", props.Text{Size: 9, Top: 5}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
