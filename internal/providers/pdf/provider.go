package pdf

import (
	"context"
	"io"

	"go.uber.org/fx"
)

// Provider renders printable sale receipts.
type Provider interface {
	GenerateReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

var Module = fx.Module("pdf",
	fx.Provide(New),
)
