package middlewares

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/smsagro/books_backend/models"
	"gorm.io/gorm"
)

type invoiceLineReader struct {
	db *gorm.DB
}

func (r *invoiceLineReader) getInvoiceLines(ctx context.Context, invoiceIds []uuid.UUID) []*dataloader.Result[[]*models.InvoiceLine] {
	var results []models.InvoiceLine
	err := r.db.WithContext(ctx).Where("invoice_id IN ?", invoiceIds).Order("sort_order").Find(&results).Error
	if err != nil {
		return handleError[[]*models.InvoiceLine](len(invoiceIds), err)
	}
	return generateLoaderArrayResults(results, invoiceIds)
}

// GetInvoiceLines batches line lookups for every invoice resolved in one request.
// Callers must only pass invoice ids already read under the request's organization.
func GetInvoiceLines(ctx context.Context, invoiceId uuid.UUID) ([]*models.InvoiceLine, error) {
	return For(ctx).invoiceLineLoader.Load(ctx, invoiceId)()
}
