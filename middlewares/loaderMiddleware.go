package middlewares

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/models"
	"gorm.io/gorm"
)

type ctxKey string

const (
	loadersKey = ctxKey("dataloaders")
)

// Loaders wrap your data loaders to inject via middleware
type Loaders struct {
	contactLoader     *dataloader.Loader[uuid.UUID, *models.Contact]
	invoiceLineLoader *dataloader.Loader[uuid.UUID, []*models.InvoiceLine]
}

// NewLoaders instantiates data loaders for the middleware
func NewLoaders(conn *gorm.DB) *Loaders {
	contactReader := &contactReader{db: conn}
	invoiceLineReader := &invoiceLineReader{db: conn}

	return &Loaders{
		contactLoader:     dataloader.NewBatchedLoader(contactReader.getContacts, dataloader.WithWait[uuid.UUID, *models.Contact](time.Millisecond)),
		invoiceLineLoader: dataloader.NewBatchedLoader(invoiceLineReader.getInvoiceLines, dataloader.WithWait[uuid.UUID, []*models.InvoiceLine](time.Millisecond)),
	}
}

// LoaderMiddleware gives every request its own loaders so batches never cross tenants.
func LoaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		loader := NewLoaders(config.GetDB())
		ctx := context.WithValue(c.Request.Context(), loadersKey, loader)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func For(ctx context.Context) *Loaders {
	return ctx.Value(loadersKey).(*Loaders)
}

// handleError creates array of result with the same error repeated for as many items requested
func handleError[T any](itemsLength int, err error) []*dataloader.Result[T] {
	result := make([]*dataloader.Result[T], itemsLength)
	for i := 0; i < itemsLength; i++ {
		result[i] = &dataloader.Result[T]{Error: err}
	}
	return result
}

// turns results from db into dataloader results, in the order of ids
func generateLoaderResults[T models.Data](results []T, ids []uuid.UUID, notFound error) []*dataloader.Result[*T] {
	resultMap := make(map[uuid.UUID]T, len(results))
	for _, result := range results {
		resultMap[result.GetId()] = result
	}

	loaderResults := make([]*dataloader.Result[*T], 0, len(ids))
	for _, id := range ids {
		data, ok := resultMap[id]
		if !ok {
			loaderResults = append(loaderResults, &dataloader.Result[*T]{Error: notFound})
			continue
		}
		loaderResults = append(loaderResults, &dataloader.Result[*T]{Data: &data})
	}
	return loaderResults
}

// each id has many related results
func generateLoaderArrayResults[T models.RelatedData](results []T, referenceIds []uuid.UUID) []*dataloader.Result[[]*T] {
	resultMap := make(map[uuid.UUID][]*T)
	for _, result := range results {
		// creating a new variable every turn, to avoid pointing to the address of result
		copy := result
		resultMap[result.GetReferenceId()] = append(resultMap[result.GetReferenceId()], &copy)
	}
	loaderResults := make([]*dataloader.Result[[]*T], 0, len(referenceIds))
	for _, id := range referenceIds {
		resultArray := resultMap[id]
		if resultArray == nil {
			resultArray = []*T{}
		}
		loaderResults = append(loaderResults, &dataloader.Result[[]*T]{Data: resultArray})
	}
	return loaderResults
}
