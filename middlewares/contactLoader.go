package middlewares

import (
	"context"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
)

type contactReader struct {
	db *gorm.DB
}

// contacts are tenant scoped by the gorm guard through ctx
func (r *contactReader) getContacts(ctx context.Context, ids []uuid.UUID) []*dataloader.Result[*models.Contact] {
	var results []models.Contact
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Contact](len(ids), err)
	}
	return generateLoaderResults(results, ids, utils.ErrorRecordNotFound)
}

func GetContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	return For(ctx).contactLoader.Load(ctx, id)()
}
