package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
)

type Item struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID       `gorm:"type:char(36);index;not null" json:"organization_id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Sku            string          `gorm:"size:100;index" json:"sku"`
	Type           ItemType        `gorm:"size:20;not null;default:'Goods'" json:"type"`
	HsnCode        string          `gorm:"size:8" json:"hsn_code"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"selling_price"`
	PurchasePrice  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"purchase_price"`
	Unit           string          `gorm:"size:20;default:'pcs'" json:"unit"`
	ReorderLevel   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"reorder_level"`
	CurrentStock   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_stock"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItem struct {
	Name          string          `json:"name" validate:"required,max=255"`
	Sku           string          `json:"sku" validate:"max=100"`
	Type          ItemType        `json:"type"`
	HsnCode       string          `json:"hsn_code" validate:"omitempty,numeric,min=4,max=8"`
	TaxRate       decimal.Decimal `json:"tax_rate" validate:"gte=0,lte=100"`
	SellingPrice  decimal.Decimal `json:"selling_price" validate:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"gte=0"`
	Unit          string          `json:"unit" validate:"max=20"`
	ReorderLevel  decimal.Decimal `json:"reorder_level" validate:"gte=0"`
	OpeningStock  decimal.Decimal `json:"opening_stock"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (input *NewItem) validate(ctx context.Context, organizationId uuid.UUID) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.Type != "" && !input.Type.IsValid() {
		return errInvalidField("type", string(input.Type))
	}
	if exceedsPlaces(input.TaxRate, ratePlaces) {
		return errInvalidField("tax_rate", input.TaxRate.String())
	}
	if exceedsPlaces(input.SellingPrice, pricePlaces) {
		return errInvalidField("selling_price", input.SellingPrice.String())
	}
	if exceedsPlaces(input.PurchasePrice, pricePlaces) {
		return errInvalidField("purchase_price", input.PurchasePrice.String())
	}
	if exceedsPlaces(input.OpeningStock, quantityPlaces) {
		return errInvalidField("opening_stock", input.OpeningStock.String())
	}
	if input.Sku != "" {
		if err := utils.ValidateUnique[Item](ctx, organizationId, "sku", input.Sku, uuid.Nil); err != nil {
			return err
		}
	}
	return nil
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, organizationId); err != nil {
		return nil, err
	}

	item := Item{
		OrganizationId: organizationId,
		Name:           input.Name,
		Sku:            input.Sku,
		Type:           input.Type,
		HsnCode:        input.HsnCode,
		TaxRate:        input.TaxRate,
		SellingPrice:   input.SellingPrice,
		PurchasePrice:  input.PurchasePrice,
		Unit:           input.Unit,
		ReorderLevel:   input.ReorderLevel,
		CurrentStock:   input.OpeningStock,
	}
	if item.Type == "" {
		item.Type = ItemTypeGoods
	}
	if item.Unit == "" {
		item.Unit = "pcs"
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Item](ctx, organizationId, id)
}

func ListItems(ctx context.Context) ([]*Item, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchAllModels[Item](ctx, organizationId)
}
