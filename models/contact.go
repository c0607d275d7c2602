package models

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
)

type Contact struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID       `gorm:"type:char(36);index;not null" json:"organization_id"`
	Type           ContactType     `gorm:"size:20;not null" json:"type"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	CompanyName    string          `gorm:"size:255" json:"company_name"`
	GSTIN          string          `gorm:"column:gstin;size:15" json:"gstin"`
	StateCode      string          `gorm:"size:2;not null" json:"state_code"`
	Email          string          `gorm:"size:255" json:"email"`
	Phone          string          `gorm:"size:20" json:"phone"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"opening_balance"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewContact struct {
	Type           ContactType     `json:"type" validate:"required"`
	Name           string          `json:"name" validate:"required,max=255"`
	CompanyName    string          `json:"company_name" validate:"max=255"`
	GSTIN          string          `json:"gstin" validate:"omitempty,len=15,alphanum"`
	StateCode      string          `json:"state_code" validate:"required,len=2,numeric"`
	Email          string          `json:"email" validate:"omitempty,email"`
	Phone          string          `json:"phone"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (input *NewContact) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Type.IsValid() {
		return errInvalidField("type", string(input.Type))
	}
	return checkGSTINState(strings.ToUpper(input.GSTIN), input.StateCode)
}

func CreateContact(ctx context.Context, input *NewContact) (*Contact, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	phone := ""
	if strings.TrimSpace(input.Phone) != "" {
		phone, err = utils.NormalizePhoneNumber(input.Phone, utils.CountryCode)
		if err != nil {
			return nil, err
		}
	}

	contact := Contact{
		OrganizationId: organizationId,
		Type:           input.Type,
		Name:           input.Name,
		CompanyName:    input.CompanyName,
		GSTIN:          strings.ToUpper(input.GSTIN),
		StateCode:      input.StateCode,
		Email:          input.Email,
		Phone:          phone,
		OpeningBalance: input.OpeningBalance,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func GetContact(ctx context.Context, id uuid.UUID) (*Contact, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Contact](ctx, organizationId, id)
}

func (c Contact) GetId() uuid.UUID {
	return c.ID
}
