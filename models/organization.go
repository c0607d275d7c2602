package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
)

type Organization struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	LegalName       string    `gorm:"size:255;not null" json:"legal_name"`
	TradeName       string    `gorm:"size:255" json:"trade_name"`
	GSTIN           string    `gorm:"column:gstin;size:15;not null;uniqueIndex" json:"gstin"`
	StateCode       string    `gorm:"size:2;not null" json:"state_code"`
	BaseCurrency    string    `gorm:"size:3;not null;default:'INR'" json:"base_currency"`
	FiscalYearStart time.Time `gorm:"type:date;not null" json:"fiscal_year_start"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrganization struct {
	LegalName       string    `json:"legal_name" validate:"required,max=255"`
	TradeName       string    `json:"trade_name" validate:"max=255"`
	GSTIN           string    `json:"gstin" validate:"required,len=15,alphanum"`
	StateCode       string    `json:"state_code" validate:"required,len=2,numeric"`
	FiscalYearStart time.Time `json:"fiscal_year_start"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Jurisdiction is the supplier side of every invoice the organization raises.
func (o Organization) Jurisdiction() gst.Jurisdiction {
	return gst.Jurisdiction(o.StateCode)
}

func (input *NewOrganization) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	return checkGSTINState(input.GSTIN, input.StateCode)
}

// the first two characters of a GSTIN are the registering state's code
func checkGSTINState(gstin string, stateCode string) error {
	if gstin == "" {
		return nil
	}
	if !strings.HasPrefix(gstin, stateCode) {
		return fmt.Errorf("gstin %s does not belong to state %s", gstin, stateCode)
	}
	return nil
}

// CreateOrganization stores the organization and seeds its default chart of accounts.
func CreateOrganization(ctx context.Context, input *NewOrganization) (*Organization, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	org := Organization{
		LegalName:       input.LegalName,
		TradeName:       input.TradeName,
		GSTIN:           strings.ToUpper(input.GSTIN),
		StateCode:       input.StateCode,
		BaseCurrency:    "INR",
		FiscalYearStart: input.FiscalYearStart,
	}
	if org.FiscalYearStart.IsZero() {
		now := time.Now()
		year := now.Year()
		if now.Month() < time.April {
			year--
		}
		org.FiscalYearStart = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	}

	seeds, err := config.DefaultChartOfAccounts()
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		accounts := make([]Account, 0, len(seeds))
		for _, s := range seeds {
			accounts = append(accounts, Account{
				OrganizationId: org.ID,
				Name:           s.Name,
				Type:           AccountType(s.Type),
				Code:           s.Code,
				IsSystem:       s.System,
			})
		}
		return tx.Create(&accounts).Error
	})
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var org Organization
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &org, nil
}
