package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
)

// Names of the accounts invoice finalization posts to.
const (
	AccountNameReceivable = "Accounts Receivable"
	AccountNameSales      = "Sales Revenue"
	AccountNameGST        = "Duties & Taxes (GST)"
)

type Account struct {
	ID             uuid.UUID   `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID   `gorm:"type:char(36);not null;uniqueIndex:uniq_coa_org_name,priority:1" json:"organization_id"`
	Name           string      `gorm:"size:100;not null;uniqueIndex:uniq_coa_org_name,priority:2" json:"name"`
	Type           AccountType `gorm:"size:20;not null;index" json:"type"`
	Code           string      `gorm:"size:20" json:"code"`
	IsSystem       bool        `gorm:"not null;default:false" json:"is_system"`
	CreatedAt      time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "chart_of_accounts"
}

type NewAccount struct {
	Name string      `json:"name" validate:"required,max=100"`
	Type AccountType `json:"type" validate:"required"`
	Code string      `json:"code" validate:"max=20"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func chartOfAccountsCacheKey(organizationId uuid.UUID) string {
	return "ChartOfAccounts:" + organizationId.String()
}

func (input *NewAccount) validate(ctx context.Context, organizationId uuid.UUID) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if !input.Type.IsValid() {
		return errInvalidField("type", string(input.Type))
	}
	if err := utils.ValidateUnique[Account](ctx, organizationId, "name", input.Name, uuid.Nil); err != nil {
		return err
	}
	return nil
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, organizationId); err != nil {
		return nil, err
	}

	account := Account{
		OrganizationId: organizationId,
		Name:           input.Name,
		Type:           input.Type,
		Code:           input.Code,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	if err := config.RemoveRedisKey(ctx, chartOfAccountsCacheKey(organizationId)); err != nil {
		config.LogError(config.GetLogger(), "Account", "CreateAccount", "RemoveRedisKey", organizationId.String(), err)
	}
	return &account, nil
}

// GetChartOfAccounts returns the organization's accounts, cached in redis.
func GetChartOfAccounts(ctx context.Context, organizationId uuid.UUID) ([]Account, error) {
	logger := config.GetLogger()
	key := chartOfAccountsCacheKey(organizationId)

	var accounts []Account
	exists, err := config.GetRedisObject(ctx, key, &accounts)
	if err != nil {
		config.LogError(logger, "Account", "GetChartOfAccounts", "GetRedisObject", key, err)
	}
	if exists {
		return accounts, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("organization_id = ?", organizationId).
		Order("code, name").
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(ctx, key, &accounts, utils.GetCacheLifespan()); err != nil {
		config.LogError(logger, "Account", "GetChartOfAccounts", "SetRedisObject", key, err)
	}
	return accounts, nil
}

// FindAccountsByName picks the named accounts out of a chart; missing lists the names not found.
func FindAccountsByName(accounts []Account, names ...string) (found map[string]Account, missing []string) {
	byName := make(map[string]Account, len(accounts))
	for _, a := range accounts {
		byName[a.Name] = a
	}
	found = make(map[string]Account, len(names))
	for _, n := range names {
		a, ok := byName[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		found[n] = a
	}
	return found, missing
}
