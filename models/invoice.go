package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvoiceNotDraft is returned when a non-draft invoice is edited.
var ErrInvoiceNotDraft = errors.New("invoice is not a draft")

type Invoice struct {
	ID             uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	OrganizationId uuid.UUID       `gorm:"type:char(36);not null;index;uniqueIndex:uniq_invoice_org_number,priority:1" json:"organization_id"`
	ContactId      uuid.UUID       `gorm:"type:char(36);not null;index" json:"contact_id"`
	InvoiceNumber  string          `gorm:"size:50;not null;uniqueIndex:uniq_invoice_org_number,priority:2" json:"invoice_number"`
	InvoiceDate    time.Time       `gorm:"type:date;not null" json:"invoice_date"`
	DueDate        *time.Time      `gorm:"type:date" json:"due_date"`
	Status         InvoiceStatus   `gorm:"size:10;not null;default:'Draft';index" json:"status"`
	PlaceOfSupply  string          `gorm:"size:2;not null" json:"place_of_supply"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"subtotal"`
	TotalTax       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_tax"`
	RoundOff       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"round_off"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"grand_total"`
	Notes          string          `gorm:"type:text" json:"notes"`
	Lines          []InvoiceLine   `gorm:"foreignKey:InvoiceId" json:"lines"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type InvoiceLine struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey" json:"id"`
	InvoiceId    uuid.UUID       `gorm:"type:char(36);not null;index" json:"invoice_id"`
	ItemId       uuid.UUID       `gorm:"type:char(36);not null;index" json:"item_id"`
	SortOrder    int             `gorm:"not null;default:0" json:"sort_order"`
	Description  string          `gorm:"size:255" json:"description"`
	HsnCode      string          `gorm:"size:8" json:"hsn_code"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate"`
	TaxInclusive bool            `gorm:"not null;default:false" json:"tax_inclusive"`
	TaxableValue decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"taxable_value"`
	CGST         decimal.Decimal `gorm:"column:cgst;type:decimal(20,4);not null;default:0" json:"cgst"`
	SGST         decimal.Decimal `gorm:"column:sgst;type:decimal(20,4);not null;default:0" json:"sgst"`
	IGST         decimal.Decimal `gorm:"column:igst;type:decimal(20,4);not null;default:0" json:"igst"`
	TotalTax     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_tax"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total_amount"`
}

type NewInvoice struct {
	ContactId     uuid.UUID        `json:"contact_id" validate:"required"`
	InvoiceNumber string           `json:"invoice_number" validate:"required,max=50"`
	InvoiceDate   time.Time        `json:"invoice_date" validate:"required"`
	DueDate       *time.Time       `json:"due_date"`
	PlaceOfSupply string           `json:"place_of_supply" validate:"omitempty,len=2,numeric"`
	Notes         string           `json:"notes"`
	Lines         []NewInvoiceLine `json:"lines" validate:"required,min=1,dive"`
}

// NewInvoiceLine leaves UnitPrice and TaxRate nil to take them from the item.
type NewInvoiceLine struct {
	ItemId       uuid.UUID        `json:"item_id" validate:"required"`
	Description  string           `json:"description" validate:"max=255"`
	Quantity     decimal.Decimal  `json:"quantity" validate:"gt=0"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
	TaxRate      *decimal.Decimal `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	TaxInclusive bool             `json:"tax_inclusive"`
}

type UpdateInvoiceLines struct {
	PlaceOfSupply string           `json:"place_of_supply" validate:"omitempty,len=2,numeric"`
	Lines         []NewInvoiceLine `json:"lines" validate:"required,min=1,dive"`
}

func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	return nil
}

func (l *InvoiceLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l InvoiceLine) PricingMode() gst.PricingMode {
	if l.TaxInclusive {
		return gst.TaxInclusive
	}
	return gst.TaxExclusive
}

// Decimal places of the invoice_lines columns. Finer inputs would be taxed on
// one value and stored (and taken out of stock) as another.
const (
	quantityPlaces = 4
	pricePlaces    = 4
	ratePlaces     = 2
)

func exceedsPlaces(d decimal.Decimal, places int32) bool {
	return !d.Equal(d.Truncate(places))
}

// validateInvoiceLines runs the struct tags and then the column scale checks.
func validateInvoiceLines(lines []NewInvoiceLine) error {
	for i, l := range lines {
		if err := utils.ValidateStruct(&l); err != nil {
			return fmt.Errorf("lines[%d]: %w", i, err)
		}
		if exceedsPlaces(l.Quantity, quantityPlaces) {
			return lineScaleError(i, "quantity", quantityPlaces)
		}
		if l.UnitPrice != nil && exceedsPlaces(*l.UnitPrice, pricePlaces) {
			return lineScaleError(i, "unitPrice", pricePlaces)
		}
		if l.TaxRate != nil && exceedsPlaces(*l.TaxRate, ratePlaces) {
			return lineScaleError(i, "taxRate", ratePlaces)
		}
	}
	return nil
}

func lineScaleError(i int, field string, places int) error {
	return &gst.ValidationError{
		Field:  fmt.Sprintf("lines[%d].%s", i, field),
		Reason: fmt.Sprintf("more than %d decimal places", places),
	}
}

// buildInvoiceLines resolves item defaults and computes tax for every line.
func buildInvoiceLines(ctx context.Context, tx *gorm.DB, organizationId uuid.UUID, supplier, customer gst.Jurisdiction, input []NewInvoiceLine) ([]InvoiceLine, gst.InvoiceTotals, error) {
	itemIds := make([]uuid.UUID, 0, len(input))
	for _, l := range input {
		itemIds = append(itemIds, l.ItemId)
	}
	itemIds = utils.UniqueSlice(itemIds)

	var items []Item
	if err := tx.WithContext(ctx).
		Where("organization_id = ? AND id IN ?", organizationId, itemIds).
		Find(&items).Error; err != nil {
		return nil, gst.InvoiceTotals{}, err
	}
	byId := make(map[uuid.UUID]Item, len(items))
	for _, it := range items {
		byId[it.ID] = it
	}

	lines := make([]InvoiceLine, 0, len(input))
	drafts := make([]gst.LineDraft, 0, len(input))
	for i, l := range input {
		item, ok := byId[l.ItemId]
		if !ok {
			return nil, gst.InvoiceTotals{}, fmt.Errorf("lines[%d]: item %s: %w", i, l.ItemId, utils.ErrorRecordNotFound)
		}
		line := InvoiceLine{
			ItemId:       item.ID,
			SortOrder:    i,
			Description:  l.Description,
			HsnCode:      item.HsnCode,
			Quantity:     l.Quantity,
			UnitPrice:    item.SellingPrice,
			TaxRate:      item.TaxRate,
			TaxInclusive: l.TaxInclusive,
		}
		if line.Description == "" {
			line.Description = item.Name
		}
		if l.UnitPrice != nil {
			line.UnitPrice = *l.UnitPrice
		}
		if l.TaxRate != nil {
			line.TaxRate = *l.TaxRate
		}
		lines = append(lines, line)
		drafts = append(drafts, gst.LineDraft{
			UnitPrice:      line.UnitPrice,
			Quantity:       line.Quantity,
			TaxRatePercent: line.TaxRate,
			PricingMode:    line.PricingMode(),
		})
	}

	totals, err := gst.RecomputeInvoiceTotals(supplier, customer, drafts)
	if err != nil {
		return nil, gst.InvoiceTotals{}, err
	}
	for i := range lines {
		applyBreakdown(&lines[i], totals.Lines[i])
	}
	return lines, totals, nil
}

func applyBreakdown(line *InvoiceLine, b gst.Breakdown) {
	line.TaxableValue = b.TaxableValue
	line.CGST = b.CGST
	line.SGST = b.SGST
	line.IGST = b.IGST
	line.TotalTax = b.TotalTax
	line.TotalAmount = b.TotalAmount
}

func applyTotals(inv *Invoice, totals gst.InvoiceTotals) {
	inv.Subtotal = totals.Subtotal
	inv.TotalTax = totals.TotalTax
	inv.GrandTotal = totals.GrandTotal
	inv.RoundOff = decimal.Zero
}

// CreateDraftInvoice computes every line through the tax engine and stores a Draft invoice.
func CreateDraftInvoice(ctx context.Context, input *NewInvoice) (*Invoice, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := validateInvoiceLines(input.Lines); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[Invoice](ctx, organizationId, "invoice_number", input.InvoiceNumber, uuid.Nil); err != nil {
		return nil, err
	}

	org, err := GetOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}
	contact, err := utils.FetchModel[Contact](ctx, organizationId, input.ContactId)
	if err != nil {
		return nil, fmt.Errorf("contact %s: %w", input.ContactId, err)
	}
	placeOfSupply := input.PlaceOfSupply
	if placeOfSupply == "" {
		placeOfSupply = contact.StateCode
	}

	invoice := Invoice{
		OrganizationId: organizationId,
		ContactId:      contact.ID,
		InvoiceNumber:  input.InvoiceNumber,
		InvoiceDate:    input.InvoiceDate,
		DueDate:        input.DueDate,
		Status:         InvoiceStatusDraft,
		PlaceOfSupply:  placeOfSupply,
		Notes:          input.Notes,
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, totals, err := buildInvoiceLines(ctx, tx, organizationId, org.Jurisdiction(), gst.Jurisdiction(placeOfSupply), input.Lines)
		if err != nil {
			return err
		}
		applyTotals(&invoice, totals)
		invoice.Lines = lines
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// UpdateDraftInvoiceLines replaces the lines of a Draft invoice and recomputes its totals.
func UpdateDraftInvoiceLines(ctx context.Context, id uuid.UUID, input *UpdateInvoiceLines) (*Invoice, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	if err := validateInvoiceLines(input.Lines); err != nil {
		return nil, err
	}
	org, err := GetOrganization(ctx, organizationId)
	if err != nil {
		return nil, err
	}

	var invoice Invoice
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("organization_id = ? AND id = ?", organizationId, id).
			First(&invoice).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorRecordNotFound
			}
			return err
		}
		if invoice.Status != InvoiceStatusDraft {
			return fmt.Errorf("%w: status is %s", ErrInvoiceNotDraft, invoice.Status)
		}
		if input.PlaceOfSupply != "" {
			invoice.PlaceOfSupply = input.PlaceOfSupply
		}

		lines, totals, err := buildInvoiceLines(ctx, tx, organizationId, org.Jurisdiction(), gst.Jurisdiction(invoice.PlaceOfSupply), input.Lines)
		if err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&InvoiceLine{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].InvoiceId = invoice.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}
		applyTotals(&invoice, totals)
		if err := tx.Model(&Invoice{}).Where("id = ?", invoice.ID).Updates(map[string]interface{}{
			"place_of_supply": invoice.PlaceOfSupply,
			"subtotal":        invoice.Subtotal,
			"total_tax":       invoice.TotalTax,
			"grand_total":     invoice.GrandTotal,
			"round_off":       invoice.RoundOff,
		}).Error; err != nil {
			return err
		}
		invoice.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	var invoice Invoice
	db := config.GetDB()
	err = db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("organization_id = ? AND id = ?", organizationId, id).
		First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// GetInvoiceHeader loads the invoice without its lines.
func GetInvoiceHeader(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	organizationId, err := organizationIdFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Invoice](ctx, organizationId, id)
}

func (l InvoiceLine) GetReferenceId() uuid.UUID {
	return l.InvoiceId
}
