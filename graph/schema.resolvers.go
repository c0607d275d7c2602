package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.41

import (
	"context"

	"github.com/google/uuid"
	"github.com/smsagro/books_backend/config"
	"github.com/smsagro/books_backend/graph/model"
	"github.com/smsagro/books_backend/gst"
	"github.com/smsagro/books_backend/middlewares"
	"github.com/smsagro/books_backend/models"
	"github.com/smsagro/books_backend/models/reports"
	"github.com/smsagro/books_backend/workflow"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Contact is the resolver for the contact field.
func (r *invoiceResolver) Contact(ctx context.Context, obj *models.Invoice) (*models.Contact, error) {
	return middlewares.GetContact(ctx, obj.ContactId)
}

// Lines is the resolver for the lines field.
func (r *invoiceResolver) Lines(ctx context.Context, obj *models.Invoice) ([]*models.InvoiceLine, error) {
	if obj.Lines != nil {
		lines := make([]*models.InvoiceLine, len(obj.Lines))
		for i := range obj.Lines {
			lines[i] = &obj.Lines[i]
		}
		return lines, nil
	}
	return middlewares.GetInvoiceLines(ctx, obj.ID)
}

// ComputeLineTax is the resolver for the computeLineTax field.
func (r *queryResolver) ComputeLineTax(ctx context.Context, input model.TaxLineInput) (*gst.Breakdown, error) {
	mode, err := pricingMode(input.PricingMode)
	if err != nil {
		return nil, err
	}
	b, err := gst.ComputeLineTax(gst.LineInput{
		UnitPrice:            input.UnitPrice,
		Quantity:             input.Quantity,
		TaxRatePercent:       input.TaxRatePercent,
		SupplierJurisdiction: gst.Jurisdiction(input.SupplierJurisdiction),
		CustomerJurisdiction: gst.Jurisdiction(input.CustomerJurisdiction),
		PricingMode:          mode,
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InvoiceTotals is the resolver for the invoiceTotals field.
func (r *queryResolver) InvoiceTotals(ctx context.Context, input model.InvoiceTotalsInput) (*gst.InvoiceTotals, error) {
	drafts := make([]gst.LineDraft, 0, len(input.Lines))
	for _, l := range input.Lines {
		mode, err := pricingMode(l.PricingMode)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, gst.LineDraft{
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			TaxRatePercent: l.TaxRatePercent,
			PricingMode:    mode,
		})
	}
	totals, err := gst.RecomputeInvoiceTotals(gst.Jurisdiction(input.SupplierJurisdiction), gst.Jurisdiction(input.CustomerJurisdiction), drafts)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// Organization is the resolver for the organization field.
func (r *queryResolver) Organization(ctx context.Context) (*models.Organization, error) {
	orgId, err := organizationId(ctx)
	if err != nil {
		return nil, err
	}
	return models.GetOrganization(ctx, orgId)
}

// Accounts is the resolver for the accounts field.
func (r *queryResolver) Accounts(ctx context.Context) ([]*models.Account, error) {
	orgId, err := organizationId(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := models.GetChartOfAccounts(ctx, orgId)
	if err != nil {
		return nil, err
	}
	results := make([]*models.Account, len(accounts))
	for i := range accounts {
		results[i] = &accounts[i]
	}
	return results, nil
}

// Contact is the resolver for the contact field.
func (r *queryResolver) Contact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.GetContact(ctx, id)
}

// Items is the resolver for the items field.
func (r *queryResolver) Items(ctx context.Context) ([]*models.Item, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.ListItems(ctx)
}

// Item is the resolver for the item field.
func (r *queryResolver) Item(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.GetItem(ctx, id)
}

// Invoice is the resolver for the invoice field.
func (r *queryResolver) Invoice(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	// lines resolve through the request's dataloader
	return models.GetInvoiceHeader(ctx, id)
}

// BalanceSheet is the resolver for the balanceSheet field.
func (r *queryResolver) BalanceSheet(ctx context.Context) (*reports.BalanceSheet, error) {
	orgId, err := organizationId(ctx)
	if err != nil {
		return nil, err
	}
	ctx, span := r.tracer().Start(ctx, "BalanceSheet", trace.WithAttributes(attribute.String("organization_id", orgId.String())))
	defer span.End()
	return reports.GetBalanceSheet(ctx, orgId)
}

// UnbalancedJournals is the resolver for the unbalancedJournals field.
func (r *queryResolver) UnbalancedJournals(ctx context.Context) ([]*reports.UnbalancedJournal, error) {
	orgId, err := organizationId(ctx)
	if err != nil {
		return nil, err
	}
	unbalanced, err := reports.CheckJournalBalances(ctx, orgId)
	if err != nil {
		return nil, err
	}
	results := make([]*reports.UnbalancedJournal, len(unbalanced))
	for i := range unbalanced {
		results[i] = &unbalanced[i]
	}
	return results, nil
}

// CreateOrganization is the resolver for the createOrganization field.
func (r *mutationResolver) CreateOrganization(ctx context.Context, input models.NewOrganization) (*models.Organization, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.CreateOrganization(ctx, &input)
}

// CreateAccount is the resolver for the createAccount field.
func (r *mutationResolver) CreateAccount(ctx context.Context, input models.NewAccount) (*models.Account, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.CreateAccount(ctx, &input)
}

// CreateContact is the resolver for the createContact field.
func (r *mutationResolver) CreateContact(ctx context.Context, input models.NewContact) (*models.Contact, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.CreateContact(ctx, &input)
}

// CreateItem is the resolver for the createItem field.
func (r *mutationResolver) CreateItem(ctx context.Context, input models.NewItem) (*models.Item, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.CreateItem(ctx, &input)
}

// CreateInvoice is the resolver for the createInvoice field.
func (r *mutationResolver) CreateInvoice(ctx context.Context, input models.NewInvoice) (*models.Invoice, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.CreateDraftInvoice(ctx, &input)
}

// UpdateInvoiceLines is the resolver for the updateInvoiceLines field.
func (r *mutationResolver) UpdateInvoiceLines(ctx context.Context, id uuid.UUID, input models.UpdateInvoiceLines) (*models.Invoice, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	return models.UpdateDraftInvoiceLines(ctx, id, &input)
}

// FinalizeInvoice is the resolver for the finalizeInvoice field.
func (r *mutationResolver) FinalizeInvoice(ctx context.Context, id uuid.UUID) (*workflow.FinalizeResult, error) {
	if err := databaseReady(); err != nil {
		return nil, err
	}
	ctx, span := r.tracer().Start(ctx, "FinalizeInvoice", trace.WithAttributes(attribute.String("invoice_id", id.String())))
	defer span.End()

	logger := config.GetLogger()
	var result *workflow.FinalizeResult
	err := workflow.WithInvoiceLock(ctx, logger, id, func(ctx context.Context) error {
		var ferr error
		result, ferr = workflow.FinalizeInvoice(ctx, workflow.NewGormStore(config.GetDB()), logger, id)
		return ferr
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	orgId := result.OrganizationId.String()
	if err := reports.InvalidateBalanceSheet(ctx, orgId); err != nil {
		config.LogError(logger, "schema.resolvers.go", "FinalizeInvoice", "invalidate balance sheet", orgId, err)
	}
	return result, nil
}

// Invoice returns InvoiceResolver implementation.
func (r *Resolver) Invoice() InvoiceResolver { return &invoiceResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type invoiceResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
