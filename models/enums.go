package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "Draft"
	InvoiceStatusSent  InvoiceStatus = "Sent"
	InvoiceStatusPaid  InvoiceStatus = "Paid"
	InvoiceStatusVoid  InvoiceStatus = "Void"
)

func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusVoid:
		return true
	}
	return false
}

func (s *InvoiceStatus) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "invoice status", (*string)(s), func() bool { return s.IsValid() })
}

func (s *InvoiceStatus) UnmarshalGQL(v interface{}) error {
	return unmarshalGQLEnum(v, "invoice status", (*string)(s), func() bool { return s.IsValid() })
}

func (s InvoiceStatus) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(s)))
}

type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeEquity    AccountType = "Equity"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
)

func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether a debit increases the account balance.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

func (t *AccountType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "account type", (*string)(t), func() bool { return t.IsValid() })
}

func (t *AccountType) UnmarshalGQL(v interface{}) error {
	return unmarshalGQLEnum(v, "account type", (*string)(t), func() bool { return t.IsValid() })
}

func (t AccountType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(t)))
}

type ContactType string

const (
	ContactTypeCustomer ContactType = "Customer"
	ContactTypeVendor   ContactType = "Vendor"
)

func (t ContactType) IsValid() bool {
	return t == ContactTypeCustomer || t == ContactTypeVendor
}

func (t *ContactType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "contact type", (*string)(t), func() bool { return t.IsValid() })
}

func (t *ContactType) UnmarshalGQL(v interface{}) error {
	return unmarshalGQLEnum(v, "contact type", (*string)(t), func() bool { return t.IsValid() })
}

func (t ContactType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(t)))
}

type ItemType string

const (
	ItemTypeGoods   ItemType = "Goods"
	ItemTypeService ItemType = "Service"
)

func (t ItemType) IsValid() bool {
	return t == ItemTypeGoods || t == ItemTypeService
}

func (t *ItemType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, "item type", (*string)(t), func() bool { return t.IsValid() })
}

func (t *ItemType) UnmarshalGQL(v interface{}) error {
	return unmarshalGQLEnum(v, "item type", (*string)(t), func() bool { return t.IsValid() })
}

func (t ItemType) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(string(t)))
}

// JournalReferenceType names the source document of a journal entry.
type JournalReferenceType string

const (
	JournalReferenceInvoice JournalReferenceType = "Invoice"
	JournalReferencePayment JournalReferenceType = "Payment"
)

func unmarshalEnum(b []byte, name string, dst *string, valid func() bool) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("%s must be string", name)
	}
	return unmarshalGQLEnum(str, name, dst, valid)
}

func unmarshalGQLEnum(v interface{}, name string, dst *string, valid func() bool) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("%s must be string", name)
	}
	*dst = str
	if !valid() {
		return fmt.Errorf("invalid %s %q", name, str)
	}
	return nil
}
