package models

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func TestFindAccountsByName(t *testing.T) {
	org := uuid.New()
	chart := []Account{
		{ID: uuid.New(), OrganizationId: org, Name: AccountNameReceivable, Type: AccountTypeAsset},
		{ID: uuid.New(), OrganizationId: org, Name: AccountNameGST, Type: AccountTypeLiability},
		{ID: uuid.New(), OrganizationId: org, Name: "Bank", Type: AccountTypeAsset},
	}

	found, missing := FindAccountsByName(chart, AccountNameReceivable, AccountNameSales, AccountNameGST)
	if !reflect.DeepEqual(missing, []string{AccountNameSales}) {
		t.Fatalf("expected missing [%s], got %v", AccountNameSales, missing)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(found))
	}
	if found[AccountNameGST].ID != chart[1].ID {
		t.Fatalf("wrong gst account resolved")
	}
}

func TestAccountTypeDebitNormal(t *testing.T) {
	cases := map[AccountType]bool{
		AccountTypeAsset:     true,
		AccountTypeExpense:   true,
		AccountTypeLiability: false,
		AccountTypeEquity:    false,
		AccountTypeRevenue:   false,
	}
	for typ, want := range cases {
		if typ.DebitNormal() != want {
			t.Fatalf("%s: expected DebitNormal=%v", typ, want)
		}
	}
}
