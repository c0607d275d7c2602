package config

import "testing"

func TestDefaultChartOfAccounts_HasPostingAccounts(t *testing.T) {
	accounts, err := DefaultChartOfAccounts()
	if err != nil {
		t.Fatalf("DefaultChartOfAccounts: %v", err)
	}
	want := map[string]string{
		"Accounts Receivable":  "Asset",
		"Sales Revenue":        "Revenue",
		"Duties & Taxes (GST)": "Liability",
	}
	for _, a := range accounts {
		if typ, ok := want[a.Name]; ok {
			if a.Type != typ {
				t.Fatalf("%s: expected type %s, got %s", a.Name, typ, a.Type)
			}
			if !a.System {
				t.Fatalf("%s: expected system account", a.Name)
			}
			delete(want, a.Name)
		}
	}
	if len(want) > 0 {
		t.Fatalf("missing posting accounts: %v", want)
	}
}

func TestParseChartOfAccounts_RejectsDuplicates(t *testing.T) {
	data := []byte("accounts:\n  - name: Bank\n    type: Asset\n  - name: Bank\n    type: Asset\n")
	if _, err := ParseChartOfAccounts(data); err == nil {
		t.Fatalf("expected duplicate account error")
	}
}
