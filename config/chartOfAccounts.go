package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed chart_of_accounts.yaml
var defaultChartOfAccountsYAML []byte

type SeedAccount struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Code   string `yaml:"code"`
	System bool   `yaml:"system"`
}

type chartOfAccountsFile struct {
	Accounts []SeedAccount `yaml:"accounts"`
}

// DefaultChartOfAccounts returns the embedded seed accounts.
func DefaultChartOfAccounts() ([]SeedAccount, error) {
	return ParseChartOfAccounts(defaultChartOfAccountsYAML)
}

func ParseChartOfAccounts(data []byte) ([]SeedAccount, error) {
	var f chartOfAccountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse chart of accounts: %w", err)
	}
	seen := make(map[string]bool, len(f.Accounts))
	for _, a := range f.Accounts {
		if a.Name == "" {
			return nil, fmt.Errorf("parse chart of accounts: account without name")
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("parse chart of accounts: duplicate account %q", a.Name)
		}
		seen[a.Name] = true
	}
	return f.Accounts, nil
}
