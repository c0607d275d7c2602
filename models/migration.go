package models

import (
	"log"

	"github.com/smsagro/books_backend/config"
	"gorm.io/gorm"
)

func MigrateTable() {
	if err := AutoMigrate(config.GetDB()); err != nil {
		log.Fatal(err)
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organization{}, &Contact{}, &Item{},
		&Account{}, &JournalEntry{}, &LedgerEntry{},
		&Invoice{}, &InvoiceLine{},
		&OutboxEvent{},
	)
}
