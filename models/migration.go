package models

import (
	"log"

	"bitbucket.org/communitydesk/hoa_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Unit{}, &Resident{},
		&Charge{},
		&Invoice{}, &InvoiceLineItem{}, &InvoicePayment{},
		&User{},
		&IdempotencyKey{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
