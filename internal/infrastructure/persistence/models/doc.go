// Package models contains the GORM persistence models of the ledger schema.
// They are kept apart from the domain read models in internal/domain/ledger,
// which carry no ORM tags; ToDomain and FromDomain convert between the two.
//
// Table and column names follow the SQL migrations under migrations/.
package models
