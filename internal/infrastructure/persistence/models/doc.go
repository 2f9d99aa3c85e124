// Package models contains GORM persistence models that map to database tables.
// Domain entities stay free of ORM tags; each model converts to and from its
// domain counterpart with ToDomain / FromDomain.
//
// Structure:
//   - base.go: BaseModel shared by all tables
//   - purchasing.go: products, product suppliers and supplier price tiers
//   - reference.go: units of measure and currency rates
//   - trade.go: purchase orders and their lines
//
// Numeric columns are unconstrained NUMERIC so configured price and discount
// digits are never truncated by the schema.
package models
