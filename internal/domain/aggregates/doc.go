// Package aggregates defines domain-facing aggregate contracts.
//
// These contracts avoid persistence/transport implementation details and
// represent write boundaries where order, totals, product and junction rows
// must change together.
package aggregates
