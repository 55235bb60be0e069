// Package schedule derives production timelines from event data.
//
// It contains the pure pieces of the workflow engine: date window
// arithmetic, the canonical four-phase generator (Pré-produção, Produção,
// Pós-produção, Entrega) anchored on an event date, and structural
// validation for manually submitted timelines. Nothing in this package
// performs I/O.
package schedule
