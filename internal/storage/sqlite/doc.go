// Package sqlite stores staffing records and their keyword documents in an
// embedded SQLite database.
//
// The store is the persistence collaborator of the search core: it returns
// records with plain scalar fields and performs the keyword token containment
// query used for compulsory skills. It never computes keyword documents.
package sqlite
