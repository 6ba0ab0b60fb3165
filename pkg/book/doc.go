// Package book holds the catalog reservations are made against.
// Anyone may browse; creating, editing and removing entries is limited to
// the elevated role.
package book
