// Package reservation implements per-account book reservations and the
// rules deciding who may see or cancel them.
//
// Access has two parts. OwnershipGuard checks a single reservation against
// the caller's account ID. PlanListing turns a caller and an optional owner
// filter into the effective scope of a listing: standard accounts only ever
// see their own reservations, elevated accounts see whatever they ask for.
//
// For a single reservation, a non-owner gets FORBIDDEN when it exists and
// NOT_FOUND when it does not. Cancelling deletes the record.
package reservation
