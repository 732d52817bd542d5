// Package models defines the domain records of the insurance register.
//
// # Records
//
//   - Person: an insured person with contact and address details
//   - Policy: an insurance policy describing coverage terms
//   - PolicyListing: a policy annotated with the number of its holders
//
// Records are plain values. Identifiers are assigned by the store on insert;
// a zero ID means the record has not been persisted yet.
//
// The association between persons and policies is not stored on either
// record. It lives in the link table and, in memory, in the policies
// collection of a mirrored person (see package mirror).
//
// Each record exposes Check, which returns the first failing rule as a
// human-readable message, or "" when the record is valid.
package models
