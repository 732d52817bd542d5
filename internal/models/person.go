package models

import (
	"fmt"

	"github.com/mmynk/policydesk/internal/check"
)

// Validation messages returned by Person.Check, in rule order.
const (
	MsgFirstNameRequired = "First name is required"
	MsgLastNameRequired  = "Last name is required"
	MsgEmailInvalid      = "E-mail address is missing or has an invalid format"
	MsgPhoneInvalid      = "Phone number is missing or has an invalid format"
	MsgStreetRequired    = "Street and house number are required"
	MsgCityRequired      = "City is required"
	MsgPostalCodeInvalid = "Postal code is missing or contains invalid characters"
)

// Person represents an insured person.
type Person struct {
	// ID is assigned by the store on insert.
	ID int64

	FirstName  string
	LastName   string
	Email      string
	Phone      string
	Street     string
	City       string
	PostalCode string
}

// FullName returns "First Last".
func (p *Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Address returns "Street, City".
func (p *Person) Address() string {
	return p.Street + ", " + p.City
}

func (p *Person) String() string {
	return fmt.Sprintf("%s. %s.", p.FullName(), p.Address())
}

// Check returns the message of the first failing rule, or "" if the person
// is valid. Rules are evaluated in field order.
func (p *Person) Check() string {
	switch {
	case check.Blank(p.FirstName):
		return MsgFirstNameRequired
	case check.Blank(p.LastName):
		return MsgLastNameRequired
	case !check.Email(p.Email):
		return MsgEmailInvalid
	case !check.Phone(p.Phone):
		return MsgPhoneInvalid
	case check.Blank(p.Street):
		return MsgStreetRequired
	case check.Blank(p.City):
		return MsgCityRequired
	case !check.PostalCode(p.PostalCode):
		return MsgPostalCodeInvalid
	}
	return ""
}

// SameFields reports whether both persons carry identical field values,
// ignoring the ID.
func (p *Person) SameFields(o *Person) bool {
	return p.FirstName == o.FirstName &&
		p.LastName == o.LastName &&
		p.Email == o.Email &&
		p.Phone == o.Phone &&
		p.Street == o.Street &&
		p.City == o.City &&
		p.PostalCode == o.PostalCode
}
