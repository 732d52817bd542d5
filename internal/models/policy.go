package models

import (
	"fmt"
	"strconv"

	"github.com/mmynk/policydesk/internal/check"
)

// Validation messages returned by Policy.Check, in rule order.
const (
	MsgTitleRequired  = "Title is required"
	MsgObjectRequired = "Insured object is required"
	MsgAmountInvalid  = "Insured amount must be a positive number"
	MsgDatesReversed  = "Start date must not be later than end date"
)

// Policy represents an insurance policy.
type Policy struct {
	// ID is assigned by the store on insert.
	ID int64

	// Title is unique across all policies.
	Title string

	// InsuredAmount must be greater than zero.
	InsuredAmount float64

	// InsuredObject describes what is covered (e.g. "house", "car").
	InsuredObject string

	// StartDate and EndDate are opaque strings, normally YYYY-MM-DD.
	// They are compared lexicographically; no calendar parsing is done.
	StartDate string
	EndDate   string
}

// NewPolicy builds a policy from raw form values. An amount that does not
// parse as a positive number is stored as zero, so Check reports it.
func NewPolicy(title, amount, object, start, end string) *Policy {
	v, ok := check.PositiveNumber(amount)
	if !ok {
		v = 0
	}
	return &Policy{
		Title:         title,
		InsuredAmount: v,
		InsuredObject: object,
		StartDate:     start,
		EndDate:       end,
	}
}

// AmountText formats the insured amount without trailing zeros.
func (p *Policy) AmountText() string {
	return strconv.FormatFloat(p.InsuredAmount, 'f', -1, 64)
}

func (p *Policy) String() string {
	return fmt.Sprintf("%s, %s", p.Title, p.AmountText())
}

// Check returns the message of the first failing rule, or "" if the policy
// is valid.
func (p *Policy) Check() string {
	switch {
	case check.Blank(p.Title):
		return MsgTitleRequired
	case check.Blank(p.InsuredObject):
		return MsgObjectRequired
	case !(p.InsuredAmount > 0):
		return MsgAmountInvalid
	case p.StartDate > p.EndDate:
		return MsgDatesReversed
	}
	return ""
}

// SameFields reports whether both policies carry identical field values,
// ignoring the ID.
func (p *Policy) SameFields(o *Policy) bool {
	return p.Title == o.Title &&
		p.InsuredAmount == o.InsuredAmount &&
		p.InsuredObject == o.InsuredObject &&
		p.StartDate == o.StartDate &&
		p.EndDate == o.EndDate
}

// PolicyListing is a policy together with the number of persons holding it.
type PolicyListing struct {
	Policy  Policy
	Holders int
}
