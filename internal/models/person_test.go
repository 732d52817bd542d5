package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPerson() *Person {
	return &Person{
		FirstName:  "Jan",
		LastName:   "Novak",
		Email:      "jan@x.cz",
		Phone:      "123456",
		Street:     "Hlavni 1",
		City:       "Praha",
		PostalCode: "11000",
	}
}

func TestPersonCheck(t *testing.T) {
	t.Run("valid person passes", func(t *testing.T) {
		assert.Equal(t, "", validPerson().Check())
	})

	tests := []struct {
		name   string
		mutate func(p *Person)
		want   string
	}{
		{"blank first name", func(p *Person) { p.FirstName = "  " }, MsgFirstNameRequired},
		{"blank last name", func(p *Person) { p.LastName = "" }, MsgLastNameRequired},
		{"bad email", func(p *Person) { p.Email = "a@b" }, MsgEmailInvalid},
		{"bad phone", func(p *Person) { p.Phone = "abc" }, MsgPhoneInvalid},
		{"blank street", func(p *Person) { p.Street = "" }, MsgStreetRequired},
		{"blank city", func(p *Person) { p.City = "\t" }, MsgCityRequired},
		{"bad postal code", func(p *Person) { p.PostalCode = "#1" }, MsgPostalCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPerson()
			tt.mutate(p)
			assert.Equal(t, tt.want, p.Check())
		})
	}

	t.Run("first failing rule wins", func(t *testing.T) {
		p := validPerson()
		p.City = ""
		p.Email = "broken"
		p.PostalCode = ""
		assert.Equal(t, MsgEmailInvalid, p.Check())
	})
}

func TestPersonString(t *testing.T) {
	p := validPerson()
	assert.Equal(t, "Jan Novak", p.FullName())
	assert.Equal(t, "Hlavni 1, Praha", p.Address())
	assert.Equal(t, "Jan Novak. Hlavni 1, Praha.", p.String())
}

func TestPersonSameFields(t *testing.T) {
	a := validPerson()
	b := validPerson()
	b.ID = 42
	assert.True(t, a.SameFields(b))

	b.Phone = "999"
	assert.False(t, a.SameFields(b))
}
