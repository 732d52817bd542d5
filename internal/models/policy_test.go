package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validPolicy() *Policy {
	return NewPolicy("Home", "5000", "house", "2024-01-01", "2024-12-31")
}

func TestNewPolicy(t *testing.T) {
	p := validPolicy()
	assert.Equal(t, "Home", p.Title)
	assert.Equal(t, 5000.0, p.InsuredAmount)
	assert.Equal(t, "house", p.InsuredObject)

	bad := NewPolicy("Home", "lots", "house", "2024-01-01", "2024-12-31")
	assert.Equal(t, 0.0, bad.InsuredAmount)

	negative := NewPolicy("Home", "-5", "house", "2024-01-01", "2024-12-31")
	assert.Equal(t, 0.0, negative.InsuredAmount)
}

func TestPolicyCheck(t *testing.T) {
	t.Run("valid policy passes", func(t *testing.T) {
		assert.Equal(t, "", validPolicy().Check())
	})

	t.Run("equal start and end dates pass", func(t *testing.T) {
		p := validPolicy()
		p.EndDate = p.StartDate
		assert.Equal(t, "", p.Check())
	})

	tests := []struct {
		name   string
		mutate func(p *Policy)
		want   string
	}{
		{"blank title", func(p *Policy) { p.Title = " " }, MsgTitleRequired},
		{"blank object", func(p *Policy) { p.InsuredObject = "" }, MsgObjectRequired},
		{"zero amount", func(p *Policy) { p.InsuredAmount = 0 }, MsgAmountInvalid},
		{"negative amount", func(p *Policy) { p.InsuredAmount = -1 }, MsgAmountInvalid},
		{"reversed dates", func(p *Policy) { p.StartDate = "2025-01-01" }, MsgDatesReversed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)
			assert.Equal(t, tt.want, p.Check())
		})
	}

	t.Run("object is checked before amount", func(t *testing.T) {
		p := NewPolicy("Home", "x", "", "2024-01-01", "2024-12-31")
		assert.Equal(t, MsgObjectRequired, p.Check())
	})
}

func TestPolicyString(t *testing.T) {
	p := validPolicy()
	assert.Equal(t, "Home, 5000", p.String())

	p.InsuredAmount = 1250.5
	assert.Equal(t, "1250.5", p.AmountText())
}
