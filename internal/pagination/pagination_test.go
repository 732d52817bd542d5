package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/policydesk/internal/models"
)

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, perPage, requested int
		wantPage, wantTotal       int
	}{
		{0, 3, 1, 1, 1},
		{7, 3, 1, 1, 3},
		{7, 3, 10, 3, 3},
		{6, 3, 2, 2, 2},
		{7, 3, 0, 1, 3},
		{7, 3, -4, 1, 3},
		{1, 3, 1, 1, 1},
		{10, 5, 3, 2, 2},
		{4, 0, 2, 2, 4},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("total=%d/per=%d/req=%d", tt.total, tt.perPage, tt.requested)
		t.Run(name, func(t *testing.T) {
			page, total := PageBounds(tt.total, tt.perPage, tt.requested)
			assert.Equal(t, tt.wantPage, page, "page")
			assert.Equal(t, tt.wantTotal, total, "total pages")
		})
	}
}

func TestSliceForPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, []int{1, 2, 3}, SliceForPage(items, 3, 1))
	assert.Equal(t, []int{4, 5, 6}, SliceForPage(items, 3, 2))
	assert.Equal(t, []int{7}, SliceForPage(items, 3, 3))
	assert.Empty(t, SliceForPage(items, 3, 4))
	assert.Empty(t, SliceForPage([]int{}, 3, 1))
}

func TestPaginate(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}

	p := Paginate(items, 3, 10)
	assert.Equal(t, []string{"g"}, p.Items)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())
	assert.Equal(t, 2, p.Prev())
	assert.Equal(t, 3, p.Next())

	first := Paginate(items, 3, 1)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())
	assert.Equal(t, 1, first.Prev())
	assert.Equal(t, 2, first.Next())

	empty := Paginate([]string{}, 3, 5)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 1, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

type fakeSource struct {
	persons  []*models.Person
	policies []models.PolicyListing
	err      error
}

func (f fakeSource) AllPersons(context.Context) ([]*models.Person, error) {
	return f.persons, f.err
}

func (f fakeSource) AllPolicies(context.Context) ([]models.PolicyListing, error) {
	return f.policies, f.err
}

func TestPersonsListing(t *testing.T) {
	src := fakeSource{}
	for i := 1; i <= 4; i++ {
		src.persons = append(src.persons, &models.Person{
			ID: int64(i), FirstName: "Jan", LastName: fmt.Sprintf("N%d", i),
			Street: "Hlavni 1", City: "Praha",
		})
	}

	page, err := Persons(context.Background(), src, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, PersonRow{FullName: "Jan N4", Address: "Hlavni 1, Praha", ID: 4}, page.Items[0])
}

func TestPoliciesListing(t *testing.T) {
	src := fakeSource{policies: []models.PolicyListing{
		{Policy: models.Policy{ID: 5, Title: "Home", InsuredAmount: 5000}, Holders: 2},
		{Policy: models.Policy{ID: 9, Title: "Car", InsuredAmount: 1250.5}, Holders: 0},
	}}

	page, err := Policies(context.Background(), src, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []PolicyRow{
		{ID: 5, Title: "Home", Amount: "5000", Holders: 2},
		{ID: 9, Title: "Car", Amount: "1250.5", Holders: 0},
	}, page.Items)
}

func TestListingErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := Persons(context.Background(), fakeSource{err: boom}, 3, 1)
	assert.ErrorIs(t, err, boom)
	_, err = Policies(context.Background(), fakeSource{err: boom}, 3, 1)
	assert.ErrorIs(t, err, boom)
}
