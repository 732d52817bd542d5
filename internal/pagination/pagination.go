// Package pagination splits the person and policy listings into pages.
package pagination

import (
	"context"
	"fmt"

	"github.com/mmynk/policydesk/internal/models"
)

// PageBounds returns the requested page clamped to [1, totalPages] together
// with the page count. An empty listing still has exactly one page.
// A perPage below 1 is treated as 1.
func PageBounds(totalItems, perPage, requestedPage int) (page, totalPages int) {
	perPage = max(perPage, 1)
	totalPages = max((totalItems+perPage-1)/perPage, 1)
	page = min(max(requestedPage, 1), totalPages)
	return page, totalPages
}

// SliceForPage returns items[(page-1)*perPage : page*perPage], cut to the
// bounds of items. Pages past the end yield an empty slice.
func SliceForPage[T any](items []T, perPage, page int) []T {
	perPage = max(perPage, 1)
	start := (max(page, 1) - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}

// Page is one page of a listing plus what a view needs to navigate.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
}

// Paginate clamps requestedPage and cuts items accordingly.
func Paginate[T any](items []T, perPage, requestedPage int) Page[T] {
	page, total := PageBounds(len(items), perPage, requestedPage)
	return Page[T]{
		Items:      SliceForPage(items, perPage, page),
		Page:       page,
		TotalPages: total,
	}
}

// HasPrev reports whether a previous page exists.
func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

// Prev returns the previous page number, never below 1.
func (p Page[T]) Prev() int { return max(p.Page-1, 1) }

// Next returns the next page number, never above TotalPages.
func (p Page[T]) Next() int { return min(p.Page+1, p.TotalPages) }

// PersonRow is one line of the person listing.
type PersonRow struct {
	FullName string
	Address  string
	ID       int64
}

// PolicyRow is one line of the policy listing.
type PolicyRow struct {
	ID      int64
	Title   string
	Amount  string
	Holders int
}

// PersonLister supplies every stored person.
type PersonLister interface {
	AllPersons(ctx context.Context) ([]*models.Person, error)
}

// PolicyLister supplies every stored policy with its holder count.
type PolicyLister interface {
	AllPolicies(ctx context.Context) ([]models.PolicyListing, error)
}

// Persons builds the requested page of the person listing.
func Persons(ctx context.Context, src PersonLister, perPage, requestedPage int) (Page[PersonRow], error) {
	persons, err := src.AllPersons(ctx)
	if err != nil {
		return Page[PersonRow]{}, fmt.Errorf("failed to load persons: %w", err)
	}

	rows := make([]PersonRow, len(persons))
	for i, p := range persons {
		rows[i] = PersonRow{FullName: p.FullName(), Address: p.Address(), ID: p.ID}
	}
	return Paginate(rows, perPage, requestedPage), nil
}

// Policies builds the requested page of the policy listing.
func Policies(ctx context.Context, src PolicyLister, perPage, requestedPage int) (Page[PolicyRow], error) {
	listings, err := src.AllPolicies(ctx)
	if err != nil {
		return Page[PolicyRow]{}, fmt.Errorf("failed to load policies: %w", err)
	}

	rows := make([]PolicyRow, len(listings))
	for i, l := range listings {
		rows[i] = PolicyRow{
			ID:      l.Policy.ID,
			Title:   l.Policy.Title,
			Amount:  l.Policy.AmountText(),
			Holders: l.Holders,
		}
	}
	return Paginate(rows, perPage, requestedPage), nil
}
