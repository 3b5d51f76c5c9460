// Package repository holds the classified employee snapshot and its indices.
package repository

import (
	"context"
	"time"

	"github.com/okian/abcboard/internal/domain/model"
)

// Entry is a classified employee with its position in the score ranking.
type Entry struct {
	Employee model.ClassifiedEmployee
	// Rank is 1-based over TotalScore desc; equal totals share a rank.
	Rank int
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	Department string
	Category   string
	Position   string
	// Query matches name, email, department, position or employee code, case-insensitively.
	Query    string
	MinScore *float64 // inclusive
	MaxScore *float64 // inclusive
	Limit    int      // 0 means no limit
}

// Store provides read access to the current snapshot and replaces it wholesale.
type Store interface {
	// Replace publishes a new snapshot. Readers never observe a partial write.
	Replace(ctx context.Context, employees []model.ClassifiedEmployee) error

	// Get resolves an employee by ID, employee code or email, in that order.
	// Returns ErrNotFound if nothing matches.
	Get(ctx context.Context, key string) (Entry, error)

	// All returns every employee in ingestion order.
	All(ctx context.Context) []model.ClassifiedEmployee

	// Find returns the employees matching f in ingestion order and the match
	// count before the limit was applied.
	Find(ctx context.Context, f Filter) ([]model.ClassifiedEmployee, int, error)

	// Departments returns the distinct department names, sorted.
	Departments(ctx context.Context) []string

	// Count returns the number of employees in the snapshot.
	Count(ctx context.Context) int

	// Version increments on every Replace.
	Version(ctx context.Context) uint64

	// LoadedAt returns when the current snapshot was published, zero before
	// the first Replace.
	LoadedAt(ctx context.Context) time.Time
}
