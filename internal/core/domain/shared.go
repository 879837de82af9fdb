package domain

import "github.com/shopspring/decimal"

type ID string

func ValidateID(id string) bool {
	return len(id) == 24
}

func (id ID) String() string {
	return string(id)
}

// UniqueIDs returns ids without repetitions, keeping the order of first occurrence.
func UniqueIDs(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	unique := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}

func NewPrice(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(value)
}

func MustPrice(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

type Event interface {
	GetName() string
	GetEntityName() string
}
