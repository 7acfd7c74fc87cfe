package calculator

import (
	"fmt"
)

// EqualShare returns one recipient's share of amount when it is split evenly
// among recipientCount people.
func EqualShare(amount float64, recipientCount int) (float64, error) {
	if recipientCount < 1 {
		return 0, fmt.Errorf("must have at least one recipient")
	}
	return amount / float64(recipientCount), nil
}

// SplitEqually maps every recipient to their equal share of amount.
// Duplicate names count once.
func SplitEqually(amount float64, recipients []string) (map[string]float64, error) {
	unique := make([]string, 0, len(recipients))
	seen := make(map[string]bool, len(recipients))
	for _, r := range recipients {
		if seen[r] {
			continue
		}
		seen[r] = true
		unique = append(unique, r)
	}

	share, err := EqualShare(amount, len(unique))
	if err != nil {
		return nil, err
	}

	splits := make(map[string]float64, len(unique))
	for _, r := range unique {
		splits[r] = share
	}
	return splits, nil
}
