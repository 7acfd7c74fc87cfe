package calculator

import (
	"sort"
)

// Tolerance is the amount below which a balance or transfer counts as zero.
const Tolerance = 1e-9

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberName string
	NetBalance float64 // Positive = owed money, Negative = owes money
	TotalPaid  float64 // Total amount paid across all entries
	TotalOwed  float64 // Total of this member's shares
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// Settle computes the transfers that bring every balance to zero.
//
// Algorithm:
//   - Rank members by net balance ascending, ties broken by name
//   - Keep a running adjustment per member, starting at zero
//   - For each sender in ascending rank, visit receivers in descending rank;
//     while the receiver is still owed money, the sender pays
//     min(|sender adjusted|, receiver adjusted)
//   - Edges are returned in emission order
//
// This is a greedy sweep: it always zeroes every balance but does not search
// for the globally smallest number of transfers.
func Settle(balances []MemberBalance) []DebtEdge {
	ranked := make([]MemberBalance, len(balances))
	copy(ranked, balances)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].NetBalance != ranked[j].NetBalance {
			return ranked[i].NetBalance < ranked[j].NetBalance
		}
		return ranked[i].MemberName < ranked[j].MemberName
	})

	adjust := make(map[string]float64, len(ranked))

	var edges []DebtEdge
	for _, sender := range ranked {
		for k := len(ranked) - 1; k >= 0; k-- {
			receiver := ranked[k]
			if receiver.MemberName == sender.MemberName {
				continue
			}

			senderBalance := sender.NetBalance + adjust[sender.MemberName]
			receiverBalance := receiver.NetBalance + adjust[receiver.MemberName]

			// Only debtors pay, and only to members still owed money.
			if senderBalance > -Tolerance || receiverBalance <= Tolerance {
				continue
			}

			amount := -senderBalance
			if receiverBalance < amount {
				amount = receiverBalance
			}
			if amount <= Tolerance {
				continue
			}

			adjust[sender.MemberName] += amount
			adjust[receiver.MemberName] -= amount
			edges = append(edges, DebtEdge{
				From:   sender.MemberName,
				To:     receiver.MemberName,
				Amount: amount,
			})
		}
	}

	return edges
}
