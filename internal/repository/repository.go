package repository

import "chat-relay/bot/internal/interfaces"

// DefaultMaxHistory is the number of turns kept per user when no bound is
// configured.
const DefaultMaxHistory = 50

// Compile-time checks that both backends satisfy the HistoryStore contract.
var (
	_ interfaces.HistoryStore = (*MemoryRepository)(nil)
	_ interfaces.HistoryStore = (*SQLiteRepository)(nil)
)

func normalizeMax(maxHistory int) int {
	if maxHistory <= 0 {
		return DefaultMaxHistory
	}
	return maxHistory
}
