package game

import (
	"slices"
	"time"

	"github.com/quizdash/quizdash-backend/internal"
)

// TimeBonus converts elapsed answer time into bonus points. It decreases
// linearly from PointsTimeBonus at t=0 to zero at the limit.
func TimeBonus(taken, limit time.Duration) int {
	if taken <= 0 || taken >= limit {
		return 0
	}
	remaining := 1 - taken.Seconds()/limit.Seconds()
	return int(float64(internal.PointsTimeBonus) * remaining)
}

// RoundPoints computes the award for a correct answer. streak is the value
// after the increment for this round.
func RoundPoints(taken, limit time.Duration, streak int) int {
	return internal.PointsBase + TimeBonus(taken, limit) + streak*internal.StreakBonus
}

// Leaderboard ranks all players by score descending. Caller holds the game
// lock; the result shares nothing with the aggregate.
func Leaderboard(g *internal.Game) []internal.LeaderboardEntry {
	entries := make([]internal.LeaderboardEntry, 0, len(g.Players))
	for id, p := range g.Players {
		entries = append(entries, internal.LeaderboardEntry{
			PlayerID: id,
			Name:     p.Name,
			Score:    g.Scores[id],
			Streak:   g.Streaks[id],
		})
	}

	slices.SortFunc(entries, func(a, b internal.LeaderboardEntry) int {
		if a.Score != b.Score {
			return b.Score - a.Score
		}
		// Stable order for equal scores so broadcasts don't flap
		return slices.Compare([]byte(a.PlayerID), []byte(b.PlayerID))
	})
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}
