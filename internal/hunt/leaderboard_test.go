package hunt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehunt/onehuntbot/internal/models"
)

func TestTopByBalance(t *testing.T) {
	h, repo := newTestHunt(t)
	repo.addUser(&models.User{TelegramID: 1, Username: "bronze", Balance: 100})
	repo.addUser(&models.User{TelegramID: 2, Username: "gold", Balance: 300})
	repo.addUser(&models.User{TelegramID: 3, Username: "silver", Balance: 200})

	entries, err := h.TopByBalance(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "gold", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "silver", entries[1].Username)
	assert.Equal(t, "bronze", entries[2].Username)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestTopByLevel_XPBreaksTies(t *testing.T) {
	h, repo := newTestHunt(t)
	repo.addUser(&models.User{TelegramID: 1, Username: "low", Level: 2, XP: 10})
	repo.addUser(&models.User{TelegramID: 2, Username: "high", Level: 2, XP: 90})
	repo.addUser(&models.User{TelegramID: 3, Username: "top", Level: 5, XP: 0})

	entries, err := h.TopByLevel(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "top", entries[0].Username)
	assert.Equal(t, "high", entries[1].Username)
	assert.Equal(t, "low", entries[2].Username)
}

func TestTopReferrers(t *testing.T) {
	h, _ := newTestHunt(t)

	a := register(t, h, 1, "a", "")
	b := register(t, h, 2, "b", a.ReferralCode)
	register(t, h, 3, "c", a.ReferralCode)
	register(t, h, 4, "d", b.ReferralCode)

	stats, err := h.TopReferrers(10)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// a: two direct (b, c) plus one indirect (d).
	assert.Equal(t, a.ID, stats[0].UserID)
	assert.Equal(t, int64(2), stats[0].DirectCount)
	assert.Equal(t, int64(1), stats[0].IndirectCount)
	assert.Equal(t, int64(3), stats[0].TotalCount)

	assert.Equal(t, b.ID, stats[1].UserID)
	assert.Equal(t, int64(1), stats[1].TotalCount)
}

func TestUserRank(t *testing.T) {
	h, repo := newTestHunt(t)
	repo.addUser(&models.User{TelegramID: 1, Username: "rich", Balance: 1000, Level: 3})
	me := repo.addUser(&models.User{TelegramID: 2, Username: "me", Balance: 500, Level: 2, XP: 40})
	repo.addUser(&models.User{TelegramID: 3, Username: "poor", Balance: 100, Level: 2, XP: 10})

	rank, err := h.UserRank(me.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank.BalanceRank)
	assert.Equal(t, int64(2), rank.LevelRank)
	assert.Equal(t, int64(500), rank.Balance)
}
