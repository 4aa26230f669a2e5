package hunt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onehunt/onehuntbot/internal/models"
)

const (
	leaderboardCacheTTL   = time.Minute
	defaultLeaderboardTop = 100
)

// cachedLeaderboard serves a leaderboard from the Redis cache when possible,
// falling back to (and refilling from) fn.
func cachedLeaderboard[T any](h *Hunt, key string, fn func() (T, error)) (T, error) {
	if h.cache != nil {
		raw, err := h.cache.Get(context.Background(), key).Result()
		if err == nil {
			var cached T
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	if h.cache != nil {
		if raw, err := json.Marshal(result); err == nil {
			if err := h.cache.Set(context.Background(), key, raw, leaderboardCacheTTL).Err(); err != nil {
				h.logger.Debugw("Failed to cache leaderboard", "key", key, "error", err)
			}
		}
	}

	return result, nil
}

func clampLimit(limit int) int {
	if limit < 1 || limit > defaultLeaderboardTop {
		return defaultLeaderboardTop
	}
	return limit
}

func (h *Hunt) TopByBalance(limit int) ([]*models.LeaderboardEntry, error) {
	limit = clampLimit(limit)
	return cachedLeaderboard(h, fmt.Sprintf("leaderboard:balance:%d", limit), func() ([]*models.LeaderboardEntry, error) {
		users, err := h.repo.TopUsersByBalance(limit)
		if err != nil {
			return nil, err
		}
		return rankUsers(users), nil
	})
}

func (h *Hunt) TopByLevel(limit int) ([]*models.LeaderboardEntry, error) {
	limit = clampLimit(limit)
	return cachedLeaderboard(h, fmt.Sprintf("leaderboard:level:%d", limit), func() ([]*models.LeaderboardEntry, error) {
		users, err := h.repo.TopUsersByLevel(limit)
		if err != nil {
			return nil, err
		}
		return rankUsers(users), nil
	})
}

func (h *Hunt) TopReferrers(limit int) ([]*models.ReferrerStats, error) {
	limit = clampLimit(limit)
	return cachedLeaderboard(h, fmt.Sprintf("leaderboard:referrals:%d", limit), func() ([]*models.ReferrerStats, error) {
		return h.repo.TopReferrers(limit)
	})
}

func rankUsers(users []*models.User) []*models.LeaderboardEntry {
	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, &models.LeaderboardEntry{
			Rank:      i + 1,
			Username:  user.Username,
			FirstName: user.FirstName,
			Balance:   user.Balance,
			Level:     user.Level,
			XP:        user.XP,
		})
	}
	return entries
}

// UserRank reports the caller's own position by balance and by level.
func (h *Hunt) UserRank(userID uint) (*models.RankInfo, error) {
	user, err := h.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	higherBalance, err := h.repo.CountUsersWithHigherBalance(user.Balance)
	if err != nil {
		return nil, err
	}
	rankedAbove, err := h.repo.CountUsersRankedAbove(user.Level, user.XP)
	if err != nil {
		return nil, err
	}

	return &models.RankInfo{
		BalanceRank: higherBalance + 1,
		LevelRank:   rankedAbove + 1,
		Balance:     user.Balance,
		Level:       user.Level,
		XP:          user.XP,
	}, nil
}

func (h *Hunt) warmLeaderboardCaches() {
	if _, err := h.TopByBalance(defaultLeaderboardTop); err != nil {
		h.logger.Errorw("Failed to warm balance leaderboard", "error", err)
	}
	if _, err := h.TopByLevel(defaultLeaderboardTop); err != nil {
		h.logger.Errorw("Failed to warm level leaderboard", "error", err)
	}
	if _, err := h.TopReferrers(defaultLeaderboardTop); err != nil {
		h.logger.Errorw("Failed to warm referral leaderboard", "error", err)
	}
}

func (h *Hunt) invalidateLeaderboardCaches() {
	if h.cache == nil {
		return
	}

	ctx := context.Background()
	iter := h.cache.Scan(ctx, 0, "leaderboard:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := h.cache.Del(ctx, iter.Val()).Err(); err != nil {
			h.logger.Debugw("Failed to drop cached leaderboard", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		h.logger.Errorw("Failed to scan leaderboard cache keys", "error", err)
	}
}
