package repository

import (
	"agent_academy_backend/internal/model"
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const leaderboardKey = "xp:leaderboard"

type ProgressRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewProgressRepository(db *gorm.DB, rdb *redis.Client) *ProgressRepository {
	return &ProgressRepository{DB: db, Redis: rdb}
}

func (r *ProgressRepository) FindByUserID(userID uint) (*model.UserProgress, error) {
	var prog model.UserProgress
	err := r.DB.Where("user_id = ?", userID).First(&prog).Error
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

func (r *ProgressRepository) FindChallengeProgress(userID, challengeID uint) (*model.ChallengeProgress, error) {
	var prog model.ChallengeProgress
	err := r.DB.Where("user_id = ? AND challenge_id = ?", userID, challengeID).First(&prog).Error
	if err != nil {
		return nil, err
	}
	return &prog, nil
}

// LeaderboardEntry is one row of the XP ranking.
type LeaderboardEntry struct {
	UserID uint `json:"userId"`
	XP     int  `json:"xp"`
}

// BumpLeaderboard mirrors an XP award into the redis sorted set. Best effort:
// the sorted set is a cache over user_progresses and can be rebuilt.
func (r *ProgressRepository) BumpLeaderboard(ctx context.Context, userID uint, xp int) error {
	if r.Redis == nil {
		return nil
	}
	return r.Redis.ZIncrBy(ctx, leaderboardKey, float64(xp), strconv.FormatUint(uint64(userID), 10)).Err()
}

// TopByXP reads the ranking from redis, rebuilding the cache from the
// database when it is empty or redis is not configured.
func (r *ProgressRepository) TopByXP(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if r.Redis != nil {
		entries, err := r.topFromRedis(ctx, limit)
		if err == nil && len(entries) > 0 {
			return entries, nil
		}
	}

	entries, err := r.topFromDB(limit)
	if err != nil {
		return nil, err
	}

	if r.Redis != nil && len(entries) > 0 {
		members := make([]*redis.Z, 0, len(entries))
		for _, e := range entries {
			members = append(members, &redis.Z{
				Score:  float64(e.XP),
				Member: strconv.FormatUint(uint64(e.UserID), 10),
			})
		}
		r.Redis.ZAdd(ctx, leaderboardKey, members...)
	}

	return entries, nil
}

func (r *ProgressRepository) topFromRedis(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	zs, err := r.Redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(member, 10, 32)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{UserID: uint(id), XP: int(z.Score)})
	}
	return entries, nil
}

func (r *ProgressRepository) topFromDB(limit int) ([]LeaderboardEntry, error) {
	var rows []model.UserProgress
	err := r.DB.Order("total_xp desc").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{UserID: row.UserID, XP: row.TotalXP})
	}
	return entries, nil
}
