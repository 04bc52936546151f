package gamification

import "math"

// Badge tiers change every 5 levels and saturate at the highest rank.
var levelBadges = []string{"🔰", "🥉", "🥈", "🥇", "🎖️", "🛡️", "⭐", "🌟", "💎", "👑"}

// LevelInfo describes where a cumulative XP total sits on the level curve.
// XPRequiredForNextLevel is the span of the current level, not the absolute
// threshold; TotalXPRequired is the absolute XP at which the next level starts.
// swagger:model LevelInfo
type LevelInfo struct {
	Level                  int     `json:"level"`
	Badge                  string  `json:"badge"`
	XPInCurrentLevel       int     `json:"xpInCurrentLevel"`
	XPRequiredForNextLevel int     `json:"xpRequiredForNextLevel"`
	ProgressToNextLevel    float64 `json:"progressToNextLevel"`
	TotalXPRequired        int     `json:"totalXpRequired"`
}

// ResolveLevel maps cumulative XP onto the quadratic level curve:
// level n starts at (n-1)^2 * 100 XP.
func ResolveLevel(totalXP int) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}

	level := int(math.Sqrt(float64(totalXP)/100.0)) + 1
	currentThreshold := (level - 1) * (level - 1) * 100
	nextThreshold := level * level * 100
	span := nextThreshold - currentThreshold
	xpIn := totalXP - currentThreshold

	return LevelInfo{
		Level:                  level,
		Badge:                  LevelBadge(level),
		XPInCurrentLevel:       xpIn,
		XPRequiredForNextLevel: span,
		ProgressToNextLevel:    float64(xpIn) / float64(span),
		TotalXPRequired:        nextThreshold,
	}
}

// LevelBadge returns the badge glyph for a level, clamped to the top tier.
func LevelBadge(level int) string {
	idx := level / 5
	if idx < 0 {
		idx = 0
	}
	if idx >= len(levelBadges) {
		idx = len(levelBadges) - 1
	}
	return levelBadges[idx]
}
