package models

import "time"

// Follow represents a directed follow edge: follower reads following's posts.
// The composite unique index keeps at most one row per ordered pair even when
// concurrent writers race past an application-level existence check.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_following"`
	FollowingID uint      `json:"following_id" gorm:"index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at"`
}
