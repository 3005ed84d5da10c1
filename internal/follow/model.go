package follow

import (
	"time"
)

// Follow est une arête orientée : FollowerID suit FolloweeID.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID string    `json:"follower_id" gorm:"type:uuid;index"`
	FolloweeID string    `json:"followee_id" gorm:"type:uuid;index"`
}

func (Follow) TableName() string {
	return "user_following"
}

// Stats regroupe les compteurs d'un utilisateur.
type Stats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
}
