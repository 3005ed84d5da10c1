package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rathee95/bookhub/internal/database"
	"github.com/rathee95/bookhub/internal/logs"
	"github.com/rathee95/bookhub/internal/user"
)

var (
	ErrSelfFollow       = errors.New("a user cannot follow themselves")
	ErrAlreadyFollowing = errors.New("already following this user")
	ErrUserNotFound     = errors.New("user not found")
)

// FollowUser crée l'arête followerID -> followeeID.
func FollowUser(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		logs.LogJSON("WARN", "Impossible to follow yourself", map[string]interface{}{
			"userID": followerID,
		})
		return ErrSelfFollow
	}

	var count int64
	if err := database.DB.WithContext(ctx).Model(&user.User{}).Where("id = ?", followeeID).Count(&count).Error; err != nil {
		return fmt.Errorf("check followee: %w", err)
	}
	if count == 0 {
		return ErrUserNotFound
	}

	newFollow := Follow{
		CreatedAt:  time.Now().UTC(),
		FollowerID: followerID,
		FolloweeID: followeeID,
	}

	if err := database.DB.WithContext(ctx).Create(&newFollow).Error; err != nil {
		if _, ok := database.UniqueViolation(err); ok {
			logs.LogJSON("WARN", "Already followed", map[string]interface{}{
				"userID": followerID,
				"extra":  fmt.Sprintf("followeeID : %s", followeeID),
			})
			return ErrAlreadyFollowing
		}
		if _, ok := database.ForeignKeyViolation(err); ok {
			return ErrUserNotFound
		}
		if _, ok := database.CheckViolation(err); ok {
			return ErrSelfFollow
		}
		logs.LogJSON("ERROR", "Error adding follow", map[string]interface{}{
			"error":  err.Error(),
			"userID": followerID,
			"extra":  fmt.Sprintf("followeeID : %s", followeeID),
		})
		return fmt.Errorf("create follow: %w", err)
	}

	logs.LogJSON("INFO", "Followed user", map[string]interface{}{
		"userID": followerID,
		"extra":  fmt.Sprintf("followeeID : %s", followeeID),
	})
	return nil
}

// UnfollowUser supprime l'arête si elle existe.
func UnfollowUser(ctx context.Context, followerID, followeeID string) error {
	if err := database.DB.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&Follow{}).Error; err != nil {
		logs.LogJSON("ERROR", "Error unfollow", map[string]interface{}{
			"error":  err.Error(),
			"userID": followerID,
			"extra":  fmt.Sprintf("followeeID : %s", followeeID),
		})
		return fmt.Errorf("delete follow: %w", err)
	}

	logs.LogJSON("INFO", "User unfollow", map[string]interface{}{
		"userID": followerID,
		"extra":  fmt.Sprintf("followeeID : %s", followeeID),
	})
	return nil
}

// Following retourne les utilisateurs suivis par userID.
func Following(ctx context.Context, userID string) ([]user.User, error) {
	return related(ctx, "user_following.followee_id", "user_following.follower_id", userID)
}

// Followers retourne les utilisateurs qui suivent userID.
func Followers(ctx context.Context, userID string) ([]user.User, error) {
	return related(ctx, "user_following.follower_id", "user_following.followee_id", userID)
}

func related(ctx context.Context, joinCol, whereCol, userID string) ([]user.User, error) {
	var users []user.User
	if err := database.DB.WithContext(ctx).
		Model(&user.User{}).
		Preload("Profile").
		Joins("JOIN user_following ON "+joinCol+" = users.id").
		Where(whereCol+" = ?", userID).
		Order("user_following.created_at DESC").
		Find(&users).Error; err != nil {
		logs.LogJSON("ERROR", "Error retrieving related users", map[string]interface{}{
			"error":  err.Error(),
			"userID": userID,
		})
		return nil, err
	}
	return users, nil
}

// IsFollowing indique si followerID suit followeeID.
func IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var f Follow
	err := database.DB.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&f).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Counts retourne le nombre d'abonnés et d'abonnements.
func Counts(ctx context.Context, userID string) (Stats, error) {
	var s Stats
	db := database.DB.WithContext(ctx)

	if err := db.Model(&Follow{}).Where("followee_id = ?", userID).Count(&s.FollowersCount).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&Follow{}).Where("follower_id = ?", userID).Count(&s.FollowingCount).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}
