package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rathee95/bookhub/internal/database"
	"github.com/rathee95/bookhub/internal/logs"
)

// PictureStore libère l'objet référencé par profile_pic.
type PictureStore interface {
	Delete(ctx context.Context, key string) error
}

func ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(ctx, &User{}, "email = ?", NormalizeEmail(email))
}

func ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(ctx, &User{}, "username = ?", username)
}

func ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists(ctx, &Profile{}, "phone_number = ?", phone)
}

func exists(ctx context.Context, model interface{}, query string, arg string) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(model).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create insère le compte et son profil dans la même transaction.
func Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
	u.Email = NormalizeEmail(u.Email)
	u.Profile.UserID = u.ID
	if u.Profile.Gender == "" {
		u.Profile.Gender = GenderUnspecified
	}
	if u.Profile.Contributor == "" {
		u.Profile.Contributor = ContributorUnspecified
	}

	if err := u.Validate(); err != nil {
		return err
	}

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}
		return tx.Create(&u.Profile).Error
	})
	if err != nil {
		if domainErr := constraintError(err); domainErr != nil {
			logs.LogJSON("WARN", "User creation rejected", map[string]interface{}{
				"error":    domainErr.Error(),
				"username": u.Username,
			})
			return domainErr
		}
		logs.LogJSON("ERROR", "Error creating user", map[string]interface{}{
			"error":    err.Error(),
			"username": u.Username,
		})
		return fmt.Errorf("create user: %w", err)
	}

	logs.LogJSON("INFO", "User created", map[string]interface{}{
		"userID":   u.ID,
		"username": u.Username,
	})
	return nil
}

func GetByID(ctx context.Context, id string) (*User, error) {
	return getBy(ctx, "id = ?", id)
}

func GetByUsername(ctx context.Context, username string) (*User, error) {
	return getBy(ctx, "username = ?", username)
}

func GetByEmail(ctx context.Context, email string) (*User, error) {
	return getBy(ctx, "email = ?", NormalizeEmail(email))
}

func getBy(ctx context.Context, query string, arg string) (*User, error) {
	var u User
	if err := database.DB.WithContext(ctx).Preload("Profile").Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile applique une mise à jour partielle du profil.
func UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) error {
	if err := in.Validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if in.Gender != nil {
		updates["gender"] = *in.Gender
	}
	if in.Contributor != nil {
		updates["contributor"] = *in.Contributor
	}
	if in.PhoneNumber != nil {
		updates["phone_number"] = *in.PhoneNumber
	}
	if in.ProfilePic != nil {
		updates["profile_pic"] = *in.ProfilePic
	}
	if in.ClearDOB {
		updates["dob"] = nil
	} else if in.DOB != nil {
		updates["dob"] = *in.DOB
	}

	return applyUpdates(ctx, &Profile{}, "user_id = ?", userID, updates)
}

// UpdateAccount applique une mise à jour partielle du compte.
func UpdateAccount(ctx context.Context, userID string, in AccountUpdate) error {
	if err := in.Validate(); err != nil {
		return err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Email != nil {
		updates["email"] = NormalizeEmail(*in.Email)
	}

	return applyUpdates(ctx, &User{}, "id = ?", userID, updates)
}

func applyUpdates(ctx context.Context, model interface{}, query, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	res := database.DB.WithContext(ctx).Model(model).Where(query, userID).Updates(updates)
	if res.Error != nil {
		if domainErr := constraintError(res.Error); domainErr != nil {
			logs.LogJSON("WARN", "User update rejected", map[string]interface{}{
				"error":  domainErr.Error(),
				"userID": userID,
			})
			return domainErr
		}
		logs.LogJSON("ERROR", "User update error", map[string]interface{}{
			"error":  res.Error.Error(),
			"userID": userID,
		})
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	logs.LogJSON("INFO", "User updated successfully", map[string]interface{}{
		"userID": userID,
	})
	return nil
}

// Delete supprime le compte, son profil, toutes les relations de suivi dans
// les deux sens et ses appartenances groupes/permissions. Retourne la clé de
// la photo de profil pour que l'appelant libère l'objet.
func Delete(ctx context.Context, id string) (string, error) {
	var pic string

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Profile{}).Select("profile_pic").Where("user_id = ?", id).Scan(&pic).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_following WHERE follower_id = ? OR followee_id = ?", id, id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_permissions WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&Profile{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		logs.LogJSON("ERROR", "Error deleting user", map[string]interface{}{
			"error":  err.Error(),
			"userID": id,
		})
		return "", fmt.Errorf("delete user: %w", err)
	}

	logs.LogJSON("INFO", "User deleted successfully", map[string]interface{}{
		"userID": id,
	})
	return pic, nil
}

// DeleteAccount supprime le compte puis la photo de profil stockée.
// Un échec côté stockage est journalisé sans annuler la suppression.
func DeleteAccount(ctx context.Context, id string, pics PictureStore) error {
	pic, err := Delete(ctx, id)
	if err != nil {
		return err
	}
	if pic == "" || pics == nil {
		return nil
	}

	if err := pics.Delete(ctx, pic); err != nil {
		logs.LogJSON("WARN", "Profile picture not released", map[string]interface{}{
			"error":  err.Error(),
			"userID": id,
			"key":    pic,
		})
	}
	return nil
}

func constraintError(err error) error {
	if e := uniqueError(err); e != nil {
		return e
	}
	return checkError(err)
}
