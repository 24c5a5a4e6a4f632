package model

import (
	"github.com/Laisky/errors/v2"
	"gorm.io/gorm"

	"github.com/widgetly/chat-api/common"
)

const (
	RoleBusinessUser = 1
	RoleManagerUser  = 10
	RoleAdmin        = 100
)

const (
	UserStatusEnabled  = 1 // don't use 0, 0 is the default value!
	UserStatusDisabled = 2 // also don't use 0
)

// User is an operator of the admin panel: platform administrators, support
// managers, and business customers who own bots and API keys.
type User struct {
	Id          int    `json:"id"`
	Username    string `json:"username" gorm:"uniqueIndex"`
	Password    string `json:"-" gorm:"not null"`
	DisplayName string `json:"display_name" gorm:"index"`
	Email       string `json:"email" gorm:"index"`
	Role        int    `json:"role" gorm:"type:int;default:1"`
	Status      int    `json:"status" gorm:"type:int;default:1"`
	CreatedAt   int64  `json:"created_at" gorm:"bigint;autoCreateTime:milli"`
	UpdatedAt   int64  `json:"updated_at" gorm:"bigint;autoUpdateTime:milli"`
}

func (user *User) Insert() error {
	if user.Password != "" {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}
	}
	return errors.Wrap(DB.Create(user).Error, "create user")
}

func (user *User) Update(updatePassword bool) error {
	if updatePassword {
		var err error
		user.Password, err = common.Password2Hash(user.Password)
		if err != nil {
			return errors.Wrap(err, "hash password")
		}
	} else {
		user.Password = ""
	}
	err := DB.Model(user).Omit("created_at").Updates(user).Error
	return errors.Wrapf(err, "update user %d", user.Id)
}

func (user *User) Delete() error {
	if user.Id == 0 {
		return errors.New("user id is empty")
	}
	err := DB.Delete(user).Error
	return errors.Wrapf(err, "delete user %d", user.Id)
}

func GetUserById(id int) (*User, error) {
	if id == 0 {
		return nil, errors.New("user id is empty")
	}
	var user User
	if err := DB.First(&user, "id = ?", id).Error; err != nil {
		return nil, errors.Wrapf(err, "get user by id %d", id)
	}
	return &user, nil
}

func GetAllUsers(startIdx int, num int) ([]*User, error) {
	var users []*User
	err := DB.Order("id desc").Limit(num).Offset(startIdx).Find(&users).Error
	return users, errors.Wrap(err, "list users")
}

func GetUserCount() (int64, error) {
	var count int64
	err := DB.Model(&User{}).Count(&count).Error
	return count, errors.Wrap(err, "count users")
}

func IsUserEnabled(id int) (bool, error) {
	var user User
	err := DB.Select("status").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "check user %d status", id)
	}
	return user.Status == UserStatusEnabled, nil
}
