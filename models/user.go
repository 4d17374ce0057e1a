package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/communitydesk/hoa_backend/config"
	"bitbucket.org/communitydesk/hoa_backend/utils"
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleBoard   UserRole = "board"
)

type User struct {
	ID          int       `gorm:"primary_key" json:"id"`
	CommunityId string    `gorm:"index" json:"community_id"`
	Username    string    `gorm:"size:100;not null;unique" json:"username" binding:"required"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email       *string   `gorm:"size:100;unique" json:"email"`
	Password    string    `gorm:"size:255;not null" json:"-"`
	Role        UserRole  `gorm:"size:20;not null;default:'manager'" json:"role"`
	IsActive    *bool     `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	CommunityId string   `json:"community_id"`
	Username    string   `json:"username" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email"`
	Password    string   `json:"password" binding:"required"`
	Role        UserRole `json:"role"`
}

type LoginInfo struct {
	Token       string `json:"token"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	CommunityId string `json:"community_id"`
}

/*
caches:
	User:$username
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	var result LoginInfo

	user := User{}

	exists, err := config.GetRedisObject("User:"+username, &user)
	if err != nil {
		return &result, err
	}
	if !exists {
		err = db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Take(&user).Error
		if err != nil {
			return &result, errors.New("invalid username or password")
		}
		// best effort, login still works off the DB row when redis is down
		if err := config.SetRedisObject("User:"+user.Username, user, 30*time.Minute); err != nil {
			config.LogError(config.GetLogger(), "models", "Login", "cache user", user.Username, err)
		}
	}

	err = utils.ComparePassword(user.Password, password)
	if err != nil && err == bcrypt.ErrMismatchedHashAndPassword {
		return &result, errors.New("invalid username or password")
	}

	if user.IsActive == nil || !*user.IsActive {
		return &result, errors.New("user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, user.CommunityId, string(user.Role))
	if err != nil {
		return &result, err
	}

	result.Token = token
	result.Name = user.Username
	result.Role = string(user.Role)
	result.CommunityId = user.CommunityId

	return &result, nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return nil, errors.New("invalid email")
	}
	if input.Role == "" {
		input.Role = UserRoleManager
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var email *string
	if input.Email != "" {
		email = &input.Email
	}

	user := User{
		CommunityId: input.CommunityId,
		Username:    input.Username,
		Name:        input.Name,
		Email:       email,
		Password:    string(hashed),
		Role:        input.Role,
		IsActive:    utils.NewTrue(),
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, errors.New("username already exists")
	}
	user.PrepareGive()
	return &user, nil
}

func GetUserById(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchSingleModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}
