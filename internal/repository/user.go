package repository

import (
	"context"

	"mindscreen/internal/database"
	"mindscreen/internal/models"
)

func CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	user := &models.User{Email: email}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.WithContext(ctx).Create(user)
	return user, result.Error
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, "email = ?", email)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func UpdateUserPassword(ctx context.Context, userID int, newPassword string) error {
	user := &models.User{}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", user.Password).Error
}
