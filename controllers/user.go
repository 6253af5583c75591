package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/utils"
)

// reservedUsernames are static segments under /api/users that would shadow
// the public pages of a user with the same name.
var reservedUsernames = map[string]bool{
	"profile":        true,
	"time-intervals": true,
}

// RegisterUser claims a username. The new user id is kept in a cookie so
// the Google sign in that follows can be linked to it.
func RegisterUser(c *fiber.Ctx) error {
	var input models.RegisterUserInput
	if err := c.BodyParser(&input); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Name = strings.TrimSpace(input.Name)
	if fields := utils.Validate(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	username := strings.ToLower(input.Username)
	if reservedUsernames[username] {
		return utils.ErrUsernameTaken
	}
	tx := db.DB.WithContext(c.UserContext())

	var count int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return utils.ErrUsernameTaken
	}

	user := models.User{Username: username, Name: input.Name}
	if err := tx.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     utils.RegistrationCookie,
		Value:    user.ID,
		Path:     "/",
		MaxAge:   int(utils.RegistrationTTL.Seconds()),
		HTTPOnly: true,
		Secure:   !config.Cfg.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	logger.Log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("username claimed")
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetProfile returns the signed in user's profile.
func GetProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// UpdateProfile sets the signed in user's bio.
func UpdateProfile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input models.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Cannot parse JSON")
	}
	input.Bio = strings.TrimSpace(input.Bio)
	if fields := utils.Validate(input); fields != nil {
		return utils.ValidationError(c, fields)
	}

	if err := db.DB.WithContext(c.UserContext()).Model(user).Update("bio", input.Bio).Error; err != nil {
		return fmt.Errorf("update bio: %w", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateAvatar uploads a new profile picture to Cloudinary.
func UpdateAvatar(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	if utils.Avatars == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "Avatar upload is not configured")
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		return utils.JSONError(c, fiber.StatusBadRequest, "Avatar file is required")
	}
	if ct := header.Header.Get(fiber.HeaderContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		return utils.JSONError(c, fiber.StatusBadRequest, "Avatar must be an image")
	}

	file, err := header.Open()
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer file.Close()

	url, err := utils.Avatars.UploadAvatar(c.UserContext(), file, user.ID)
	if err != nil {
		logger.Log.Error().Err(err).Str("user_id", user.ID).Msg("avatar upload failed")
		return utils.JSONError(c, fiber.StatusBadGateway, "Failed to upload avatar")
	}

	if err := db.DB.WithContext(c.UserContext()).Model(user).Update("avatar_url", url).Error; err != nil {
		return fmt.Errorf("update avatar: %w", err)
	}
	return c.JSON(fiber.Map{"avatar_url": url})
}

// GetPublicProfile is what the booking page shows about its owner.
func GetPublicProfile(c *fiber.Ctx) error {
	user, err := findUserByUsername(c)
	if err != nil {
		return err
	}
	return c.JSON(user.Public())
}

func findUserByUsername(c *fiber.Ctx) (*models.User, error) {
	username := strings.ToLower(c.Params("username"))
	var user models.User
	err := db.DB.WithContext(c.UserContext()).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &user, nil
}
