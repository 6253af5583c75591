package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"gorm.io/gorm"

	"github.com/meinhoongagan/ignite-call/config"
	"github.com/meinhoongagan/ignite-call/db"
	"github.com/meinhoongagan/ignite-call/logger"
	"github.com/meinhoongagan/ignite-call/middleware"
	"github.com/meinhoongagan/ignite-call/models"
	"github.com/meinhoongagan/ignite-call/utils"
)

const (
	connectCalendarPath = "/register/connect-calendar"
	registerPath        = "/register"
	oauthStateTTL       = 10 * time.Minute
)

var errNotRegistered = errors.New("no registered user to link the account to")

// GoogleSignIn redirects the browser to the Google consent screen.
func GoogleSignIn(c *fiber.Ctx) error {
	if utils.OAuth == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "Google sign in is not configured")
	}

	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     utils.OAuthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  utils.Now().Add(oauthStateTTL),
		HTTPOnly: true,
		Secure:   !config.Cfg.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(utils.OAuth.AuthCodeURL(state), fiber.StatusTemporaryRedirect)
}

// GoogleCallback finishes the OAuth flow. The Google account is linked to the
// user that registered a username in this browser, or to the user already
// owning the account, and a session cookie is issued.
func GoogleCallback(c *fiber.Ctx) error {
	if utils.OAuth == nil {
		return utils.JSONError(c, fiber.StatusServiceUnavailable, "Google sign in is not configured")
	}

	state := c.Cookies(utils.OAuthStateCookie)
	c.ClearCookie(utils.OAuthStateCookie)
	if state == "" || c.Query("state") != state {
		return utils.JSONError(c, fiber.StatusBadRequest, "Invalid OAuth state")
	}

	if c.Query("error") != "" {
		return redirectToApp(c, connectCalendarPath+"?error=permissions")
	}

	ctx := c.UserContext()
	tok, err := utils.OAuth.Exchange(ctx, c.Query("code"))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("oauth code exchange failed")
		return utils.JSONError(c, fiber.StatusBadRequest, "Could not sign in with Google")
	}

	scope := utils.GrantedScope(tok)
	if !utils.HasScope(scope, calendar.CalendarScope) {
		return redirectToApp(c, connectCalendarPath+"?error=permissions")
	}

	profile, err := utils.OAuth.Profile(ctx, tok)
	if err != nil {
		return fmt.Errorf("oauth callback: %w", err)
	}

	user, err := linkGoogleAccount(ctx, c.Cookies(utils.RegistrationCookie), profile, tok, scope)
	if errors.Is(err, errNotRegistered) {
		return redirectToApp(c, registerPath+"?error=not-registered")
	}
	if err != nil {
		return fmt.Errorf("oauth callback: %w", err)
	}

	c.ClearCookie(utils.RegistrationCookie)
	if err := setSessionCookie(c, user); err != nil {
		return err
	}

	logger.Log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user signed in")
	return redirectToApp(c, connectCalendarPath)
}

// linkGoogleAccount finds or creates the Account for profile and returns its user.
func linkGoogleAccount(ctx context.Context, registeredUserID string, profile *utils.GoogleProfile, tok *oauth2.Token, scope string) (*models.User, error) {
	var user models.User
	err := db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		err := tx.Where("provider = ? AND provider_account_id = ?", models.ProviderGoogle, profile.ID).
			Take(&account).Error
		switch {
		case err == nil:
			if err := tx.First(&user, "id = ?", account.UserID).Error; err != nil {
				return fmt.Errorf("load account user: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := findUserToLink(tx, registeredUserID, profile.Email, &user); err != nil {
				return err
			}
			account = models.Account{
				UserID:            user.ID,
				Type:              "oauth",
				Provider:          models.ProviderGoogle,
				ProviderAccountID: profile.ID,
			}
		default:
			return fmt.Errorf("find account: %w", err)
		}

		account.SetToken(tok)
		account.Scope = &scope
		if idToken, ok := tok.Extra("id_token").(string); ok && idToken != "" {
			account.IDToken = &idToken
		}
		if err := tx.Save(&account).Error; err != nil {
			return fmt.Errorf("save account: %w", err)
		}

		updates := map[string]interface{}{}
		if profile.Email != "" && user.Email == nil {
			updates["email"] = profile.Email
		}
		if profile.Picture != "" {
			updates["avatar_url"] = profile.Picture
		}
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return fmt.Errorf("update user profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func findUserToLink(tx *gorm.DB, registeredUserID, email string, user *models.User) error {
	if registeredUserID != "" {
		err := tx.First(user, "id = ?", registeredUserID).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find registered user: %w", err)
		}
	}
	if email != "" {
		err := tx.First(user, "email = ?", email).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find user by email: %w", err)
		}
	}
	return errNotRegistered
}

// SignOut drops the session cookie.
func SignOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   !config.Cfg.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// GetSession returns the signed in user.
func GetSession(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user.Session()})
}

func setSessionCookie(c *fiber.Ctx, user *models.User) error {
	token, expires, err := utils.IssueSession(user, config.Cfg.JWTSecret, config.Cfg.SessionTTL)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   !config.Cfg.IsDevelopment(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// currentUser loads the user of the session set by middleware.Protected.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil, utils.ErrUnauthorized
	}
	var user models.User
	err := db.DB.WithContext(c.UserContext()).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load session user: %w", err)
	}
	return &user, nil
}

func redirectToApp(c *fiber.Ctx, path string) error {
	return c.Redirect(config.Cfg.AppURL+path, fiber.StatusTemporaryRedirect)
}
