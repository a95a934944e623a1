package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/database"
)

const (
	LoginMaxAttempts    = 5
	RegisterMaxAttempts = 3
	CheckoutMaxAttempts = 10

	LoginCooldown    = 15 * time.Minute
	RegisterCooldown = 30 * time.Minute
	CheckoutCooldown = 5 * time.Minute
)

// LoginRateLimit limite les tentatives de connexion par email
func LoginRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Lire le body puis le remettre aussitôt pour les handlers suivants,
		// quel que soit le chemin de sortie
		bodyBytes, _ := io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		if blocked(c, "login", input.Email, LoginMaxAttempts, LoginCooldown) {
			return
		}
		c.Next()
	}
}

// CheckoutRateLimit limite les confirmations de commande par utilisateur
func CheckoutRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}
		if blocked(c, "checkout", userID, CheckoutMaxAttempts, CheckoutCooldown) {
			return
		}
		RecordAttempt("checkout", userID, CheckoutCooldown)
		c.Next()
	}
}

// blocked incrémente/vérifie le compteur Redis et répond 429 si la limite est
// atteinte. Retourne true si la requête a été interrompue.
func blocked(c *gin.Context, scope, key string, max int, cooldown time.Duration) bool {
	ctx := context.Background()
	attemptsKey := fmt.Sprintf("%s_attempts:%s", scope, key)
	cooldownKey := fmt.Sprintf("%s_cooldown:%s", scope, key)

	if database.Redis.Exists(ctx, cooldownKey).Val() > 0 {
		ttl := database.Redis.TTL(ctx, cooldownKey).Val()
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       fmt.Sprintf("Too many attempts, retry in %d minute(s)", int(ttl.Minutes())+1),
			"retry_after": int(ttl.Seconds()),
		})
		c.Abort()
		return true
	}

	attempts, _ := database.Redis.Get(ctx, attemptsKey).Int()
	if attempts >= max {
		database.Redis.Set(ctx, cooldownKey, "1", cooldown)
		database.Redis.Del(ctx, attemptsKey)

		c.JSON(http.StatusTooManyRequests, gin.H{
			"error":       fmt.Sprintf("Too many attempts, retry in %d minute(s)", int(cooldown.Minutes())),
			"retry_after": int(cooldown.Seconds()),
		})
		c.Abort()
		return true
	}

	return false
}

// RecordAttempt incrémente le compteur d'un scope (appelé après un échec de
// login, ou à chaque confirmation de commande)
func RecordAttempt(scope, key string, window time.Duration) {
	ctx := context.Background()
	attemptsKey := fmt.Sprintf("%s_attempts:%s", scope, key)
	database.Redis.Incr(ctx, attemptsKey)
	database.Redis.Expire(ctx, attemptsKey, window)
}

// ClearAttempts remet le compteur à zéro (login réussi)
func ClearAttempts(scope, key string) {
	database.Redis.Del(context.Background(), fmt.Sprintf("%s_attempts:%s", scope, key))
}
