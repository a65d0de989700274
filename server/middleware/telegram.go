package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// TelegramUser is the identity embedded in a WebApp init payload
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// ValidateInitData verifies the HMAC-SHA256 signature of a Telegram WebApp
// init payload and returns the embedded user. The data-check-string is the
// sorted key=value pairs excluding hash, joined by newlines; the secret key
// is HMAC-SHA256 of the bot token keyed with "WebAppData".
func ValidateInitData(botToken, initData string) (*TelegramUser, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token not configured")
	}

	params, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("malformed init data: %w", err)
	}

	hash := params.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("init data missing hash")
	}

	var keys []string
	for k := range params {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var dataCheckParts []string
	for _, k := range keys {
		dataCheckParts = append(dataCheckParts, k+"="+params.Get(k))
	}
	dataCheckString := strings.Join(dataCheckParts, "\n")

	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(botToken))

	h := hmac.New(sha256.New, secretKey.Sum(nil))
	h.Write([]byte(dataCheckString))
	calculatedHash := hex.EncodeToString(h.Sum(nil))

	if !hmac.Equal([]byte(calculatedHash), []byte(hash)) {
		return nil, fmt.Errorf("init data signature mismatch")
	}

	userJSON := params.Get("user")
	if userJSON == "" {
		return nil, fmt.Errorf("init data missing user")
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("malformed init data user: %w", err)
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("init data user has no id")
	}

	return &user, nil
}

// DisplayName builds the stored username for an account: the handle when
// present, otherwise the first/last name.
func (u *TelegramUser) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	return name
}
