package application

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"net/url"
	"strings"
)

const (
	// UserIDPlaceholder is left in admin-facing confirmation URLs for the
	// short-link service to substitute with the visitor's Telegram ID.
	UserIDPlaceholder = "{user_id}"

	// Telegram accepts at most 64 characters from [A-Za-z0-9_-] in a start parameter.
	maxParsingTokenLen = 64
	maxSlugLen         = 20
	randomPartLen      = 32
	codeBytes          = 32

	base62 = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Issuer produces the admin-facing artifacts of a new file: the public
// parsing token, the secret verification code and the confirmation URL.
type Issuer struct{}

func NewIssuer() *Issuer {
	return &Issuer{}
}

// IssueParsingToken returns "<slug>_<random>". The slug is the file name
// reduced to the deep-link allow-list; the random part carries ~190 bits.
func (i *Issuer) IssueParsingToken(fileName string) (string, error) {
	random, err := randomString(randomPartLen)
	if err != nil {
		return "", fmt.Errorf("failed to issue parsing token: %w", err)
	}
	return slugify(fileName) + "_" + random, nil
}

// IssueVerificationCode returns 256 random bits, base64url encoded.
func (i *Issuer) IssueVerificationCode() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to issue verification code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// BuildConfirmationURL assembles the GET /verify callback URL. userID is
// either a decimal ID or UserIDPlaceholder, which is kept unescaped.
func (i *Issuer) BuildConfirmationURL(baseURL, userID, fileID, code string) string {
	rest := url.Values{}
	rest.Set("file_id", fileID)
	rest.Set("code", code)

	uid := userID
	if userID != UserIDPlaceholder {
		uid = url.QueryEscape(userID)
	}
	return strings.TrimRight(baseURL, "/") + "/verify?uid=" + uid + "&" + rest.Encode()
}

// ValidParsingToken reports whether token only uses the deep-link allow-list.
func ValidParsingToken(token string) bool {
	if token == "" || len(token) > maxParsingTokenLen {
		return false
	}
	for _, r := range token {
		if !allowed(r) {
			return false
		}
	}
	return true
}

func allowed(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-'
}

func slugify(fileName string) string {
	var b strings.Builder
	for _, r := range fileName {
		if b.Len() == maxSlugLen {
			break
		}
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func randomString(n int) (string, error) {
	limit := big.NewInt(int64(len(base62)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = base62[idx.Int64()]
	}
	return string(out), nil
}
