package auth

import (
	"fmt"
	"strings"

	"agripredict-api/pkg/models"

	"github.com/golang-jwt/jwt/v5"
)

// Identity は検証済みトークンから復元したユーザー情報です。
type Identity struct {
	UID string
}

// TokenVerifier はBearerトークンを検証してユーザー識別子を返します。
// トークンの発行は管理外で、検証のみを行います。
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// JWTVerifier はHMAC署名付きJWTを検証するTokenVerifier実装です。
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier 新しいJWT検証器を作成
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify はトークンを検証し、uidクレームを持つIdentityを返します。
func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, models.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, models.ErrInvalidToken
	}

	// uidクレームを優先し、無ければ標準のsubを使う
	uid, _ := claims["uid"].(string)
	if uid == "" {
		uid, _ = claims["sub"].(string)
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: token has no uid", models.ErrInvalidToken)
	}

	return &Identity{UID: uid}, nil
}

// ExtractBearerToken は Authorization ヘッダーからBearerトークンを取り出します。
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", models.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", models.ErrUnauthorized
	}
	return parts[1], nil
}
