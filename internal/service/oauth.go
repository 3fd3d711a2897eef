package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// OAuthStateTTL 登录跳转 state 的有效期。
const OAuthStateTTL = 10 * time.Minute

// ErrInvalidOAuthState 表示回调中的 state 无效或已过期。
var ErrInvalidOAuthState = errors.New("invalid oauth state")

type stateClaims struct {
	ReturnTo string `json:"return_to"`
	jwt.RegisteredClaims
}

// OAuthStateSigner 用 HMAC 签发携带登录后回跳地址的 state，回调时校验，避免服务端保存临时状态。
type OAuthStateSigner struct {
	secret []byte
	now    func() time.Time
}

// NewOAuthStateSigner 构造 OAuthStateSigner。
func NewOAuthStateSigner(secret string) *OAuthStateSigner {
	return &OAuthStateSigner{secret: []byte(secret), now: time.Now}
}

// Sign 生成 state。
func (s *OAuthStateSigner) Sign(returnTo string) (string, error) {
	now := s.now()
	claims := stateClaims{
		ReturnTo: returnTo,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(OAuthStateTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign oauth state: %w", err)
	}
	return signed, nil
}

// Verify 校验 state 并返回其中的回跳地址。
func (s *OAuthStateSigner) Verify(state string) (string, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOAuthState, err)
	}
	return claims.ReturnTo, nil
}

// GoogleIdentity 是从 Google userinfo 接口读取的身份信息。
type GoogleIdentity struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// GoogleSignIn 封装 Google OAuth2 授权码流程。
type GoogleSignIn struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// NewGoogleSignIn 构造 GoogleSignIn。
func NewGoogleSignIn(clientID, clientSecret, redirectURL string) *GoogleSignIn {
	return &GoogleSignIn{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: googleUserInfoURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// SetEndpoints 覆盖授权、令牌与 userinfo 地址，主要面向测试。
func (g *GoogleSignIn) SetEndpoints(authURL, tokenURL, userInfoURL string) {
	g.config.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	g.userInfoURL = userInfoURL
}

// AuthCodeURL 返回跳转到 Google 授权页的地址。
func (g *GoogleSignIn) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange 用授权码换取令牌并读取已验证的邮箱。
func (g *GoogleSignIn) Exchange(ctx context.Context, code string) (GoogleIdentity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GoogleIdentity{}, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var identity GoogleIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return GoogleIdentity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	identity.Email = strings.TrimSpace(identity.Email)
	if identity.Email == "" || !identity.EmailVerified {
		return GoogleIdentity{}, ErrIdentityNotAllowed
	}
	return identity, nil
}
