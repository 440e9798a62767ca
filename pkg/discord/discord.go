package discord

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-portal/portal/pkg/apperr"
	"github.com/go-portal/portal/pkg/log"
	"github.com/go-resty/resty/v2"
)

/**
 * @file: discord.go
 * @description: Discord OAuth2 and guild membership bridge
 */

const defaultBaseURL = "https://discord.com/api"

type Config struct {
	ClientID     string
	ClientSecret string
	BotToken     string
	RedirectURI  string
	BaseURL      string
	Scopes       []string
}

// TokenResponse is the OAuth2 token exchange payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Profile is the authenticated Discord user.
type Profile struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name"`
	Avatar        string `json:"avatar"`
	Email         string `json:"email"`
}

// Guild is a guild the user belongs to.
type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// GuildMember is the user's membership in the configured guild.
type GuildMember struct {
	Nick  string   `json:"nick"`
	Roles []string `json:"roles"`
}

type Client struct {
	cfg    Config
	client *resty.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if len(cfg.Scopes) == 0 {
		cfg.Scopes = []string{"identify", "email", "guilds"}
	}
	return &Client{
		cfg:    cfg,
		client: resty.New().SetBaseURL(cfg.BaseURL),
	}
}

// AuthURL builds the Discord authorization URL for the given state.
func (c *Client) AuthURL(state string) string {
	params := url.Values{}
	params.Set("client_id", c.cfg.ClientID)
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(c.cfg.Scopes, " "))
	params.Set("state", state)
	return fmt.Sprintf("%s/oauth2/authorize?%s", c.cfg.BaseURL, params.Encode())
}

// ExchangeCode trades an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	token := new(TokenResponse)
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     c.cfg.ClientID,
			"client_secret": c.cfg.ClientSecret,
			"grant_type":    "authorization_code",
			"code":          code,
			"redirect_uri":  c.cfg.RedirectURI,
		}).
		SetResult(token).
		Post("/oauth2/token")
	if err != nil {
		return nil, apperr.OAuth("token exchange failed", err)
	}
	if resp.IsError() {
		return nil, apperr.OAuth(fmt.Sprintf("token exchange failed: status %d", resp.StatusCode()), nil)
	}
	if token.AccessToken == "" {
		return nil, apperr.OAuth("token exchange returned no access token", nil)
	}
	return token, nil
}

// GetProfile fetches the authenticated user's profile.
func (c *Client) GetProfile(ctx context.Context, accessToken string) (*Profile, error) {
	profile := new(Profile)
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(profile).
		Get("/users/@me")
	if err != nil {
		return nil, apperr.OAuth("failed to obtain user information", err)
	}
	if resp.IsError() {
		return nil, apperr.OAuth(fmt.Sprintf("failed to obtain user information: status %d", resp.StatusCode()), nil)
	}
	return profile, nil
}

// GetGuilds lists the user's guilds. Failures are not fatal for the
// login flow, so the caller gets a nil slice with no error.
func (c *Client) GetGuilds(ctx context.Context, accessToken string) []Guild {
	var guilds []Guild
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&guilds).
		Get("/users/@me/guilds")
	if err != nil {
		log.Warnw("failed to list guilds", "error", err)
		return nil
	}
	if resp.IsError() {
		log.Warnw("failed to list guilds", "status", resp.StatusCode())
		return nil
	}
	return guilds
}

// GetGuildMember looks up a user's membership in one guild using the
// privileged bot credential. A 404 means the user is not a member and
// yields (nil, nil). Other upstream failures are logged and also yield
// (nil, nil) so the login flow degrades instead of breaking.
func (c *Client) GetGuildMember(ctx context.Context, guildId, discordUserId string) (*GuildMember, error) {
	member := new(GuildMember)
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bot "+c.cfg.BotToken).
		SetResult(member).
		Get(fmt.Sprintf("/guilds/%s/members/%s", guildId, discordUserId))
	if err != nil {
		log.Warnw("failed to fetch guild member", "error", err)
		return nil, nil
	}
	if resp.StatusCode() == 404 {
		return nil, nil
	}
	if resp.IsError() {
		log.Warnw("failed to fetch guild member", "status", resp.StatusCode())
		return nil, nil
	}
	return member, nil
}
