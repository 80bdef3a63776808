// Package config holds the runtime configuration assembled from flags,
// environment, and the optional config file.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"
)

const spotifyTokenURL = "https://accounts.spotify.com/api/token"

// User is one Spotify account to ingest. Token acquisition happens
// elsewhere; the config only carries the resulting credentials.
type User struct {
	Name         string `mapstructure:"name" validate:"required"`
	AccessToken  string `mapstructure:"access_token" validate:"required"`
	RefreshToken string `mapstructure:"refresh_token"`
}

type Config struct {
	Database     string `mapstructure:"database" validate:"required"`
	Timezone     string `mapstructure:"timezone" validate:"required"`
	PageSize     int    `mapstructure:"page_size" validate:"min=1,max=50"`
	ListenAddr   string `mapstructure:"listen_addr"`
	DataDir      string `mapstructure:"data_dir"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Users        []User `mapstructure:"users" validate:"dive"`
}

// FromViper builds and validates the configuration from the given viper
// instance. Defaults are applied before unmarshalling.
func FromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("database", "./hoergewohnheiten.db")
	v.SetDefault("timezone", "Europe/Berlin")
	v.SetDefault("page_size", 50)
	v.SetDefault("listen_addr", "127.0.0.1:5000")
	v.SetDefault("data_dir", "./data")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Fail early on a zone the zone database doesn't know.
	if _, err := cfg.Zone(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Zone loads the configured target timezone. It must be a named zone so
// daylight-saving transitions are handled by the zone database.
func (c *Config) Zone() (*time.Location, error) {
	zone, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return zone, nil
}

// User returns the configured user with the given name.
func (c *Config) User(name string) (*User, bool) {
	for i := range c.Users {
		if c.Users[i].Name == name {
			return &c.Users[i], true
		}
	}
	return nil, false
}

// TokenSource builds the oauth2 token source for a user. With a refresh
// token and client credentials the token renews itself; otherwise the
// access token is used as-is.
func (c *Config) TokenSource(ctx context.Context, user *User) oauth2.TokenSource {
	token := &oauth2.Token{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
	}
	if user.RefreshToken == "" || c.ClientID == "" {
		return oauth2.StaticTokenSource(token)
	}

	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     oauth2.Endpoint{TokenURL: spotifyTokenURL},
	}
	// Zero expiry would mean "never refresh"; mark the token stale so the
	// first request exchanges the refresh token.
	token.Expiry = time.Now().Add(-time.Minute)
	return conf.TokenSource(ctx, token)
}
