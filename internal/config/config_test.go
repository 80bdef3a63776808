package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func testViper() *viper.Viper {
	v := viper.New()
	v.Set("database", "/tmp/test.db")
	v.Set("timezone", "Europe/Berlin")
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	if err != nil {
		t.Fatalf("FromViper: %v", err)
	}
	if cfg.PageSize != 50 {
		t.Errorf("got page size %d, want 50", cfg.PageSize)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("got timezone %q, want Europe/Berlin", cfg.Timezone)
	}
	if _, err := cfg.Zone(); err != nil {
		t.Errorf("Zone: %v", err)
	}
}

func TestFromViperRejectsPageSizeOutOfRange(t *testing.T) {
	for _, size := range []int{0, 51, -1} {
		v := testViper()
		v.Set("page_size", size)
		if _, err := FromViper(v); err == nil {
			t.Errorf("page_size %d: expected error", size)
		}
	}
}

func TestFromViperRejectsUnknownTimezone(t *testing.T) {
	v := testViper()
	v.Set("timezone", "Mars/Olympus_Mons")
	_, err := FromViper(v)
	if err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if !strings.Contains(err.Error(), "Mars/Olympus_Mons") {
		t.Errorf("error should name the zone: %v", err)
	}
}

func TestFromViperRejectsUserWithoutToken(t *testing.T) {
	v := testViper()
	v.Set("users", []map[string]any{{"name": "anna"}})
	if _, err := FromViper(v); err == nil {
		t.Fatal("expected error for user without access token")
	}
}

func TestUserLookup(t *testing.T) {
	cfg := &Config{Users: []User{
		{Name: "anna", AccessToken: "tok-a"},
		{Name: "ben", AccessToken: "tok-b"},
	}}

	user, ok := cfg.User("ben")
	if !ok {
		t.Fatal("expected ben to be found")
	}
	if user.AccessToken != "tok-b" {
		t.Errorf("got token %q, want tok-b", user.AccessToken)
	}
	if _, ok := cfg.User("carl"); ok {
		t.Error("carl should not be found")
	}
}
