package auth

import (
	"strings"
	"testing"
	"time"
)

func TestUser_Role(t *testing.T) {
	if (User{Admin: true}).Role() != RoleAdmin {
		t.Fatalf("expected admin role")
	}
	if (User{}).Role() != RoleUser {
		t.Fatalf("expected user role")
	}
}

func TestUser_CanLogin(t *testing.T) {
	if (User{Active: false, PasswordHash: "$2a$10$x"}).CanLogin() {
		t.Fatalf("inactive users must not log in")
	}
	if (User{Active: true}).CanLogin() {
		t.Fatalf("users without a password hash must not log in")
	}
	if !(User{Active: true, PasswordHash: "$2a$10$x"}).CanLogin() {
		t.Fatalf("active user with hash should log in")
	}
}

func TestUsernameTooLong(t *testing.T) {
	if UsernameTooLong(strings.Repeat("a", MaxUsernameLength)) {
		t.Fatalf("25 characters should fit")
	}
	if !UsernameTooLong(strings.Repeat("a", MaxUsernameLength+1)) {
		t.Fatalf("26 characters should not fit")
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := Session{ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("session should still be valid")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Fatalf("session should be expired at its expiry instant")
	}
}

func TestTile_EncodeParse(t *testing.T) {
	tile := Tile{DisplayText: "Grafana", Link: "https://grafana.local", CSSClasses: "command-button"}
	raw, err := tile.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(raw, `"displayText":"Grafana"`) {
		t.Fatalf("unexpected wire form %s", raw)
	}
	got, err := ParseTile(raw)
	if err != nil || got != tile {
		t.Fatalf("ParseTile() = %+v, %v", got, err)
	}
}

func TestTile_Validate(t *testing.T) {
	if err := (Tile{Link: "/x"}).Validate(); err == nil {
		t.Fatalf("missing display text should fail")
	}
	if err := (Tile{DisplayText: "x"}).Validate(); err == nil {
		t.Fatalf("missing link should fail")
	}
	if err := (Tile{DisplayText: "x", Link: "/x"}).Validate(); err != nil {
		t.Fatalf("valid tile rejected: %v", err)
	}
}

func TestTile_EncodeTooLong(t *testing.T) {
	_, err := Tile{DisplayText: strings.Repeat("x", MaxTileLength), Link: "/"}.Encode()
	if err == nil {
		t.Fatalf("oversized tile should be rejected")
	}
}
