package auth

import (
	"context"
	"fmt"

	"github.com/Adnan1921/radnja-tracker/internal/access"
)

// StaffSeed is one account to provision at startup.
type StaffSeed struct {
	Username string
	Password string
	Role     access.Role
}

// DefaultStaff is the shop's staff roster. Passwords here are first-login
// defaults; existing accounts are never overwritten.
func DefaultStaff() []StaffSeed {
	return []StaffSeed{
		{Username: "SanelaBiber", Password: "radnja2024", Role: access.RoleAdmin},
		{Username: "HarisBiber", Password: "radnja2024", Role: access.RoleAdmin},
		{Username: "Sajra", Password: "radnja2024", Role: access.RoleLimited},
	}
}

// Seed provisions the given accounts, skipping usernames that already exist.
func Seed(ctx context.Context, store UserStore, staff []StaffSeed) error {
	for _, s := range staff {
		if _, err := store.GetUser(ctx, s.Username); err == nil {
			continue
		}
		hash, err := HashPassword(s.Password)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.Username, err)
		}
		if err := store.CreateUser(ctx, User{
			Username:     s.Username,
			PasswordHash: hash,
			Role:         s.Role,
		}); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", s.Username, err)
		}
	}
	return nil
}
