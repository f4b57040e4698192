package stub

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Seed lists fixtures created when the stub starts
type Seed struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser is an account that can sign in right away
type SeedUser struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	DisplayName string `yaml:"display_name"`
}

// LoadSeed reads a YAML seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &seed, nil
}

// ApplySeed creates the seed users that don't exist yet
func (s *Server) ApplySeed(seed *Seed) error {
	for _, su := range seed.Users {
		email := strings.ToLower(strings.TrimSpace(su.Email))
		if email == "" || su.Password == "" {
			return fmt.Errorf("seed user %q needs an email and a password", su.Email)
		}

		var existing User
		err := s.db.Where("email = ?", email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up seed user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		user := &User{Email: email, PasswordHash: string(hash), DisplayName: su.DisplayName}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create seed user: %w", err)
		}
		s.logger.Info().Str("user_id", user.ID).Str("email", email).Msg("Seeded user")
	}
	return nil
}
