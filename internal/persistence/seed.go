package persistence

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/spec-kit/support-desk/internal/domain"
)

// SeedUser is a user inserted when the store is first created.
type SeedUser struct {
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Password   string `yaml:"password"`
	Department string `yaml:"department"`
}

type seedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads additional seed users from a YAML file.
func LoadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return sf.Users, nil
}

func (s *Store) seedUsers() ([]SeedUser, error) {
	users := []SeedUser{{
		Name:       s.cfg.Store.AdminName,
		Email:      s.cfg.Store.AdminEmail,
		Password:   s.cfg.Store.AdminPassword,
		Department: s.cfg.Store.AdminDept,
	}}
	if s.cfg.Store.SeedFile == "" {
		return users, nil
	}
	extra, err := LoadSeedFile(s.cfg.Store.SeedFile)
	if err != nil {
		return nil, err
	}
	return append(users, extra...), nil
}

func (s *Store) seed(tx *gorm.DB, users []SeedUser) error {
	seen := make(map[string]struct{}, len(users))
	for _, u := range users {
		email := strings.TrimSpace(u.Email)
		if email == "" || u.Password == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}

		password, err := s.encode(u.Password)
		if err != nil {
			return err
		}
		row := UserRow{
			Name:       u.Name,
			Email:      email,
			Password:   password,
			Department: u.Department,
			Role:       string(domain.RoleForEmail(email, s.cfg.Store.AdminEmail)),
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("seed %s: %w", email, err)
		}
		s.logger.Info("seeded user", zap.String("email", email), zap.String("role", row.Role))
	}
	return nil
}
