package auth

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/model"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// ErrInvalidCredentials is returned for unknown users, wrong passwords and inactive accounts
var ErrInvalidCredentials = errors.New("invalid credentials")

// UsersFile represents the YAML structure
type UsersFile struct {
	Users []FileUser `yaml:"users"`
}

// FileUser represents a user in the users file
type FileUser struct {
	Username     string `yaml:"username"`
	Email        string `yaml:"email,omitempty"`
	Role         string `yaml:"role"`
	PasswordHash string `yaml:"password_hash"`
	Disabled     bool   `yaml:"disabled,omitempty"`
}

// LoadUsersFile reads and parses a users file
func LoadUsersFile(path string) (*UsersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	return ParseUsersFile(data)
}

// ParseUsersFile parses and validates users file content
func ParseUsersFile(data []byte) (*UsersFile, error) {
	var file UsersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateUsersFile(&file); err != nil {
		return nil, fmt.Errorf("invalid users file: %w", err)
	}

	return &file, nil
}

func validateUsersFile(file *UsersFile) error {
	seen := make(map[string]bool)

	for i := range file.Users {
		user := &file.Users[i]
		user.Username = strings.TrimSpace(user.Username)

		if user.Username == "" {
			return fmt.Errorf("username is required")
		}
		if user.PasswordHash == "" {
			return fmt.Errorf("password_hash is required for user %s", user.Username)
		}
		if user.Role == "" {
			user.Role = model.RoleAdmin
		}
		if !model.ValidRole(user.Role) {
			return fmt.Errorf("invalid role '%s' for user %s", user.Role, user.Username)
		}
		if seen[user.Username] {
			return fmt.Errorf("duplicate username: %s", user.Username)
		}
		seen[user.Username] = true
	}
	return nil
}

// Directory holds the users allowed to sign in
type Directory struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// NewDirectory builds the directory from a parsed users file.
func NewDirectory(file *UsersFile) *Directory {
	d := &Directory{users: make(map[string]*model.User)}
	if file == nil {
		return d
	}
	for _, fu := range file.Users {
		user := model.NewUser(fu.Username, fu.Role)
		user.Email = fu.Email
		user.PasswordHash = fu.PasswordHash
		user.IsActive = !fu.Disabled
		d.users[user.Username] = user
	}
	return d
}

// LoadDirectory reads cfg.UsersFile when set and adds the bootstrap admin when both its
// username and password are configured. The bootstrap entry replaces a file entry of the same name.
func LoadDirectory(cfg config.AuthConfig, logger *zap.Logger) (*Directory, error) {
	var file *UsersFile
	if cfg.UsersFile != "" {
		var err error
		if file, err = LoadUsersFile(cfg.UsersFile); err != nil {
			return nil, err
		}
	}
	d := NewDirectory(file)

	if cfg.BootstrapUser != "" && cfg.BootstrapPass != "" {
		if err := d.AddBootstrapAdmin(cfg.BootstrapUser, cfg.BootstrapPass, cfg.BootstrapEmail); err != nil {
			return nil, err
		}
	}

	if d.Len() == 0 {
		logger.Warn("no admin users configured, admin routes are unreachable")
	} else {
		logger.Info("admin directory loaded", zap.Int("users", d.Len()))
	}
	return d, nil
}

// AddBootstrapAdmin hashes password and registers username as an active admin.
func (d *Directory) AddBootstrapAdmin(username, password, email string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap password: %w", err)
	}
	user := model.NewUser(username, model.RoleAdmin)
	user.Email = email
	user.PasswordHash = hash

	d.mu.Lock()
	d.users[username] = user
	d.mu.Unlock()
	return nil
}

// Lookup returns a copy of the named user.
func (d *Directory) Lookup(username string) (*model.User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.users[username]
	if !ok {
		return nil, false
	}
	cp := *user
	return &cp, true
}

// Authenticate checks the password of an active user.
func (d *Directory) Authenticate(username, password string) (*model.User, error) {
	user, ok := d.Lookup(username)
	if !ok || !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// List returns every user ordered by username
func (d *Directory) List() []model.User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]model.User, 0, len(d.users))
	for _, u := range d.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}

// Len returns the number of users
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
