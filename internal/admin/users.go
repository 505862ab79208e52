package admin

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"photo-gallery/internal/gallery"
	"photo-gallery/internal/kvstore"
	"photo-gallery/internal/logging"
)

// DefaultSuperadmin is written when the admins key is absent, so the list
// never starts empty.
var DefaultSuperadmin = gallery.AdminUser{ID: "admin-1", Username: "admin", Role: gallery.RoleSuperadmin}

// Users manages the admins array. Usernames are unique, the list never
// becomes empty, and superadmin accounts can be neither deleted nor demoted.
type Users struct {
	store kvstore.Store
	now   Clock
	mu    sync.Mutex
}

// NewUsers creates a user manager.
func NewUsers(store kvstore.Store, now Clock) *Users {
	return &Users{store: store, now: now}
}

// List returns the accounts in stored order.
func (u *Users) List(ctx context.Context) ([]gallery.AdminUser, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.load(ctx)
}

// Add creates an account. The role defaults to editor.
func (u *Users) Add(ctx context.Context, username, role string) (user gallery.AdminUser, err error) {
	defer func() { recordAction("users", "add", err) }()

	username = strings.TrimSpace(username)
	if username == "" {
		return gallery.AdminUser{}, ErrUsernameRequired
	}
	r, err := gallery.ParseRole(role)
	if err != nil {
		return gallery.AdminUser{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.load(ctx)
	if err != nil {
		return gallery.AdminUser{}, err
	}
	if usernameTaken(users, username, "") {
		return gallery.AdminUser{}, ErrUsernameTaken
	}

	user = gallery.AdminUser{
		ID: newID("admin", u.now(), func(id string) bool {
			return indexOfUser(users, id) >= 0
		}),
		Username: username,
		Role:     r,
	}
	if err := u.save(ctx, append(users, user)); err != nil {
		return gallery.AdminUser{}, err
	}
	logging.Info("Admin account %q added with role %s", user.Username, user.Role)
	return user, nil
}

// Update renames an account or changes its role. An empty role keeps the
// current one.
func (u *Users) Update(ctx context.Context, id, username, role string) (user gallery.AdminUser, err error) {
	defer func() { recordAction("users", "update", err) }()

	username = strings.TrimSpace(username)
	if username == "" {
		return gallery.AdminUser{}, ErrUsernameRequired
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.load(ctx)
	if err != nil {
		return gallery.AdminUser{}, err
	}
	i := indexOfUser(users, id)
	if i < 0 {
		return gallery.AdminUser{}, fmt.Errorf("admin %s: %w", id, ErrNotFound)
	}
	if usernameTaken(users, username, id) {
		return gallery.AdminUser{}, ErrUsernameTaken
	}

	user = users[i]
	if role != "" {
		r, err := gallery.ParseRole(role)
		if err != nil {
			return gallery.AdminUser{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
		}
		if user.Role == gallery.RoleSuperadmin && r != gallery.RoleSuperadmin {
			return gallery.AdminUser{}, ErrSuperadminProtected
		}
		user.Role = r
	}
	user.Username = username
	users[i] = user

	if err := u.save(ctx, users); err != nil {
		return gallery.AdminUser{}, err
	}
	return user, nil
}

// Delete removes an account unless it is a superadmin or the last one left.
func (u *Users) Delete(ctx context.Context, id string) (err error) {
	defer func() { recordAction("users", "delete", err) }()

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.load(ctx)
	if err != nil {
		return err
	}
	i := indexOfUser(users, id)
	if i < 0 {
		return fmt.Errorf("admin %s: %w", id, ErrNotFound)
	}
	if users[i].Role == gallery.RoleSuperadmin {
		return ErrSuperadminProtected
	}
	if len(users) <= 1 {
		return ErrLastAdmin
	}

	logging.Info("Admin account %q deleted", users[i].Username)
	return u.save(ctx, append(users[:i], users[i+1:]...))
}

// load reads the list, seeding DefaultSuperadmin when the key is absent.
func (u *Users) load(ctx context.Context) ([]gallery.AdminUser, error) {
	var users []gallery.AdminUser
	ok, err := kvstore.GetJSON(ctx, u.store, kvstore.KeyAdmins, &users)
	if err != nil {
		return nil, fmt.Errorf("load admins: %w", err)
	}
	if !ok {
		users = []gallery.AdminUser{DefaultSuperadmin}
		if err := u.save(ctx, users); err != nil {
			return nil, err
		}
		logging.Info("Seeded default superadmin account %q", DefaultSuperadmin.Username)
	}
	if users == nil {
		users = []gallery.AdminUser{}
	}
	return users, nil
}

func (u *Users) save(ctx context.Context, users []gallery.AdminUser) error {
	if err := kvstore.SetJSON(ctx, u.store, kvstore.KeyAdmins, users); err != nil {
		return fmt.Errorf("save admins: %w", err)
	}
	return nil
}

func usernameTaken(users []gallery.AdminUser, username, exceptID string) bool {
	for _, user := range users {
		if user.Username == username && user.ID != exceptID {
			return true
		}
	}
	return false
}

func indexOfUser(users []gallery.AdminUser, id string) int {
	for i, user := range users {
		if user.ID == id {
			return i
		}
	}
	return -1
}
