package application

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
}

// memUserRepo is an in-memory UserRepository. Lookups hand out clones so
// a caller mutating the result never leaks into the store before Update.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	c.Roles = append([]entity.Role(nil), u.Roles...)
	return &c
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneUser(r.users[id]), nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) List(_ context.Context, page, size int) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *cloneUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	start := page * size
	if start >= len(all) {
		return []entity.User{}, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memUserRepo) AddRole(_ context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	for _, role := range u.Roles {
		if role.ID == roleID {
			return nil
		}
	}
	u.Roles = append(u.Roles, entity.Role{ID: roleID, Name: "role-" + roleID})
	return nil
}

func (r *memUserRepo) RemoveRole(_ context.Context, userID, roleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[userID]
	keep := u.Roles[:0]
	for _, role := range u.Roles {
		if role.ID != roleID {
			keep = append(keep, role)
		}
	}
	u.Roles = keep
	return nil
}

type memProfileRepo struct {
	mu   sync.Mutex
	pins map[string]bool
}

func newMemProfileRepo(pins ...string) *memProfileRepo {
	m := &memProfileRepo{pins: map[string]bool{}}
	for _, p := range pins {
		m.pins[p] = true
	}
	return m
}

func (r *memProfileRepo) ExistsByPersonalIdentificationNumber(_ context.Context, pin string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pins[pin], nil
}

type memRoleRepo struct {
	mu    sync.Mutex
	roles map[string]*entity.Role
}

func newMemRoleRepo() *memRoleRepo {
	return &memRoleRepo{roles: map[string]*entity.Role{}}
}

func (r *memRoleRepo) Create(_ context.Context, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *role
	r.roles[role.ID] = &c
	return nil
}

func (r *memRoleRepo) Update(_ context.Context, role *entity.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *role
	r.roles[role.ID] = &c
	return nil
}

func (r *memRoleRepo) GetByID(_ context.Context, id string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, nil
	}
	c := *role
	return &c, nil
}

func (r *memRoleRepo) GetByName(_ context.Context, name string) (*entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			c := *role
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memRoleRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	role, _ := r.GetByName(context.Background(), name)
	return role != nil, nil
}

func (r *memRoleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *memRoleRepo) List(_ context.Context, page, size int) ([]entity.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]entity.Role, 0, len(r.roles))
	for _, role := range r.roles {
		all = append(all, *role)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	start := page * size
	if start >= len(all) {
		return []entity.Role{}, nil
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memRoleRepo) Search(_ context.Context, keyword string, page, size int) ([]entity.Role, error) {
	all, _ := r.List(context.Background(), 0, 1<<30)
	out := make([]entity.Role, 0, len(all))
	for _, role := range all {
		if strings.Contains(strings.ToLower(role.Name), strings.ToLower(keyword)) {
			out = append(out, role)
		}
	}
	return out, nil
}

type memVerificationRepo struct {
	mu      sync.Mutex
	records map[string]*entity.Verification
	// deleteErr, when set, makes Delete fail for the given record ID.
	deleteErr map[string]error
}

func newMemVerificationRepo() *memVerificationRepo {
	return &memVerificationRepo{records: map[string]*entity.Verification{}, deleteErr: map[string]error{}}
}

func (r *memVerificationRepo) Save(_ context.Context, v *entity.Verification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *v
	r.records[v.ID] = &c
	return nil
}

func (r *memVerificationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	delete(r.records, id)
	return nil
}

func (r *memVerificationRepo) FindByCodeAndEmail(_ context.Context, code, email string) (*entity.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.records {
		if v.Code == code && v.Email == email {
			c := *v
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memVerificationRepo) FindExpired(_ context.Context, now time.Time) ([]entity.Verification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Verification{}
	for _, v := range r.records {
		if v.Expires.Before(now) {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memVerificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// recordingNotifier captures every Send for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	sends []sentMail
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sends = append(n.sends, sentMail{To: to, Subject: subject, Body: body})
}

func (n *recordingNotifier) sent() []sentMail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMail(nil), n.sends...)
}

// memIndex is an in-memory UserIndex matching keyword against profile
// names and the personal identification number.
type memIndex struct {
	mu   sync.Mutex
	docs map[string]string // id -> searchable text
}

func newMemIndex() *memIndex {
	return &memIndex{docs: map[string]string{}}
}

func (i *memIndex) IndexUser(_ context.Context, u *entity.User) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	text := ""
	if u.Profile != nil {
		text = strings.ToLower(u.Profile.Firstname + " " + u.Profile.Lastname + " " + u.Profile.PersonalIdentificationNumber)
	}
	i.docs[u.ID] = text
	return nil
}

func (i *memIndex) DeleteUser(_ context.Context, id string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.docs, id)
	return nil
}

func (i *memIndex) Search(_ context.Context, keyword string, page, size int) ([]string, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	ids := []string{}
	for id, text := range i.docs {
		if strings.Contains(text, strings.ToLower(keyword)) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	start := page * size
	if start >= len(ids) {
		return []string{}, nil
	}
	end := start + size
	if end > len(ids) {
		end = len(ids)
	}
	return ids[start:end], nil
}
