package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

func newUserFixture(t *testing.T) (*UserService, *memUserRepo, *memProfileRepo, *memRoleRepo, *memIndex) {
	t.Helper()
	users := newMemUserRepo()
	profiles := newMemProfileRepo()
	roles := newMemRoleRepo()
	index := newMemIndex()
	svc := NewUserService(users, profiles, roles, index, testLogger())
	svc.Now = fixedNow
	return svc, users, profiles, roles, index
}

func createInput(username string) CreateUserInput {
	return CreateUserInput{
		Username:                     username,
		Email:                        username + "@example.com",
		Password:                     "password123",
		Firstname:                    "Grace",
		Lastname:                     "Hopper",
		PlaceOfBirth:                 "New York",
		DateOfBirth:                  time.Date(1906, 12, 9, 0, 0, 0, 0, time.UTC),
		Nationality:                  "US",
		Gender:                       entity.GenderFemale,
		PersonalIdentificationNumber: "PIN-" + username,
	}
}

func TestCreateUserDefaults(t *testing.T) {
	svc, _, _, _, index := newUserFixture(t)

	u, err := svc.Create(context.Background(), "admin", createInput("grace"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !u.Enabled {
		t.Fatal("new accounts start enabled")
	}
	if !u.PasswordMustBeModified {
		t.Fatal("new accounts must change their password")
	}
	if u.Password == "password123" {
		t.Fatal("password stored in clear")
	}
	if !helpers.CompareHashAndPassword(u.Password, "password123") {
		t.Fatal("stored hash does not match the password")
	}
	if u.CreatedBy != "admin" || u.UpdatedBy != "admin" {
		t.Fatalf("audit stamps = %q/%q, want admin", u.CreatedBy, u.UpdatedBy)
	}
	if u.Profile == nil || u.Profile.UserID != u.ID {
		t.Fatal("profile must be bound to the new user")
	}
	if len(index.docs) != 1 {
		t.Fatal("new user should be indexed")
	}
}

func TestCreateUserAggregatesAllViolations(t *testing.T) {
	svc, _, profiles, _, _ := newUserFixture(t)
	if _, err := svc.Create(context.Background(), "admin", createInput("grace")); err != nil {
		t.Fatalf("seed create: %v", err)
	}
	profiles.pins["PIN-grace"] = true

	in := createInput("grace") // same username, email and pin
	_, err := svc.Create(context.Background(), "admin", in)

	var fv *FieldValidationError
	if !errors.As(err, &fv) {
		t.Fatalf("err = %v, want FieldValidationError", err)
	}
	if len(fv.Fields) != 3 {
		t.Fatalf("violations = %d, want all 3", len(fv.Fields))
	}
	wantOrder := []string{"username", "email", "personalIdentificationNumber"}
	wantMsg := []string{
		"Username is already in use",
		"Email is already in use",
		"PersonalIdentificationNumber is already in use",
	}
	for i, f := range fv.Fields {
		if f.Field != wantOrder[i] || f.Message != wantMsg[i] {
			t.Fatalf("field[%d] = %+v, want %s / %s", i, f, wantOrder[i], wantMsg[i])
		}
	}
}

func TestCreateUserPartialViolation(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	if _, err := svc.Create(context.Background(), "admin", createInput("grace")); err != nil {
		t.Fatalf("seed create: %v", err)
	}

	in := createInput("other")
	in.Email = "grace@example.com" // only the email collides

	_, err := svc.Create(context.Background(), "admin", in)
	var fv *FieldValidationError
	if !errors.As(err, &fv) {
		t.Fatalf("err = %v, want FieldValidationError", err)
	}
	if len(fv.Fields) != 1 || fv.Fields[0].Field != "email" {
		t.Fatalf("fields = %+v, want single email violation", fv.Fields)
	}
}

func TestUpdateUserSelfExclusion(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	u, err := svc.Create(context.Background(), "admin", createInput("grace"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Re-submitting the user's own values must not collide with itself.
	in := UpdateUserInput{
		Username:                     "grace",
		Email:                        "grace@example.com",
		Firstname:                    "Grace",
		Lastname:                     "Hopper",
		PlaceOfBirth:                 "New York",
		DateOfBirth:                  u.Profile.DateOfBirth,
		Nationality:                  "US",
		Gender:                       entity.GenderFemale,
		PersonalIdentificationNumber: "PIN-grace",
	}
	if _, err := svc.Update(context.Background(), "admin", u.ID, in); err != nil {
		t.Fatalf("no-op update: %v", err)
	}
}

func TestUpdateUserCollision(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	if _, err := svc.Create(context.Background(), "admin", createInput("grace")); err != nil {
		t.Fatalf("create grace: %v", err)
	}
	u, err := svc.Create(context.Background(), "admin", createInput("ada"))
	if err != nil {
		t.Fatalf("create ada: %v", err)
	}

	in := UpdateUserInput{
		Username:                     "grace", // taken
		Email:                        "ada@example.com",
		Firstname:                    "Ada",
		Lastname:                     "Lovelace",
		DateOfBirth:                  u.Profile.DateOfBirth,
		Gender:                       entity.GenderFemale,
		PersonalIdentificationNumber: "PIN-ada",
	}
	_, err = svc.Update(context.Background(), "admin", u.ID, in)
	var fv *FieldValidationError
	if !errors.As(err, &fv) {
		t.Fatalf("err = %v, want FieldValidationError", err)
	}
	if len(fv.Fields) != 1 || fv.Fields[0].Field != "username" {
		t.Fatalf("fields = %+v, want single username violation", fv.Fields)
	}
}

func TestUpdateUnknownUser(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	_, err := svc.Update(context.Background(), "admin", "missing", UpdateUserInput{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestAddAndRemoveRole(t *testing.T) {
	svc, _, _, roles, _ := newUserFixture(t)
	u, err := svc.Create(context.Background(), "admin", createInput("grace"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	admin := &entity.Role{ID: "role-admin", Name: "ADMIN"}
	if err := roles.Create(context.Background(), admin); err != nil {
		t.Fatalf("create role: %v", err)
	}

	got, err := svc.AddRoleToUser(context.Background(), u.ID, admin.ID)
	if err != nil {
		t.Fatalf("add role: %v", err)
	}
	if !got.HasRole(admin.ID) {
		t.Fatal("role not present after add")
	}

	// Adding again is a no-op, not an error, and keeps set semantics.
	got, err = svc.AddRoleToUser(context.Background(), u.ID, admin.ID)
	if err != nil {
		t.Fatalf("re-add role: %v", err)
	}
	count := 0
	for _, r := range got.Roles {
		if r.ID == admin.ID {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("role occurs %d times, want 1", count)
	}

	got, err = svc.RemoveRoleFromUser(context.Background(), u.ID, admin.ID)
	if err != nil {
		t.Fatalf("remove role: %v", err)
	}
	if got.HasRole(admin.ID) {
		t.Fatal("role still present after remove")
	}

	// Removing an absent role is likewise a no-op.
	if _, err := svc.RemoveRoleFromUser(context.Background(), u.ID, admin.ID); err != nil {
		t.Fatalf("re-remove role: %v", err)
	}

	// User resolution comes before role resolution.
	if _, err := svc.AddRoleToUser(context.Background(), "missing", "also-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound first", err)
	}
	if _, err := svc.AddRoleToUser(context.Background(), u.ID, "missing"); !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("err = %v, want ErrRoleNotFound", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	svc, users, _, _, _ := newUserFixture(t)
	u, err := svc.Create(context.Background(), "admin", createInput("grace"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.UpdatePassword(context.Background(), "grace", "wrong", "newpassword1"); !errors.Is(err, ErrIncorrectOldPassword) {
		t.Fatalf("err = %v, want ErrIncorrectOldPassword", err)
	}

	if err := svc.UpdatePassword(context.Background(), "grace", "password123", "newpassword1"); err != nil {
		t.Fatalf("update password: %v", err)
	}
	got, _ := users.GetByID(context.Background(), u.ID)
	if !helpers.CompareHashAndPassword(got.Password, "newpassword1") {
		t.Fatal("new password not stored")
	}
	if got.PasswordMustBeModified {
		t.Fatal("must-change flag should clear after a successful change")
	}

	if err := svc.UpdatePassword(context.Background(), "nobody", "x", "y"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestSearchUsesIndex(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	if _, err := svc.Create(context.Background(), "admin", createInput("grace")); err != nil {
		t.Fatalf("create: %v", err)
	}
	in := createInput("ada")
	in.Firstname = "Ada"
	in.Lastname = "Lovelace"
	if _, err := svc.Create(context.Background(), "admin", in); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Search(context.Background(), "lovelace", 0, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Username != "ada" {
		t.Fatalf("search result = %+v, want just ada", got)
	}

	// Deleted users drop out of the index.
	if err := svc.Delete(context.Background(), got[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = svc.Search(context.Background(), "lovelace", 0, 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("search after delete = %+v, want empty", got)
	}
}

func TestGetters(t *testing.T) {
	svc, _, _, _, _ := newUserFixture(t)
	u, err := svc.Create(context.Background(), "admin", createInput("grace"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if got, err := svc.GetByID(context.Background(), u.ID); err != nil || got.Username != "grace" {
		t.Fatalf("GetByID = %+v, %v", got, err)
	}
	if got, err := svc.GetByUsername(context.Background(), "grace"); err != nil || got.ID != u.ID {
		t.Fatalf("GetByUsername = %+v, %v", got, err)
	}
	if got, err := svc.GetByEmail(context.Background(), "grace@example.com"); err != nil || got.ID != u.ID {
		t.Fatalf("GetByEmail = %+v, %v", got, err)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("delete missing err = %v, want ErrUserNotFound", err)
	}
}
