package service

import (
	"context"
	"errors"
	"testing"

	"github.com/fanmerch/storefront/internal/core/domain"
)

func newAuthSvc(repo *stubUserRepo, tokens *fakeTokens) *AuthService {
	return NewAuthService(repo, fakeHasher{}, tokens, &blockingLocker{}, nopLogger)
}

func strPtr(s string) *string { return &s }

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &fakeTokens{})

	res, err := svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("expected redacted user, got hash %q", res.User.PasswordHash)
	}
	if res.User.Email != "a@x.com" || res.User.Name != "Ann" || res.User.IsSubscribed {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if res.User.Address != (domain.Address{}) {
		t.Fatalf("expected empty address, got %+v", res.User.Address)
	}

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if stored.PasswordHash != "hashed:pw123456" {
		t.Fatalf("expected hashed secret, got %q", stored.PasswordHash)
	}
	if stored.ID == "" || stored.CreatedAt.IsZero() {
		t.Fatalf("expected id and creation time, got %+v", stored)
	}
}

func TestAuthService_Signup_Validation(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})

	cases := [][3]string{
		{"", "pw", "Ann"},
		{"a@x.com", "", "Ann"},
		{"a@x.com", "pw", ""},
	}
	for _, c := range cases {
		_, err := svc.Signup(context.Background(), c[0], c[1], c[2])
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Signup(%q,%q,%q): expected validation error, got %v", c[0], c[1], c[2], err)
		}
	}
}

func TestAuthService_Signup_DuplicateLeavesExistingUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &fakeTokens{})

	first, err := svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")
	if err != nil {
		t.Fatalf("first signup: %v", err)
	}

	_, err = svc.Signup(context.Background(), "a@x.com", "other", "Impostor")
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), first.User.ID)
	if stored.Name != "Ann" || stored.PasswordHash != "hashed:pw123456" {
		t.Fatalf("existing user mutated: %+v", stored)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	tokens := &fakeTokens{}
	svc := newAuthSvc(newStubUserRepo(), tokens)

	signup, _ := svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")

	res, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.ID != signup.User.ID {
		t.Fatalf("unexpected user %+v", res.User)
	}

	claims, err := svc.VerifyToken(context.Background(), res.Token)
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.UserID != signup.User.ID || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestAuthService_Login_WrongPasswordIssuesNoToken(t *testing.T) {
	tokens := &fakeTokens{}
	svc := newAuthSvc(newStubUserRepo(), tokens)
	_, _ = svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")
	signedBefore := tokens.signed

	res, err := svc.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil || tokens.signed != signedBefore {
		t.Fatalf("expected no token to be issued")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})

	if _, err := svc.Login(context.Background(), "ghost@x.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})

	if _, err := svc.VerifyToken(context.Background(), "garbage"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})
	signup, _ := svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")

	u, err := svc.CurrentUser(context.Background(), signup.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if u.Email != "a@x.com" || u.PasswordHash != "" {
		t.Fatalf("unexpected user %+v", u)
	}

	if _, err := svc.CurrentUser(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAuthService_UpdateProfile_MergesAndKeepsIdentity(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo, &fakeTokens{})
	signup, _ := svc.Signup(context.Background(), "a@x.com", "pw123456", "Ann")

	updated, err := svc.UpdateProfile(context.Background(), signup.User.ID, domain.ProfileUpdate{
		Phone:   strPtr("555-0100"),
		Address: &domain.AddressUpdate{City: strPtr("Pune")},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != "Ann" || updated.Phone != "555-0100" || updated.Address.City != "Pune" {
		t.Fatalf("unexpected merge result %+v", updated)
	}
	if updated.ID != signup.User.ID || updated.Email != "a@x.com" || !updated.CreatedAt.Equal(signup.User.CreatedAt) {
		t.Fatalf("identity fields changed: %+v", updated)
	}
	if updated.PasswordHash != "" {
		t.Fatalf("expected redacted user")
	}

	stored, _ := repo.FindByID(context.Background(), signup.User.ID)
	if stored.PasswordHash != "hashed:pw123456" {
		t.Fatalf("stored hash lost: %q", stored.PasswordHash)
	}
}

func TestAuthService_UpdateProfile_UnknownUser(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})

	_, err := svc.UpdateProfile(context.Background(), "missing", domain.ProfileUpdate{Name: strPtr("x")})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_LockFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(repo, fakeHasher{}, &fakeTokens{}, &blockingLocker{fail: errBoom}, nopLogger)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw", "Ann"); !errors.Is(err, errBoom) {
		t.Fatalf("expected lock error, got %v", err)
	}
	if users, _ := repo.List(context.Background()); len(users) != 0 {
		t.Fatalf("expected no user to be created")
	}
}

func TestAuthService_ListUsers_Redacted(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo(), &fakeTokens{})
	_, _ = svc.Signup(context.Background(), "a@x.com", "pw", "Ann")
	_, _ = svc.Signup(context.Background(), "b@x.com", "pw", "Bob")

	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("expected redacted users")
		}
	}
}
