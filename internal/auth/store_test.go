package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"

	"tiffinbox/internal/api"
	"tiffinbox/internal/models"
)

type fakeAPI struct {
	session   *api.Session
	loginErr  error
	loginCnt  int
	registers []api.RegisterRequest
}

func (f *fakeAPI) Login(ctx context.Context, phone, password string) (*api.Session, error) {
	f.loginCnt++
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.session, nil
}

func (f *fakeAPI) Register(ctx context.Context, req api.RegisterRequest) error {
	f.registers = append(f.registers, req)
	return nil
}

type failingKeyring struct{}

func (failingKeyring) Get(string) (string, error) { return "", errors.New("storage corrupted") }
func (failingKeyring) Set(string, string) error   { return errors.New("storage corrupted") }
func (failingKeyring) Delete(string) error        { return errors.New("storage corrupted") }

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestLoginStoresSession(t *testing.T) {
	backend := &fakeAPI{session: &api.Session{
		User:  models.User{ID: "u1", Name: "Asha", Phone: "9999", Role: models.RoleCustomer},
		Token: "tok123",
	}}
	ring := NewMemoryKeyring()

	var notified string
	store := NewStore(backend, ring, func(token string) { notified = token })

	if err := store.Login(context.Background(), "9999", "pw"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if !store.LoggedIn() {
		t.Error("LoggedIn() = false after login")
	}
	if store.Token() != "tok123" {
		t.Errorf("Token() = %q, want %q", store.Token(), "tok123")
	}
	if notified != "tok123" {
		t.Errorf("onToken received %q, want %q", notified, "tok123")
	}

	// Session persisted for the next start.
	if got, err := ring.Get("token"); err != nil || got != "tok123" {
		t.Errorf("keyring token = %q (err %v), want %q", got, err, "tok123")
	}
	userData, err := ring.Get("user")
	if err != nil {
		t.Fatalf("keyring user missing: %v", err)
	}
	var user models.User
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		t.Fatalf("persisted user is not JSON: %v", err)
	}
	if user.Name != "Asha" {
		t.Errorf("persisted user name = %q, want %q", user.Name, "Asha")
	}
}

func TestLoginFailureLeavesLoggedOut(t *testing.T) {
	backend := &fakeAPI{loginErr: &api.ServerError{Message: "invalid credentials"}}
	store := NewStore(backend, NewMemoryKeyring(), nil)

	err := store.Login(context.Background(), "9999", "wrong")
	if err == nil {
		t.Fatal("Login() succeeded with bad credentials")
	}
	var serverErr *api.ServerError
	if !errors.As(err, &serverErr) {
		t.Errorf("Login() error = %v, want the server error passed through", err)
	}
	if store.LoggedIn() {
		t.Error("LoggedIn() = true after failed login")
	}
}

func TestCheckLoginStatusRestoresSession(t *testing.T) {
	ring := NewMemoryKeyring()
	ring.Set("user", `{"id":"u1","name":"Asha","phone":"9999","role":"customer"}`)
	ring.Set("token", "opaque-token")

	var notified string
	store := NewStore(&fakeAPI{}, ring, func(token string) { notified = token })
	store.CheckLoginStatus()

	if !store.LoggedIn() {
		t.Fatal("LoggedIn() = false, want restored session")
	}
	if got := store.User().Name; got != "Asha" {
		t.Errorf("User().Name = %q, want %q", got, "Asha")
	}
	if notified != "opaque-token" {
		t.Errorf("onToken received %q, want %q", notified, "opaque-token")
	}
}

func TestCheckLoginStatusDropsExpiredJWT(t *testing.T) {
	ring := NewMemoryKeyring()
	ring.Set("user", `{"id":"u1","name":"Asha","phone":"9999"}`)
	ring.Set("token", signedToken(t, time.Now().Add(-time.Hour)))

	store := NewStore(&fakeAPI{}, ring, nil)
	store.CheckLoginStatus()

	if store.LoggedIn() {
		t.Error("LoggedIn() = true with an expired token")
	}
	if _, err := ring.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("expired token not cleared from keyring")
	}
}

func TestCheckLoginStatusKeepsUnexpiredJWT(t *testing.T) {
	ring := NewMemoryKeyring()
	ring.Set("user", `{"id":"u1","name":"Asha","phone":"9999"}`)
	ring.Set("token", signedToken(t, time.Now().Add(time.Hour)))

	store := NewStore(&fakeAPI{}, ring, nil)
	store.CheckLoginStatus()

	if !store.LoggedIn() {
		t.Error("LoggedIn() = false with a valid token")
	}
}

func TestKeyringFailureDegradesToLoggedOut(t *testing.T) {
	store := NewStore(&fakeAPI{}, failingKeyring{}, nil)
	store.CheckLoginStatus()

	if store.LoggedIn() {
		t.Error("LoggedIn() = true despite unreadable keyring")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	backend := &fakeAPI{session: &api.Session{
		User:  models.User{ID: "u1", Name: "Asha", Phone: "9999"},
		Token: "tok123",
	}}
	ring := NewMemoryKeyring()

	var notified string
	store := NewStore(backend, ring, func(token string) { notified = token })
	if err := store.Login(context.Background(), "9999", "pw"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	store.Logout()

	if store.LoggedIn() {
		t.Error("LoggedIn() = true after logout")
	}
	if notified != "" {
		t.Errorf("onToken received %q after logout, want empty", notified)
	}
	if _, err := ring.Get("user"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("user not cleared from keyring")
	}
	if _, err := ring.Get("token"); !errors.Is(err, ErrKeyNotFound) {
		t.Error("token not cleared from keyring")
	}
}

func TestRegisterDefaultsRole(t *testing.T) {
	backend := &fakeAPI{}
	store := NewStore(backend, NewMemoryKeyring(), nil)

	err := store.Register(context.Background(), api.RegisterRequest{
		Name: "Asha", Phone: "9999", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if len(backend.registers) != 1 {
		t.Fatalf("register calls = %d, want 1", len(backend.registers))
	}
	if got := backend.registers[0].Role; got != models.RoleCustomer {
		t.Errorf("registered role = %q, want %q", got, models.RoleCustomer)
	}
}
