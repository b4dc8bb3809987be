package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/gophticket/internal/client/models"
	"github.com/dmitrijs2005/gophticket/internal/client/store"
	"github.com/dmitrijs2005/gophticket/internal/common"
	"github.com/dmitrijs2005/gophticket/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupThenLogin(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()

	acc, err := w.auth.Signup(ctx, SignupRequest{
		Name: "Ada", Email: "ada@x.com", Phone: "555", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(acc.ID, "user-"))
	require.NotEqual(t, "pw", acc.Password, "raw password must not be stored")
	require.True(t, cryptox.VerifyPassword(acc.Password, "pw"))

	cur, err := w.auth.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, acc.ID, cur.ID, "signup logs the account in")

	require.NoError(t, w.auth.Logout(ctx))
	_, err = w.auth.Current(ctx)
	require.ErrorIs(t, err, common.ErrNoSession)

	got, err := w.auth.Login(ctx, "ada@x.com", "pw")
	require.NoError(t, err)
	require.Equal(t, acc.ID, got.ID)

	cur, err = w.auth.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, acc.ID, cur.ID)
}

func TestSignup_Validation(t *testing.T) {
	full := SignupRequest{Name: "Ada", Email: "ada@x.com", Phone: "555", Password: "pw", ConfirmPassword: "pw"}

	tests := []struct {
		name    string
		mutate  func(*SignupRequest)
		wantErr error
		wantMsg string
	}{
		{"missing name", func(r *SignupRequest) { r.Name = "" }, ErrFieldsRequired, "All fields are required"},
		{"missing email", func(r *SignupRequest) { r.Email = "" }, ErrFieldsRequired, "All fields are required"},
		{"missing phone", func(r *SignupRequest) { r.Phone = "" }, ErrFieldsRequired, "All fields are required"},
		{"missing password", func(r *SignupRequest) { r.Password = ""; r.ConfirmPassword = "" }, ErrFieldsRequired, "All fields are required"},
		{"missing password and mismatch", func(r *SignupRequest) { r.Password = "" }, ErrFieldsRequired, "All fields are required"},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "pw2" }, ErrPasswordMismatch, "Passwords do not match"},
		{"empty confirmation", func(r *SignupRequest) { r.ConfirmPassword = "" }, ErrPasswordMismatch, "Passwords do not match"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWallet(t)
			req := full
			tt.mutate(&req)

			_, err := w.auth.Signup(context.Background(), req)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, common.ErrValidation)
			require.Equal(t, tt.wantMsg, AuthMessage(err))
			require.Empty(t, w.st.Keys(), "nothing persisted on validation failure")
		})
	}
}

func TestSignup_DuplicateEmailLeavesUsersUnchanged(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()
	w.signupAda(t)

	before, err := w.st.Get(ctx, store.KeyUsers)
	require.NoError(t, err)

	_, err = w.auth.Signup(ctx, SignupRequest{
		Name: "Other", Email: "ada@x.com", Phone: "1", Password: "x", ConfirmPassword: "x",
	})
	require.ErrorIs(t, err, common.ErrDuplicateEmail)
	require.Equal(t, "Email already registered", AuthMessage(err))

	after, err := w.st.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestSignup_EmailIsCaseSensitive(t *testing.T) {
	w := newWallet(t)
	w.signupAda(t)

	_, err := w.auth.Signup(context.Background(), SignupRequest{
		Name: "Ada", Email: "ADA@x.com", Phone: "555", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()
	w.signupAda(t)
	require.NoError(t, w.auth.Logout(ctx))

	for _, c := range []struct{ email, pw string }{
		{"ada@x.com", "wrong"},
		{"nobody@x.com", "pw"},
		{"ADA@x.com", "pw"},
		{"", ""},
	} {
		_, err := w.auth.Login(ctx, c.email, c.pw)
		require.ErrorIs(t, err, common.ErrInvalidCredentials)
		require.Equal(t, "Invalid email or password", AuthMessage(err))
	}

	_, err := w.auth.Current(ctx)
	require.ErrorIs(t, err, common.ErrNoSession, "failed login must not open a session")
}

func TestLogin_UpgradesPlaintextPassword(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()
	st := store.New(w.st)

	legacy := models.Account{ID: "user-1700000000000", Name: "Bo", Email: "bo@x.com", Phone: "1", Password: "secret"}
	require.NoError(t, st.SaveUsers(ctx, []models.Account{legacy}))

	_, err := w.auth.Login(ctx, "bo@x.com", "nope")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	acc, err := w.auth.Login(ctx, "bo@x.com", "secret")
	require.NoError(t, err)
	require.True(t, cryptox.IsVerifier(acc.Password))

	users, err := st.Users(ctx)
	require.NoError(t, err)
	require.True(t, cryptox.VerifyPassword(users[0].Password, "secret"))

	require.NoError(t, w.auth.Logout(ctx))
	_, err = w.auth.Login(ctx, "bo@x.com", "secret")
	require.NoError(t, err, "upgraded account still logs in")
}

func TestLogout_Idempotent(t *testing.T) {
	w := newWallet(t)
	require.NoError(t, w.auth.Logout(context.Background()))
	require.NoError(t, w.auth.Logout(context.Background()))
}

func TestUpdateProfileImage(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()
	w.signupAda(t)
	cur, err := w.auth.Current(ctx)
	require.NoError(t, err)

	updated, err := w.auth.UpdateProfileImage(ctx, cur.ID, "data:image/png;base64,AA==")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AA==", updated.ProfileImage)

	users, err := store.New(w.st).Users(ctx)
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AA==", users[0].ProfileImage)

	cur, err = w.auth.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AA==", cur.ProfileImage)

	_, err = w.auth.UpdateProfileImage(ctx, "user-other", "x")
	require.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, w.auth.Logout(ctx))
	_, err = w.auth.UpdateProfileImage(ctx, cur.ID, "x")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.ErrorIs(t, err, common.ErrNoSession)
	require.Equal(t, "Please log in first", AuthMessage(err))

	users, err = store.New(w.st).Users(ctx)
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,AA==", users[0].ProfileImage, "logged-out update changes nothing")
}

func TestCurrent_CorruptSessionIsStorageError(t *testing.T) {
	w := newWallet(t)
	require.NoError(t, w.st.Set(context.Background(), store.KeyCurrentUser, []byte(`{"name":"half"}`)))

	_, err := w.auth.Current(context.Background())
	require.ErrorIs(t, err, common.ErrStorage)
	require.Contains(t, AuthMessage(err), "reset")
}

func TestSignup_ConcurrentDistinctEmails(t *testing.T) {
	w := newWallet(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for _, email := range []string{"a@x", "b@x", "c@x", "d@x"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.auth.Signup(ctx, SignupRequest{Name: "n", Email: email, Phone: "1", Password: "p", ConfirmPassword: "p"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	users, err := store.New(w.st).Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4, "no signup lost to a concurrent read-modify-write")
}

func TestAuthMessage(t *testing.T) {
	require.Empty(t, AuthMessage(nil))
	require.Equal(t, "Please log in first", AuthMessage(common.ErrNoSession))
	require.Equal(t, "Image size should be less than 5MB", AuthMessage(common.ErrImageTooLarge))
}
