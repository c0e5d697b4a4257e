package ledger

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func customerParams(nic string) RegisterParams {
	return RegisterParams{
		Role:            RoleCustomer,
		NIC:             nic,
		Name:            "jane doe",
		Address:         "12 Main Street",
		DOB:             "1990-05-15",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

// TestRegister_CreatesCustomer verifies a valid registration stores the user
// with a derived digest, a title-cased name, and an empty account list.
func TestRegister_CreatesCustomer(t *testing.T) {
	l := New()
	u, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	assert.Equal(t, u.NIC, "900151234V")
	assert.Equal(t, u.Name, "Jane Doe")
	assert.Equal(t, u.Role, RoleCustomer)
	assert.NotEqual(t, u.PasswordHash, "secret123")
	assert.Equal(t, u.PasswordHash, HashPassword("secret123"))
	assert.True(t, u.OwnedAccounts != nil, "customer account list should be initialized")
	assert.Equal(t, len(u.OwnedAccounts), 0)

	stored, ok := l.User("900151234V")
	assert.True(t, ok)
	assert.Equal(t, stored, u)
}

// TestRegister_RoleDefaultsToCustomer verifies an empty role becomes customer.
func TestRegister_RoleDefaultsToCustomer(t *testing.T) {
	l := New()
	p := customerParams("900151234V")
	p.Role = ""
	u, err := l.Register(p)
	assert.NoError(t, err)
	assert.Equal(t, u.Role, RoleCustomer)
}

// TestRegister_AdminHasNoAccountList verifies admins never carry an
// owned-accounts list.
func TestRegister_AdminHasNoAccountList(t *testing.T) {
	l := New()
	p := customerParams("admin01")
	p.Role = RoleAdmin
	u, err := l.Register(p)
	assert.NoError(t, err)
	assert.True(t, u.IsAdmin(), "user should be an admin")
	assert.Zero(t, u.OwnedAccounts)
}

// TestRegister_Validation exercises every rejection path and checks that the
// failed registration left no user behind.
func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *RegisterParams)
	}{
		{"empty NIC", func(p *RegisterParams) { p.NIC = "" }},
		{"NIC with field delimiter", func(p *RegisterParams) { p.NIC = "900|~|151" }},
		{"NIC with list delimiter", func(p *RegisterParams) { p.NIC = "900;151" }},
		{"DOB with slashes", func(p *RegisterParams) { p.DOB = "1990/05/15" }},
		{"DOB with short year", func(p *RegisterParams) { p.DOB = "90-05-15" }},
		{"empty DOB", func(p *RegisterParams) { p.DOB = "" }},
		{"empty password", func(p *RegisterParams) { p.Password = ""; p.ConfirmPassword = "" }},
		{"short password", func(p *RegisterParams) { p.Password = "abc"; p.ConfirmPassword = "abc" }},
		{"confirmation mismatch", func(p *RegisterParams) { p.ConfirmPassword = "secret124" }},
		{"unknown role", func(p *RegisterParams) { p.Role = "manager" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New()
			p := customerParams("900151234V")
			tt.mutate(&p)

			_, err := l.Register(p)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "expected a validation error, got %v", err)

			users, _ := l.Counts()
			assert.Equal(t, users, 0)
		})
	}
}

// TestRegister_DuplicateNIC verifies NIC uniqueness is enforced and the
// original record is untouched.
func TestRegister_DuplicateNIC(t *testing.T) {
	l := New()
	_, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	p := customerParams("900151234V")
	p.Name = "someone else"
	_, err = l.Register(p)

	var derr *DuplicateUserError
	assert.True(t, errors.As(err, &derr), "expected a duplicate user error, got %v", err)
	assert.Equal(t, derr.NIC, "900151234V")

	u, _ := l.User("900151234V")
	assert.Equal(t, u.Name, "Jane Doe")
}

// TestHashPassword verifies the digest is deterministic and verification
// accepts only the original password.
func TestHashPassword(t *testing.T) {
	assert.Equal(t, HashPassword("secret123"), HashPassword("secret123"))
	assert.NotEqual(t, HashPassword("secret123"), HashPassword("secret124"))

	u := &User{PasswordHash: HashPassword("secret123")}
	assert.True(t, u.VerifyPassword("secret123"), "correct password should verify")
	assert.False(t, u.VerifyPassword("secret124"), "wrong password should not verify")
	assert.False(t, u.VerifyPassword(""), "empty password should not verify")
}

// TestAuthenticate covers the single-shot check: success, wrong password,
// unknown NIC.
func TestAuthenticate(t *testing.T) {
	l := New()
	_, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	u, err := l.Authenticate("900151234V", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, u.NIC, "900151234V")

	_, err = l.Authenticate("900151234V", "wrong-pass")
	var aerr *AuthError
	assert.True(t, errors.As(err, &aerr), "expected an auth error, got %v", err)

	_, err = l.Authenticate("nobody", "secret123")
	var nerr *NotFoundError
	assert.True(t, errors.As(err, &nerr), "expected a not-found error, got %v", err)
}

// TestLogin_SucceedsWithinWindow verifies a correct password on a later
// attempt still succeeds and the prompt sees the remaining count shrink.
func TestLogin_SucceedsWithinWindow(t *testing.T) {
	l := New()
	_, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	attempts := []string{"wrong", "also-wrong", "secret123"}
	var seen []int
	u, err := l.Login("900151234V", func(remaining int) (string, error) {
		seen = append(seen, remaining)
		return attempts[len(seen)-1], nil
	})
	assert.NoError(t, err)
	assert.Equal(t, u.NIC, "900151234V")
	assert.Equal(t, seen, []int{3, 2, 1})
}

// TestLogin_ExhaustsAttempts verifies the window is bounded at exactly three
// prompts and reports the attempt count.
func TestLogin_ExhaustsAttempts(t *testing.T) {
	l := New()
	_, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	prompts := 0
	_, err = l.Login("900151234V", func(remaining int) (string, error) {
		prompts++
		return "wrong-pass", nil
	})

	var aerr *AuthError
	assert.True(t, errors.As(err, &aerr), "expected an auth error, got %v", err)
	assert.Equal(t, aerr.Attempts, MaxLoginAttempts)
	assert.Equal(t, prompts, MaxLoginAttempts)
}

// TestLogin_PromptErrorAborts verifies a prompt failure (such as ctrl-c)
// stops the window immediately.
func TestLogin_PromptErrorAborts(t *testing.T) {
	l := New()
	_, err := l.Register(customerParams("900151234V"))
	assert.NoError(t, err)

	aborted := errors.New("prompt aborted")
	_, err = l.Login("900151234V", func(remaining int) (string, error) {
		return "", aborted
	})
	assert.IsError(t, err, aborted)
}

// TestLogin_UnknownNIC verifies the prompt is never shown for a NIC that
// does not exist.
func TestLogin_UnknownNIC(t *testing.T) {
	l := New()
	_, err := l.Login("nobody", func(remaining int) (string, error) {
		t.Fatal("prompt should not run for an unknown NIC")
		return "", nil
	})
	var nerr *NotFoundError
	assert.True(t, errors.As(err, &nerr), "expected a not-found error, got %v", err)
}
