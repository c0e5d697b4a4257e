package ledger

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 6

	// MaxLoginAttempts bounds one login window; exhausting it is terminal
	// for that window, though the caller may start a fresh one.
	MaxLoginAttempts = 3
)

var dobPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var titleCaser = cases.Title(language.English)

// HashPassword derives the stored digest for a password: SHA-256 over the
// UTF-8 bytes, hex encoded. Deterministic on purpose — verification
// recomputes and compares, and the digest is what the users file persists.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the password matches the user's stored
// digest. The comparison is constant time.
func (u *User) VerifyPassword(password string) bool {
	digest := HashPassword(password)
	return subtle.ConstantTimeCompare([]byte(u.PasswordHash), []byte(digest)) == 1
}

// RegisterParams carries the input for a registration. ConfirmPassword must
// repeat Password exactly; the mismatch is caught here rather than trusted
// to the prompt layer.
type RegisterParams struct {
	Role            Role
	NIC             string
	Name            string
	Address         string
	DOB             string
	Password        string
	ConfirmPassword string
}

// Register validates the parameters and creates the user. The name is
// title-cased for display consistency. Role defaults to customer when left
// empty. Nothing is mutated when an error is returned.
func (l *Ledger) Register(p RegisterParams) (*User, error) {
	role := p.Role
	if role == "" {
		role = RoleCustomer
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: "must be admin or customer"}
	}
	if p.NIC == "" {
		return nil, &ValidationError{Field: "NIC", Reason: "cannot be empty"}
	}
	if ContainsReservedDelimiter(p.NIC) {
		return nil, &ValidationError{Field: "NIC", Reason: "cannot contain reserved characters"}
	}
	if _, exists := l.users[p.NIC]; exists {
		return nil, &DuplicateUserError{NIC: p.NIC}
	}
	if !dobPattern.MatchString(p.DOB) {
		return nil, &ValidationError{Field: "date of birth", Reason: "must match YYYY-MM-DD"}
	}
	if p.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "cannot be empty"}
	}
	if len(p.Password) < MinPasswordLength {
		return nil, &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	if p.Password != p.ConfirmPassword {
		return nil, &ValidationError{Field: "password", Reason: "confirmation does not match"}
	}

	u := &User{
		NIC:          p.NIC,
		Name:         titleCaser.String(p.Name),
		Address:      p.Address,
		DOB:          p.DOB,
		PasswordHash: HashPassword(p.Password),
		Role:         role,
	}
	if u.IsCustomer() {
		u.OwnedAccounts = []string{}
	}
	l.users[u.NIC] = u
	return u, nil
}

// Authenticate checks a single NIC/password pair.
func (l *Ledger) Authenticate(nic, password string) (*User, error) {
	u, ok := l.users[nic]
	if !ok {
		return nil, &NotFoundError{Kind: "user", ID: nic}
	}
	if !u.VerifyPassword(password) {
		return nil, &AuthError{NIC: nic, Attempts: 1}
	}
	return u, nil
}

// PasswordPrompt supplies one password attempt. remaining counts this
// attempt and the ones still left after it.
type PasswordPrompt func(remaining int) (string, error)

// Login runs the bounded retry window: up to MaxLoginAttempts prompts, any
// correct one succeeds immediately. A prompt error aborts the window; using
// up all attempts returns an AuthError carrying the attempt count.
func (l *Ledger) Login(nic string, prompt PasswordPrompt) (*User, error) {
	u, ok := l.users[nic]
	if !ok {
		return nil, &NotFoundError{Kind: "user", ID: nic}
	}
	for remaining := MaxLoginAttempts; remaining > 0; remaining-- {
		password, err := prompt(remaining)
		if err != nil {
			return nil, err
		}
		if u.VerifyPassword(password) {
			return u, nil
		}
	}
	return nil, &AuthError{NIC: nic, Attempts: MaxLoginAttempts}
}
