package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"

	"github.com/pereira90/banknow/ledger"
	"github.com/pereira90/banknow/telemetry"
)

// File names within the data directory.
const (
	UsersFile    = "users.txt"
	AccountsFile = "accounts.txt"
	CounterFile  = "next_account_number.txt"
)

// Store reads and writes the canonical on-disk state. Saves are whole-file
// rewrites: after every successful mutation the caller hands the full ledger
// back and the store replaces all three files.
type Store struct {
	dir string
	log *logrus.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load warnings and save failures.
func WithLogger(log *logrus.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a store over the given data directory.
func New(dir string, opts ...Option) *Store {
	s := &Store{dir: dir, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// BootstrapFunc seeds a fresh ledger on first run (or total data loss). It
// must create at least one admin user; the store saves the result
// immediately so the files exist from then on.
type BootstrapFunc func(l *ledger.Ledger) error

// LoadReport describes what a load found, beyond the data itself.
type LoadReport struct {
	UsersLoaded     int
	AccountsLoaded  int
	SkippedUsers    int
	SkippedAccounts int

	// MissingFiles lists files that did not exist; purely diagnostic, a
	// missing file loads the same as an empty one.
	MissingFiles []string

	// Warnings collects per-record recovery notes (defaulted balances,
	// dropped transaction blobs, skipped lines).
	Warnings []string

	// FirstRun is set when no valid user records were loaded.
	FirstRun bool

	// Bootstrapped is set when the bootstrap callback ran and its result
	// was persisted.
	Bootstrapped bool

	// MissingAdmin is set when users were loaded but none is an admin.
	// Non-fatal, but the system is degraded until an admin exists.
	MissingAdmin bool
}

// Load reads the three data files into a fresh ledger. Malformed lines are
// skipped with a warning, never fatal. If no users load and bootstrap is
// non-nil, the tables are reset, bootstrap seeds the first admin, and the
// result is saved immediately.
func (s *Store) Load(ctx context.Context, bootstrap BootstrapFunc) (*ledger.Ledger, *LoadReport, error) {
	span := telemetry.StartSpan(ctx, "store.load")
	defer span.End()

	report := &LoadReport{}

	users := s.loadUsers(ctx, report)
	accounts := s.loadAccounts(ctx, report)
	nextNumber := s.loadCounter(ctx, report)

	l := ledger.FromSnapshot(ledger.Snapshot{
		Users:      users,
		Accounts:   accounts,
		NextNumber: nextNumber,
	})

	if len(users) == 0 {
		report.FirstRun = true
		if bootstrap == nil {
			return l, report, nil
		}

		s.log.Info("no user data found, bootstrapping a fresh ledger")
		l = ledger.New()
		if err := bootstrap(l); err != nil {
			return nil, report, fmt.Errorf("bootstrap failed: %w", err)
		}
		if !l.HasAdmin() {
			return nil, report, errors.New("bootstrap did not create an admin user")
		}
		if err := s.Save(ctx, l); err != nil {
			return nil, report, fmt.Errorf("persisting bootstrap state: %w", err)
		}
		report.Bootstrapped = true
		return l, report, nil
	}

	if !l.HasAdmin() {
		report.MissingAdmin = true
		s.log.Warn("loaded user data contains no admin user; some operations will be unavailable")
	}

	return l, report, nil
}

func (s *Store) loadUsers(ctx context.Context, report *LoadReport) map[string]*ledger.User {
	span := telemetry.StartSpan(ctx, "store.load.users")
	defer span.End()

	users := make(map[string]*ledger.User)
	s.eachLine(UsersFile, report, func(lineNum int, line string) {
		u, err := DecodeUser(line)
		if err != nil {
			report.SkippedUsers++
			s.warnf(report, "%s:%d: skipping line: %v", UsersFile, lineNum, err)
			return
		}
		users[u.NIC] = u
	})
	report.UsersLoaded = len(users)
	return users
}

func (s *Store) loadAccounts(ctx context.Context, report *LoadReport) map[string]*ledger.Account {
	span := telemetry.StartSpan(ctx, "store.load.accounts")
	defer span.End()

	accounts := make(map[string]*ledger.Account)
	s.eachLine(AccountsFile, report, func(lineNum int, line string) {
		a, warns, err := DecodeAccount(line)
		if err != nil {
			report.SkippedAccounts++
			s.warnf(report, "%s:%d: skipping line: %v", AccountsFile, lineNum, err)
			return
		}
		for _, w := range warns {
			s.warnf(report, "%s:%d: %s", AccountsFile, lineNum, w)
		}
		accounts[a.Number] = a
	})
	report.AccountsLoaded = len(accounts)
	return accounts
}

func (s *Store) loadCounter(ctx context.Context, report *LoadReport) int64 {
	span := telemetry.StartSpan(ctx, "store.load.counter")
	defer span.End()

	path := filepath.Join(s.dir, CounterFile)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.MissingFiles = append(report.MissingFiles, CounterFile)
			s.log.Debugf("%s not found, using default counter %d", CounterFile, ledger.DefaultNextNumber)
		} else {
			s.warnf(report, "%s: unreadable (%v), using default counter", CounterFile, err)
		}
		return ledger.DefaultNextNumber
	}

	value, err := strconv.ParseInt(strings.TrimSpace(string(content)), 10, 64)
	if err != nil || value <= 0 {
		s.warnf(report, "%s: invalid content %q, using default counter", CounterFile, strings.TrimSpace(string(content)))
		return ledger.DefaultNextNumber
	}
	return value
}

// eachLine streams a file line by line, skipping blank lines. A missing
// file is recorded and treated as empty.
func (s *Store) eachLine(name string, report *LoadReport, fn func(lineNum int, line string)) {
	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			report.MissingFiles = append(report.MissingFiles, name)
			s.log.Debugf("%s not found, starting with an empty table", name)
		} else {
			s.warnf(report, "%s: unreadable (%v), starting with an empty table", name, err)
		}
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fn(lineNum, line)
	}
	if err := scanner.Err(); err != nil {
		s.warnf(report, "%s: read aborted at line %d: %v", name, lineNum, err)
	}
}

// Save rewrites all three files from the ledger state. A failure on one
// file does not stop the others from being attempted; all failures are
// joined and returned so a partial save is visible to the caller. The
// in-memory ledger stays authoritative either way.
func (s *Store) Save(ctx context.Context, l *ledger.Ledger) error {
	span := telemetry.StartSpan(ctx, "store.save")
	defer span.End()

	snap := l.Snapshot()
	var errs []error

	if err := s.saveUsers(ctx, snap); err != nil {
		s.log.WithError(err).Errorf("could not save %s", UsersFile)
		errs = append(errs, err)
	}
	if err := s.saveAccounts(ctx, snap); err != nil {
		s.log.WithError(err).Errorf("could not save %s", AccountsFile)
		errs = append(errs, err)
	}
	if err := s.saveCounter(ctx, snap); err != nil {
		s.log.WithError(err).Errorf("could not save %s", CounterFile)
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (s *Store) saveUsers(ctx context.Context, snap ledger.Snapshot) error {
	span := telemetry.StartSpan(ctx, "store.save.users")
	defer span.End()

	nics := maps.Keys(snap.Users)
	sort.Strings(nics)

	return s.writeFile(UsersFile, func(w io.Writer) error {
		for _, nic := range nics {
			if _, err := fmt.Fprintln(w, EncodeUser(snap.Users[nic])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveAccounts(ctx context.Context, snap ledger.Snapshot) error {
	span := telemetry.StartSpan(ctx, "store.save.accounts")
	defer span.End()

	numbers := maps.Keys(snap.Accounts)
	sort.Slice(numbers, func(i, j int) bool {
		a, aerr := strconv.ParseInt(numbers[i], 10, 64)
		b, berr := strconv.ParseInt(numbers[j], 10, 64)
		if aerr == nil && berr == nil {
			return a < b
		}
		return numbers[i] < numbers[j]
	})

	return s.writeFile(AccountsFile, func(w io.Writer) error {
		for _, num := range numbers {
			if _, err := fmt.Fprintln(w, EncodeAccount(snap.Accounts[num])); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) saveCounter(ctx context.Context, snap ledger.Snapshot) error {
	span := telemetry.StartSpan(ctx, "store.save.counter")
	defer span.End()

	return s.writeFile(CounterFile, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%d", snap.NextNumber)
		return err
	})
}

// writeFile writes via a temp file and rename so a crash mid-write cannot
// leave a half-written table behind.
func (s *Store) writeFile(name string, fill func(w io.Writer) error) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

func (s *Store) warnf(report *LoadReport, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	report.Warnings = append(report.Warnings, msg)
	s.log.Warn(msg)
}
