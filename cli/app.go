package cli

import (
	"context"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/pereira90/banknow/ledger"
	"github.com/pereira90/banknow/store"
)

// App couples the in-memory ledger with its store. Every mutating method
// runs the ledger operation and then saves the whole state, so the on-disk
// files are a durable checkpoint after each logical transaction. A failed
// save comes back as a DurabilityError wrapped around the save failure; the
// operation itself still succeeded and the result is returned alongside it.
type App struct {
	Ledger *ledger.Ledger
	Store  *store.Store
	Log    *logrus.Logger
}

func newLogger(globals *Globals) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if globals.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// openApp loads the data directory into a fresh App. bootstrap may be nil
// for read-only commands; they get an empty ledger on first run instead of
// triggering admin creation.
func openApp(ctx context.Context, globals *Globals, bootstrap store.BootstrapFunc) (*App, *store.LoadReport, error) {
	log := newLogger(globals)
	st := store.New(globals.DataDir, store.WithLogger(log))

	l, report, err := st.Load(ctx, bootstrap)
	if err != nil {
		return nil, nil, err
	}

	return &App{Ledger: l, Store: st, Log: log}, report, nil
}

func (a *App) persist(ctx context.Context) error {
	if err := a.Store.Save(ctx, a.Ledger); err != nil {
		a.Log.WithError(err).Warn("save failed; recent changes exist only in memory")
		return &DurabilityError{Err: err}
	}
	return nil
}

// Register creates a user and saves.
func (a *App) Register(ctx context.Context, params ledger.RegisterParams) (*ledger.User, error) {
	u, err := a.Ledger.Register(params)
	if err != nil {
		return nil, err
	}
	return u, a.persist(ctx)
}

// OpenAccount opens an account and saves.
func (a *App) OpenAccount(ctx context.Context, ownerNIC string, initialDeposit decimal.Decimal) (*ledger.Account, error) {
	acct, err := a.Ledger.OpenAccount(ownerNIC, initialDeposit)
	if err != nil {
		return nil, err
	}
	return acct, a.persist(ctx)
}

// Deposit credits an account and saves.
func (a *App) Deposit(ctx context.Context, number string, amount decimal.Decimal) (*ledger.Account, error) {
	acct, err := a.Ledger.Deposit(number, amount)
	if err != nil {
		return nil, err
	}
	return acct, a.persist(ctx)
}

// Withdraw debits an account and saves.
func (a *App) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (*ledger.Account, error) {
	acct, err := a.Ledger.Withdraw(number, amount)
	if err != nil {
		return nil, err
	}
	return acct, a.persist(ctx)
}

// Transfer moves funds between accounts and saves.
func (a *App) Transfer(ctx context.Context, source, dest string, amount decimal.Decimal) error {
	if err := a.Ledger.Transfer(source, dest, amount); err != nil {
		return err
	}
	return a.persist(ctx)
}

// AccrueInterest sweeps interest over all accounts and saves when anything
// was credited.
func (a *App) AccrueInterest(ctx context.Context, rate decimal.Decimal) (int, decimal.Decimal, error) {
	applied, total := a.Ledger.AccrueInterest(rate)
	if applied == 0 {
		return 0, total, nil
	}
	return applied, total, a.persist(ctx)
}

// Reload replaces the in-memory ledger with a fresh load from disk. Used
// when the data files were changed by another program.
func (a *App) Reload(ctx context.Context) (*store.LoadReport, error) {
	l, report, err := a.Store.Load(ctx, nil)
	if err != nil {
		return nil, err
	}
	a.Ledger = l
	return report, nil
}
