package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/pereira90/banknow/ledger"
	"github.com/pereira90/banknow/telemetry"
)

type RunCmd struct{}

const (
	menuLogin    = "Login"
	menuRegister = "Register as a new customer"
	menuExit     = "Exit"
)

func (cmd *RunCmd) Run(ctx *kong.Context, globals *Globals) error {
	if !isTerminal() {
		return errors.New("the interactive session requires a terminal; use the report and interest commands otherwise")
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	bootstrap := func(l *ledger.Ledger) error {
		printInfof(ctx.Stdout, "Welcome! No user data was found, so this looks like a first run.")
		printInfof(ctx.Stdout, "The system needs an administrator before anything else.")
		_, err := registerInteractive(ctx, l, ledger.RoleAdmin)
		return err
	}

	app, report, err := openApp(runCtx, globals, bootstrap)
	if err != nil {
		return err
	}
	if report.Bootstrapped {
		printSuccess(ctx.Stdout, "Initial admin created and data files initialized.")
	}
	if report.MissingAdmin {
		printError(ctx.Stderr, "No admin user found in the loaded data; admin operations are unavailable until one is registered.")
	}

	watchCtx, cancelWatch := context.WithCancel(runCtx)
	defer cancelWatch()
	changes, err := app.Store.Watch(watchCtx)
	if err != nil {
		app.Log.WithError(err).Debug("file watching unavailable")
	}

	for {
		cmd.offerReload(runCtx, ctx, app, changes)

		choice, err := promptSelect("Welcome to banknow", menuLogin, menuRegister, menuExit)
		if err != nil {
			return err
		}

		switch choice {
		case menuLogin:
			cmd.login(runCtx, ctx, app)

		case menuRegister:
			u, err := registerInteractive(ctx, app.Ledger, ledger.RoleCustomer)
			if err != nil {
				continue
			}
			if err := warnIfDurability(ctx, app.persist(runCtx)); err != nil {
				printError(ctx.Stderr, err.Error())
				continue
			}
			printSuccess(ctx.Stdout, fmt.Sprintf("Registered %s (%s). You can now log in.", u.NIC, u.Name))

		case menuExit:
			if err := warnIfDurability(ctx, app.persist(runCtx)); err != nil {
				printError(ctx.Stderr, err.Error())
			}
			printInfof(ctx.Stdout, "Goodbye!")
			return nil
		}
	}
}

// offerReload checks whether another program changed the data files since
// the last menu and offers to reload them.
func (cmd *RunCmd) offerReload(runCtx context.Context, ctx *kong.Context, app *App, changes <-chan struct{}) {
	if changes == nil {
		return
	}
	select {
	case <-changes:
	default:
		return
	}

	reload, err := promptYesNo("The data files changed on disk. Reload them?")
	if err != nil || !reload {
		return
	}
	if _, err := app.Reload(runCtx); err != nil {
		printError(ctx.Stderr, fmt.Sprintf("reload failed: %v", err))
		return
	}
	printSuccess(ctx.Stdout, "Data files reloaded.")
}

func (cmd *RunCmd) login(runCtx context.Context, ctx *kong.Context, app *App) {
	nic, err := promptInput("Enter your NIC", notEmpty("NIC"))
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	user, err := app.Ledger.Login(nic, func(remaining int) (string, error) {
		title := fmt.Sprintf("Password for %s", nic)
		if remaining < ledger.MaxLoginAttempts {
			title = fmt.Sprintf("%s (%d attempts left)", title, remaining)
		}
		return promptPassword(title)
	})
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Welcome, %s (%s)!", user.Name, user.Role))
	switch {
	case user.IsAdmin():
		adminSession(runCtx, ctx, app, user)
	default:
		customerSession(runCtx, ctx, app, user)
	}
}

// registerInteractive collects registration input and creates the user,
// offering a retry when validation rejects the input. The caller persists.
func registerInteractive(ctx *kong.Context, l *ledger.Ledger, role ledger.Role) (*ledger.User, error) {
	for {
		params, err := collectRegistration(role)
		if err != nil {
			return nil, err
		}

		u, err := l.Register(params)
		if err == nil {
			return u, nil
		}
		printError(ctx.Stderr, err.Error())

		retry, perr := promptYesNo("Try again?")
		if perr != nil || !retry {
			return nil, err
		}
	}
}

func collectRegistration(role ledger.Role) (ledger.RegisterParams, error) {
	params := ledger.RegisterParams{Role: role}

	nic, err := promptInput(fmt.Sprintf("Enter the %s's NIC (used for login)", role), noReservedCharacters("NIC"))
	if err != nil {
		return params, err
	}
	name, err := promptInput("Full name", noReservedCharacters("name"))
	if err != nil {
		return params, err
	}
	address, err := promptInput("Address", noReservedCharacters("address"))
	if err != nil {
		return params, err
	}
	dob, err := promptInput("Date of birth (YYYY-MM-DD)", nil)
	if err != nil {
		return params, err
	}
	password, err := promptPassword(fmt.Sprintf("Set a password for %s", nic))
	if err != nil {
		return params, err
	}
	confirm, err := promptPassword("Confirm password")
	if err != nil {
		return params, err
	}

	params.NIC = nic
	params.Name = name
	params.Address = address
	params.DOB = dob
	params.Password = password
	params.ConfirmPassword = confirm
	return params, nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// noReservedCharacters rejects input that would collide with the record
// format. The registry enforces this for the NIC; the form is stricter and
// keeps names and addresses clean too, since the codec cannot round-trip
// them otherwise.
func noReservedCharacters(field string) func(string) error {
	return func(s string) error {
		if field == "NIC" && s == "" {
			return errors.New("NIC cannot be empty")
		}
		if ledger.ContainsReservedDelimiter(s) {
			return fmt.Errorf("%s cannot contain the reserved sequences %q or %q",
				field, ledger.FieldDelimiter, ledger.ListDelimiter)
		}
		return nil
	}
}

// warnIfDurability downgrades a failed save to a printed warning: the
// operation itself succeeded and the tables are still authoritative.
func warnIfDurability(ctx *kong.Context, err error) error {
	var derr *DurabilityError
	if errors.As(err, &derr) {
		printError(ctx.Stderr, derr.Error())
		return nil
	}
	return err
}
