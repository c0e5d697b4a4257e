package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pereira90/banknow/ledger"
	"github.com/pereira90/banknow/store"
	"github.com/pereira90/banknow/telemetry"
)

type ReportCmd struct {
	Users    ReportUsersCmd    `cmd:"" help:"List all registered users."`
	Accounts ReportAccountsCmd `cmd:"" help:"List all bank accounts."`
}

type ReportUsersCmd struct{}

func (cmd *ReportUsersCmd) Run(ctx *kong.Context, globals *Globals) error {
	app, report, err := openReportApp(ctx, globals)
	if err != nil || app == nil {
		return err
	}
	if report.MissingAdmin {
		printError(ctx.Stderr, "No admin user found in the loaded data.")
	}
	renderUsersTable(ctx.Stdout, app.Ledger)
	return nil
}

type ReportAccountsCmd struct{}

func (cmd *ReportAccountsCmd) Run(ctx *kong.Context, globals *Globals) error {
	app, _, err := openReportApp(ctx, globals)
	if err != nil || app == nil {
		return err
	}
	renderAccountsTable(ctx.Stdout, app.Ledger)
	return nil
}

// openReportApp loads without bootstrapping; reporting over an empty data
// directory just says so instead of creating an admin.
func openReportApp(ctx *kong.Context, globals *Globals) (*App, *store.LoadReport, error) {
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

	app, report, err := openApp(runCtx, globals, nil)
	if err != nil {
		return nil, nil, err
	}
	if report.FirstRun {
		printInfof(ctx.Stdout, "No data found in %s. Run `banknow run` to set up the system.", globals.DataDir)
		return nil, report, nil
	}
	return app, report, nil
}

func renderUsersTable(w io.Writer, l *ledger.Ledger) {
	users := l.Users()
	if len(users) == 0 {
		printInfof(w, "No users are registered.")
		return
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		owned := "N/A"
		if u.IsCustomer() {
			owned = strings.Join(u.OwnedAccounts, ", ")
			if owned == "" {
				owned = "None"
			}
		}
		rows = append(rows, []string{u.NIC, u.Name, string(u.Role), owned})
	}
	renderTable(w, []string{"NIC", "Name", "Role", "Owned Accounts"}, rows)
}

func renderAccountsTable(w io.Writer, l *ledger.Ledger) {
	accounts := l.Accounts()
	if len(accounts) == 0 {
		printInfof(w, "No bank accounts exist.")
		return
	}

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		ownerName := "N/A"
		if owner, ok := l.User(a.OwnerNIC); ok {
			ownerName = owner.Name
		}
		rows = append(rows, []string{
			a.Number,
			a.OwnerNIC,
			ownerName,
			formatCurrency(a.Balance),
			a.CreatedAt.Format(ledger.TimestampLayout),
		})
	}
	renderTable(w, []string{"Account No.", "Owner NIC", "Owner Name", "Balance", "Created At"}, rows)
}
