package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/pereira90/banknow/ledger"
	"github.com/pereira90/banknow/telemetry"
)

type InterestCmd struct {
	Rate string `help:"Interest rate as a decimal fraction." default:"0.015"`
}

// Run applies the annual interest sweep from the command line. It still
// requires an admin login: only the prompt moves out of the interactive
// menu, not the authorization.
func (cmd *InterestCmd) Run(ctx *kong.Context, globals *Globals) error {
	rate, err := decimal.NewFromString(cmd.Rate)
	if err != nil || !rate.IsPositive() {
		return fmt.Errorf("invalid rate %q: expected a positive decimal fraction such as 0.015", cmd.Rate)
	}
	if !isTerminal() {
		return errors.New("the interest command needs a terminal to prompt for admin credentials")
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

	app, report, err := openApp(runCtx, globals, nil)
	if err != nil {
		return err
	}
	if report.FirstRun {
		printInfof(ctx.Stdout, "No data found in %s. Run `banknow run` to set up the system.", globals.DataDir)
		return nil
	}

	nic, err := promptInput("Admin NIC", notEmpty("NIC"))
	if err != nil {
		return err
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
		return NewCommandError(1)
	}
	if !user.IsAdmin() {
		printError(ctx.Stderr, fmt.Sprintf("%s is not an admin; only admins can apply interest", nic))
		return NewCommandError(1)
	}

	applied, total, err := app.AccrueInterest(runCtx, rate)
	if err = warnIfDurability(ctx, err); err != nil {
		return err
	}
	if applied == 0 {
		printInfof(ctx.Stdout, "No interest was applied; no account had a positive balance.")
		return nil
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Interest at %s applied to %d account(s), %s distributed in total.",
		formatRate(rate), applied, formatCurrency(total)))
	return nil
}
