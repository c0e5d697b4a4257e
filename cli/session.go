package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/pereira90/banknow/ledger"
)

const (
	customerOpenAccount = "Create a new bank account"
	customerDeposit     = "Deposit funds"
	customerWithdraw    = "Withdraw funds"
	customerBalance     = "Check account balance"
	customerHistory     = "View transaction history"
	customerTransfer    = "Transfer funds"
	sessionLogout       = "Logout"

	adminListUsers     = "List all users"
	adminListAccounts  = "List all bank accounts"
	adminCustomerList  = "Customer list"
	adminApplyInterest = "Apply interest to all accounts"
	adminAddCustomer   = "Register a new customer"
	adminAddAdmin      = "Register a new admin"
)

func customerSession(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	for {
		choice, err := promptSelect(fmt.Sprintf("Customer dashboard (%s)", user.Name),
			customerOpenAccount, customerDeposit, customerWithdraw,
			customerBalance, customerHistory, customerTransfer, sessionLogout)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return
		}

		switch choice {
		case customerOpenAccount:
			openAccountAction(runCtx, ctx, app, user)
		case customerDeposit:
			depositAction(runCtx, ctx, app, user)
		case customerWithdraw:
			withdrawAction(runCtx, ctx, app, user)
		case customerBalance:
			balanceAction(ctx, app, user)
		case customerHistory:
			historyAction(ctx, app, user)
		case customerTransfer:
			transferAction(runCtx, ctx, app, user)
		case sessionLogout:
			printInfof(ctx.Stdout, "Logged out. Have a great day, %s!", user.Name)
			return
		}
	}
}

func openAccountAction(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	amount, err := promptAmount("Initial deposit amount (0 allowed)", true)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	acct, err := app.OpenAccount(runCtx, user.NIC, amount)
	if err = warnIfDurability(ctx, err); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Account %s created with balance %s.", acct.Number, formatCurrency(acct.Balance)))
}

func depositAction(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	acct, ok := chooseAccount(ctx, app, user, "deposit into")
	if !ok {
		return
	}
	amount, err := promptAmount("Amount to deposit", false)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	acct, err = app.Deposit(runCtx, acct.Number, amount)
	if err = warnIfDurability(ctx, err); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Deposited %s. New balance for account %s: %s.",
		formatCurrency(amount), acct.Number, formatCurrency(acct.Balance)))
}

func withdrawAction(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	acct, ok := chooseAccount(ctx, app, user, "withdraw from")
	if !ok {
		return
	}
	if acct.Balance.IsZero() {
		printInfof(ctx.Stdout, "Account %s has no funds to withdraw.", acct.Number)
		return
	}
	amount, err := promptAmount(fmt.Sprintf("Amount to withdraw (available %s)", formatCurrency(acct.Balance)), false)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	acct, err = app.Withdraw(runCtx, acct.Number, amount)
	if err = warnIfDurability(ctx, err); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Withdrew %s. Remaining balance for account %s: %s.",
		formatCurrency(amount), acct.Number, formatCurrency(acct.Balance)))
}

func balanceAction(ctx *kong.Context, app *App, user *ledger.User) {
	acct, ok := chooseAccount(ctx, app, user, "check the balance of")
	if !ok {
		return
	}
	printInfof(ctx.Stdout, "Account %s (owner %s): %s", acct.Number, acct.OwnerNIC, formatCurrency(acct.Balance))
}

func historyAction(ctx *kong.Context, app *App, user *ledger.User) {
	acct, ok := chooseAccount(ctx, app, user, "view the history of")
	if !ok {
		return
	}
	if len(acct.Transactions) == 0 {
		printInfof(ctx.Stdout, "No transactions recorded for account %s.", acct.Number)
		return
	}

	rows := make([][]string, 0, len(acct.Transactions))
	for _, tx := range acct.Transactions {
		details := transactionDetails(tx)
		if details == "" {
			details = "N/A"
		}
		rows = append(rows, []string{
			tx.Timestamp().Format(ledger.TimestampLayout),
			string(tx.Type()),
			formatCurrency(tx.Amount()),
			details,
		})
	}
	renderTable(ctx.Stdout, []string{"Timestamp", "Type", "Amount", "Details"}, rows)
}

func transferAction(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	source, ok := chooseAccount(ctx, app, user, "transfer from")
	if !ok {
		return
	}
	dest, err := promptInput("Recipient's account number", notEmpty("account number"))
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	amount, err := promptAmount(fmt.Sprintf("Amount to transfer from %s", source.Number), false)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	if err = warnIfDurability(ctx, app.Transfer(runCtx, source.Number, dest, amount)); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Transferred %s from account %s to account %s.",
		formatCurrency(amount), source.Number, dest))
	printInfof(ctx.Stdout, "Your new balance (account %s): %s", source.Number, formatCurrency(source.Balance))
}

func adminSession(runCtx context.Context, ctx *kong.Context, app *App, user *ledger.User) {
	for {
		choice, err := promptSelect(fmt.Sprintf("Admin panel (%s)", user.Name),
			adminListUsers, adminListAccounts, adminCustomerList,
			adminApplyInterest, adminAddCustomer, adminAddAdmin, sessionLogout)
		if err != nil {
			printError(ctx.Stderr, err.Error())
			return
		}

		switch choice {
		case adminListUsers:
			renderUsersTable(ctx.Stdout, app.Ledger)
		case adminListAccounts:
			renderAccountsTable(ctx.Stdout, app.Ledger)
		case adminCustomerList:
			customerListAction(ctx, app)
		case adminApplyInterest:
			interestAction(runCtx, ctx, app)
		case adminAddCustomer:
			adminRegisterAction(runCtx, ctx, app, ledger.RoleCustomer)
		case adminAddAdmin:
			adminRegisterAction(runCtx, ctx, app, ledger.RoleAdmin)
		case sessionLogout:
			printInfof(ctx.Stdout, "Logged out, admin %s.", user.Name)
			return
		}
	}
}

func customerListAction(ctx *kong.Context, app *App) {
	var entries []string
	for _, u := range app.Ledger.Users() {
		if u.IsCustomer() {
			entries = append(entries, fmt.Sprintf("%s: %s", u.NIC, u.Name))
		}
	}
	if len(entries) == 0 {
		printInfof(ctx.Stdout, "No customers exist.")
		return
	}
	printInfof(ctx.Stdout, "%s.", strings.Join(entries, ", "))
}

func interestAction(runCtx context.Context, ctx *kong.Context, app *App) {
	rate, err := promptRate()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}

	applied, total, err := app.AccrueInterest(runCtx, rate)
	if err = warnIfDurability(ctx, err); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	if applied == 0 {
		printInfof(ctx.Stdout, "No interest was applied; no account had a positive balance.")
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Interest at %s applied to %d account(s), %s distributed in total.",
		formatRate(rate), applied, formatCurrency(total)))
}

func adminRegisterAction(runCtx context.Context, ctx *kong.Context, app *App, role ledger.Role) {
	u, err := registerInteractive(ctx, app.Ledger, role)
	if err != nil {
		return
	}
	if err := warnIfDurability(ctx, app.persist(runCtx)); err != nil {
		printError(ctx.Stderr, err.Error())
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("Registered %s %s (%s).", role, u.NIC, u.Name))
}

// chooseAccount resolves which of the customer's accounts an action applies
// to: none means a hint to create one, a single account is selected
// automatically, several bring up a picker.
func chooseAccount(ctx *kong.Context, app *App, user *ledger.User, verb string) (*ledger.Account, bool) {
	owned := app.Ledger.AccountsOwnedBy(user.NIC)
	if len(owned) == 0 {
		printInfof(ctx.Stdout, "You don't have any bank accounts yet. Create one first.")
		return nil, false
	}
	if len(owned) == 1 {
		printInfof(ctx.Stdout, "Selected your only account: %s", owned[0].Number)
		return owned[0], true
	}

	labels := make([]string, len(owned))
	byLabel := make(map[string]*ledger.Account, len(owned))
	for i, acct := range owned {
		labels[i] = fmt.Sprintf("Account %s (balance %s)", acct.Number, formatCurrency(acct.Balance))
		byLabel[labels[i]] = acct
	}

	choice, err := promptSelect(fmt.Sprintf("Select the account to %s", verb), labels...)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return nil, false
	}
	return byLabel[choice], true
}

// promptAmount reads a monetary amount. A blank entry counts as zero when
// zero is allowed, matching how opening an account with no deposit works.
func promptAmount(title string, allowZero bool) (decimal.Decimal, error) {
	value, err := promptInput(title, func(s string) error {
		if strings.TrimSpace(s) == "" {
			if allowZero {
				return nil
			}
			return fmt.Errorf("enter an amount")
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("enter a number, e.g. 50.00")
		}
		if allowZero && d.IsNegative() {
			return fmt.Errorf("amount cannot be negative")
		}
		if !allowZero && !d.IsPositive() {
			return fmt.Errorf("amount must be positive")
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func promptRate() (decimal.Decimal, error) {
	value, err := promptInput(fmt.Sprintf("Interest rate (blank for %s)", ledger.DefaultInterestRate.String()), func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil || !d.IsPositive() {
			return fmt.Errorf("enter a positive rate, e.g. 0.015")
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return ledger.DefaultInterestRate, nil
	}
	return decimal.NewFromString(value)
}
