package cli

// Globals defines global flags available to all commands.
type Globals struct {
	DataDir   string `help:"Directory holding the data files." default:"." type:"path"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
	Verbose   bool   `help:"Enable debug logging." short:"v"`
}

type Commands struct {
	Globals

	Run      RunCmd      `cmd:"" help:"Start an interactive banking session."`
	Report   ReportCmd   `cmd:"" help:"Read-only reports over users and accounts."`
	Interest InterestCmd `cmd:"" help:"Apply interest to all eligible accounts."`
}
