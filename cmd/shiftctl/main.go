package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/cmlabs-hris/shift-attendance/cmd/shiftctl/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Migrate     commands.MigrateCmd     `cmd:"" help:"Apply pending database migrations"`
		Start       commands.StartCmd       `cmd:"" help:"Start or reopen today's shift day"`
		End         commands.EndCmd         `cmd:"" help:"End today's shift day for every employee"`
		EndEmployee commands.EndEmployeeCmd `cmd:"" help:"End today's shift for one employee"`
		CloseStale  commands.CloseStaleCmd  `cmd:"" help:"End a past shift day that was left open"`
		Status      commands.StatusCmd      `cmd:"" help:"Show shift day status"`
		Token       commands.TokenCmd       `cmd:"" help:"Generate an access token for development"`
		Debug       bool                    `help:"Enable debug mode."`
		Version     kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("shiftctl"),
		kong.Description("Administer the shift attendance service."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
