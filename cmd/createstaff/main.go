// Command createstaff bootstraps a staff account, typically the first
// superuser, directly against the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/GyasiAmosKwadwo/elevation-church/internal/app"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/data/repos"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/platform/apierr"
	"github.com/GyasiAmosKwadwo/elevation-church/internal/services"
)

type options struct {
	Username  string `long:"username" env:"CREATESTAFF_USERNAME" description:"Login name (lowercased)" required:"true"`
	Email     string `long:"email" env:"CREATESTAFF_EMAIL" default:"" description:"Contact email"`
	Password  string `long:"password" env:"CREATESTAFF_PASSWORD" description:"Password, at least 8 characters" required:"true"`
	Superuser bool   `long:"superuser" env:"CREATESTAFF_SUPERUSER" description:"Allow the account to manage other staff"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	log, err := app.NewLogger()
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg := app.LoadConfig(log)
	pg, err := app.OpenDB(log, cfg.DB)
	if err != nil {
		log.Error("open database failed", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	staff := services.NewStaffService(pg.DB(), log, repos.NewUserRepo(pg.DB(), log))
	in := &services.StaffInput{
		Username:    &opts.Username,
		Password:    &opts.Password,
		IsSuperuser: &opts.Superuser,
	}
	if opts.Email != "" {
		in.Email = &opts.Email
	}
	created, err := staff.Create(context.Background(), in)
	if err != nil {
		if ae, ok := apierr.As(err); ok && len(ae.Fields) > 0 {
			for field, msgs := range ae.Fields {
				for _, msg := range msgs {
					fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
				}
			}
		} else {
			log.Error("create staff failed", "error", err)
		}
		os.Exit(1)
	}
	fmt.Printf("created %s (id=%s superuser=%t)\n", created.Username, created.ID, created.IsSuperuser)
}
