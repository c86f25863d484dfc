package main

import (
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/storage/database"
)

var (
	migrateRunFunc = runMigration // mockable

	errNoDatabase = errors.New("migrations require the postgres storage engine")
)

func (cli *commandLine) migrate(args []string) error {
	out, err := migrateRunFunc(cli.db, args[0], args[1:]...)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cli.out, out)
	return nil
}

func runMigration(db *sqlx.DB, command string, args ...string) (string, error) {
	if db == nil {
		return "", errNoDatabase
	}
	m, err := database.NewMigrate(db)
	if err != nil {
		return "", err
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps", "force":
		if len(args) == 0 {
			return "", errors.Errorf("%s must be of form: migrate %s N", command, command)
		}
		n, convErr := strconv.Atoi(args[0])
		if convErr != nil {
			return "", errors.Errorf("%s: %q is not a number", command, args[0])
		}
		if command == "steps" {
			err = m.Steps(n)
		} else {
			err = m.Force(n)
		}
	case "version":
		version, dirty, vErr := m.Version()
		if vErr == migrate.ErrNilVersion {
			return "no migration applied", nil
		}
		if vErr != nil {
			return "", errors.Wrap(vErr, "reading version")
		}
		return fmt.Sprintf("version %d (dirty: %t)", version, dirty), nil
	default:
		return "", errors.Errorf("%q: no such command", command)
	}

	if err == migrate.ErrNoChange {
		return "no change", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "migrate %s", command)
	}
	return "done", nil
}
