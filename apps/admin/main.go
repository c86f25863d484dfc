package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	dig_container "github.com/trezcool/studyplan/apps/api/di/dig"
	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
)

// waiter is implemented by the email services delivering in the background.
type waiter interface {
	Wait()
}

func main() {
	var runErr error
	c := dig_container.New(core.NewConfig)
	err := c.Invoke(func(conf *core.Config, logger core.Logger, svc *planner.Service, db *sqlx.DB, mailSvc core.EmailService) {
		if db != nil {
			defer func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close database", err)
				}
			}()
		}

		cli := commandLine{svc: svc, db: db, conf: conf, out: os.Stdout}
		runErr = cli.run(os.Args)

		// let background deliveries finish before exiting
		if w, ok := mailSvc.(waiter); ok {
			w.Wait()
		}
	})
	if err != nil {
		log.Fatal(err)
	}
	if runErr != nil {
		if runErr != errHelp {
			fmt.Printf("\nerror: %s\n", runErr)
		}
		os.Exit(1)
	}
}
