package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/studyplan/core"
	"github.com/trezcool/studyplan/core/planner"
)

var (
	confirmFunc = confirm // mockable

	errHelp    = errors.New("help provided")
	errAborted = errors.New("aborted")
)

type commandLine struct {
	svc  *planner.Service
	db   *sqlx.DB // nil unless the postgres storage engine is used
	conf *core.Config
	out  io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  migrate up|down|version|steps N|force V - manage the database schema")
	_, _ = fmt.Fprintln(cli.out, "  export -o FILE [-format json|yaml] - export every collection (FILE '-' is stdout)")
	_, _ = fmt.Fprintln(cli.out, "  import -i FILE [-format json|yaml] [-yes] - replace every collection with a backup")
	_, _ = fmt.Fprintln(cli.out, "  gpa - print the GPA of every graded course")
	_, _ = fmt.Fprintln(cli.out, "  digest [-to EMAILS] [-horizon 72h] - email the pending reminders")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	exportCmd := cli.newFlagSet("export")
	exportPath := exportCmd.String("o", "", "The file to write. Its extension picks the format unless -format is set; '-' writes to stdout.")
	exportFormat := exportCmd.String("format", "", "json or yaml.")

	importCmd := cli.newFlagSet("import")
	importPath := importCmd.String("i", "", "The backup file to load.")
	importFormat := importCmd.String("format", "", "json or yaml; guessed from the file extension by default.")
	importYes := importCmd.Bool("yes", false, "Do not ask for confirmation.")

	digestCmd := cli.newFlagSet("digest")
	digestTo := digestCmd.String("to", strings.Join(cli.conf.DigestRecipients, ", "), "Comma-separated recipients.")
	digestHorizon := digestCmd.Duration("horizon", cli.conf.ReminderHorizon, "How far ahead to look for reminders.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "export":
		if err := parseFlags(exportCmd, args[2:]); err != nil {
			return err
		}
		if *exportPath == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.export(ctx, *exportPath, *exportFormat)

	case "import":
		if err := parseFlags(importCmd, args[2:]); err != nil {
			return err
		}
		if *importPath == "" {
			importCmd.Usage()
			return errHelp
		}
		if !*importYes {
			ok, err := confirmFunc("This replaces all the stored data. Continue?")
			if err != nil {
				return err
			}
			if !ok {
				return errAborted
			}
		}
		return cli.importBackup(ctx, *importPath, *importFormat)

	case "gpa":
		return cli.gpa(ctx)

	case "digest":
		if err := parseFlags(digestCmd, args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*digestTo) == "" {
			digestCmd.Usage()
			return errHelp
		}
		return cli.digest(ctx, *digestTo, *digestHorizon)

	default:
		cli.printUsage()
		return errHelp
	}
}

// confirm asks a yes/no question on stdin; anything but y/yes means no.
func confirm(question string) (bool, error) {
	fmt.Printf("%s [y/N] ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
