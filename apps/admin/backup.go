package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplan/core/planner"
	"github.com/trezcool/studyplan/storage/backup"
)

func resolveFormat(path, format string) (backup.Format, error) {
	if format == "" {
		return backup.FormatFromPath(path), nil
	}
	return backup.ParseFormat(format)
}

func (cli *commandLine) export(ctx context.Context, path, format string) error {
	f, err := resolveFormat(path, format)
	if err != nil {
		return err
	}
	snap, err := cli.svc.Export(ctx)
	if err != nil {
		return errors.Wrap(err, "exporting data")
	}

	if path == "-" {
		return backup.Encode(cli.out, backup.NewDocument(snap), f)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating backup file")
	}
	if err = backup.Encode(file, backup.NewDocument(snap), f); err != nil {
		_ = file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return errors.Wrap(err, "closing backup file")
	}
	_, _ = fmt.Fprintf(cli.out, "exported %s to %s\n", describe(snap), path)
	return nil
}

func (cli *commandLine) importBackup(ctx context.Context, path, format string) error {
	f, err := resolveFormat(path, format)
	if err != nil {
		return err
	}
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening backup file")
	}
	defer func() { _ = file.Close() }()

	doc, err := backup.Decode(file, f)
	if err != nil {
		return err
	}
	snap := doc.Snapshot()
	if err = cli.svc.Import(ctx, snap); err != nil {
		return errors.Wrap(err, "importing data")
	}
	_, _ = fmt.Fprintf(cli.out, "imported %s from %s\n", describe(snap), path)
	return nil
}

func describe(snap planner.Snapshot) string {
	return fmt.Sprintf("%d courses, %d grades, %d assignments, %d schedule entries, %d reminders",
		len(snap.Courses), len(snap.Grades), len(snap.Assignments), len(snap.Schedule), len(snap.Reminders))
}
