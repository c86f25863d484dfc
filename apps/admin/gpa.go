package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
)

func (cli *commandLine) gpa(ctx context.Context) error {
	calc, err := cli.svc.GPA(ctx)
	if err != nil {
		return errors.Wrap(err, "computing gpa")
	}
	courses, err := cli.svc.QueryCourses(ctx)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tCOURSE\tCREDITS\tGPA\tGRADE")
	for _, c := range courses {
		cg := calc.Course(c.ID)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", c.Code, c.Name, c.Credits, cg.GPA, cg.LetterGrade)
	}
	_, _ = fmt.Fprintf(w, "\t\t\t%.2f\tOVERALL\n", calc.Overall)
	return w.Flush()
}
