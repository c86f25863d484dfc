package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
)

func (cli *commandLine) digest(ctx context.Context, to string, horizon time.Duration) error {
	recipients, err := mail.ParseAddressList(to)
	if err != nil {
		return errors.Wrap(err, "parsing recipients")
	}
	addrs := make([]mail.Address, 0, len(recipients))
	for _, r := range recipients {
		addrs = append(addrs, *r)
	}

	n, err := cli.svc.WithReminderHorizon(horizon).SendReminderDigest(ctx, addrs...)
	if err != nil {
		return errors.Wrap(err, "sending digest")
	}
	if n == 0 {
		_, _ = fmt.Fprintln(cli.out, "no pending reminder")
		return nil
	}
	_, _ = fmt.Fprintf(cli.out, "sent %d reminder(s) to %d recipient(s)\n", n, len(addrs))
	return nil
}
