package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmq-project/dmq"
)

var readCmd = &cobra.Command{
	Use:   "-r",
	Short: "Run as a consumer, printing delivered records to stdout",
	RunE:  runReader,
}

// errInterrupted signals a clean shutdown requested via SIGINT/SIGTERM, as
// opposed to a real failure; runReader treats it as success.
type errInterrupted struct{ os.Signal }

func (e errInterrupted) Error() string { return "caught " + e.String() }

func runReader(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	h, err := dmq.Init(flags.base, dmq.ModeUnspecified)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer dmq.Free(h) //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		return waitInterrupted(ctx)
	})
	wg.Go(func() error {
		defer cancel()
		return consumeLoop(ctx, cmd.OutOrStdout(), h, log)
	})

	var interrupted errInterrupted
	if err := wg.Wait(); err != nil && !errors.As(err, &interrupted) {
		return err
	}
	return nil
}

func consumeLoop(ctx context.Context, out io.Writer, h dmq.Handle, log interface {
	Debug(...interface{})
	Infof(string, ...interface{})
}) error {
	count := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Receive is always called non-blocking; without --nowait the loop
		// does its own one-second poll so that a canceled ctx ends it.
		rec, err := dmq.Receive(h, true)
		if err != nil {
			if errors.Is(err, dmq.ErrWouldBlock) {
				if flags.nowait {
					log.Debug("queue empty, exiting (nowait)")
					return nil
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(time.Second):
				}
				continue
			}
			return fmt.Errorf("receive: %w", err)
		}
		out.Write(rec.Bytes())  //nolint:errcheck
		out.Write([]byte("\n")) //nolint:errcheck
		count++
		if flags.report > 0 && count%flags.report == 0 {
			log.Infof("count = %d", count)
		}
	}
}

// waitInterrupted blocks until SIGINT/SIGTERM arrives or ctx is canceled,
// mirroring sakateka-yanet2/coordinator/cmd/coordinator's shutdown pattern.
func waitInterrupted(ctx context.Context) error {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case sig := <-ch:
		return errInterrupted{sig}
	case <-ctx.Done():
		return nil
	}
}
