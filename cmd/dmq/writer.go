package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmq-project/dmq"
	"github.com/dmq-project/dmq/internal/bufpool"
)

// writeBufSize is generous for a base-10 counter string; AppendInt never
// comes close to filling it.
const writeBufSize = 32

var writeCmd = &cobra.Command{
	Use:   "-w",
	Short: "Run as a producer, sending an incrementing counter as records",
	RunE:  runWriter,
}

func runWriter(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	mode, err := parseMode(flags.mode)
	if err != nil {
		return err
	}

	h, err := dmq.Init(flags.base, mode)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer dmq.Free(h) //nolint:errcheck

	pool := bufpool.New(writeBufSize)
	delay := time.Duration(flags.delay) * time.Millisecond
	for i := 1; flags.count == 0 || i <= flags.count; i++ {
		buf := pool.Get()[:0]
		buf = strconv.AppendInt(buf, int64(i), 10)
		if _, err := dmq.Send(h, buf); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		pool.Put(buf)
		if delay > 0 {
			time.Sleep(delay)
		}
	}
	log.Info("writer finished")
	return nil
}
