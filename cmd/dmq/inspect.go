package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmq-project/dmq"
)

var inspectCmd = &cobra.Command{
	Use:   "-p",
	Short: "Print the shared header's fields",
	RunE:  runInspect,
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Unlink the queue's three files (must not be run against a live endpoint)",
	RunE:  runClean,
}

func runInspect(cmd *cobra.Command, args []string) error {
	h, err := dmq.Init(flags.base, dmq.ModeUnspecified)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer dmq.Free(h) //nolint:errcheck

	info, err := dmq.Info(h)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "dmq.readtarget = %d\n", info.ReadTarget)
	fmt.Fprintf(out, "dmq.writetarget = %d\n", info.WriteTarget)
	fmt.Fprintf(out, "dmq.writedelay = %d\n", info.WriteDelay)
	fmt.Fprintf(out, "dmq.mode = %s\n", info.Mode)
	fmt.Fprintf(out, "dmq.readoffset = %d\n", info.ReadOffset)
	fmt.Fprintf(out, "dmq.position = %d\n", info.Position)
	fmt.Fprintf(out, "dmq.logfile0 = %s\n", info.Q0)
	fmt.Fprintf(out, "dmq.logfile1 = %s\n", info.Q1)
	fmt.Fprintf(out, "dmq.mapfile = %s\n", info.MapFile)
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	h, err := dmq.Init(flags.base, dmq.ModeUnspecified)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer dmq.Free(h) //nolint:errcheck

	if err := dmq.Clean(h); err != nil {
		return fmt.Errorf("clean: %w", err)
	}
	return nil
}
