package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sync, info, and extract are represented in the CLI surface per spec §6,
// but their behavior (downloading raw jurisdiction archives, listing
// metadata, writing a SQLite sidecar per CVR) is explicitly out of scope
// for this repo (spec §1 Non-goals, §9 Open Question b) — this repo
// defines only the interfaces the core pipeline expects from them.

var syncCmd = &cobra.Command{
	Use:   "sync",
	Args:  cobra.NoArgs,
	Short: "Download raw jurisdiction CVR archives (not implemented in this build)",
	RunE:  notImplemented("sync"),
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Args:  cobra.NoArgs,
	Short: "Print metadata about jurisdictions and elections (not implemented in this build)",
	RunE:  notImplemented("info"),
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Args:  cobra.NoArgs,
	Short: "Write a SQLite sidecar next to each raw CVR archive (not implemented in this build)",
	RunE:  notImplemented("extract"),
}

func notImplemented(verb string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("%s: not implemented in this build", verb)
	}
}
