package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hrmportal/internal/app/server"
	"hrmportal/internal/nav"
	"hrmportal/internal/perm"
)

func main() {
	root := &cobra.Command{
		Use:   "hrmportal",
		Short: "Session, permission and navigation gateway for the HRM SPA",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal server",
		Run: func(cmd *cobra.Command, args []string) {
			server.Run()
		},
	}

	navCmd := &cobra.Command{
		Use:   "nav [manifest]",
		Short: "Validate a navigation manifest and print its entries",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNavCheck,
	}

	root.AddCommand(serveCmd, navCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runNavCheck(cmd *cobra.Command, args []string) error {
	path := "configs/nav.yaml"
	if len(args) == 1 {
		path = args[0]
	}

	menu, err := nav.Load(path)
	if err != nil {
		color.Red("manifest invalid: %v", err)
		return err
	}

	known := map[string]struct{}{}
	for _, token := range perm.Catalog {
		known[token] = struct{}{}
	}

	color.Green("manifest ok: %d items", len(menu.Items))
	for _, item := range menu.Items {
		requirement := "(always visible)"
		if len(item.Require) > 0 {
			requirement = strings.Join(item.Require, ", ")
		}
		fmt.Printf("  %-20s %-16s %s\n", item.Path, item.Label, requirement)
		for _, token := range item.Require {
			if _, ok := known[strings.ToLower(token)]; !ok {
				color.Yellow("    warning: %q is not in the portal permission catalog", token)
			}
		}
	}
	return nil
}
