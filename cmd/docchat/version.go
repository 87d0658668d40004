package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/docchat-go/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "docchat %s\n", version.Full())
		},
	}
}
