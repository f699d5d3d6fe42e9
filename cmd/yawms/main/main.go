package main

import (
	"os"

	"github.com/dfm/yawms/cmd/yawms"
	"github.com/pterm/pterm"
)

func main() {
	rootCmd := yawms.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		os.Exit(1)
	}
}
