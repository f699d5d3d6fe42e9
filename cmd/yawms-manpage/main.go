package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/dfm/yawms/cmd/yawms"
	"github.com/dfm/yawms/internal/version"
)

func main() {
	rootCmd := yawms.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "YAWMS",
		Section: "1",
		Source:  "yawms " + version.Version,
		Manual:  "yawms manual",
	}

	if err := doc.GenMan(rootCmd, header, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
