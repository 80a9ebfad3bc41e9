package main

import (
	"os"

	"github.com/ashaai/asha-server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
