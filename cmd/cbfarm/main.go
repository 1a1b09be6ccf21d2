package main

import (
	"os"

	"github.com/VSPipe/colorbleed-config/cmd/cbfarm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
