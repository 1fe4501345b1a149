package main

import (
	"os"

	"github.com/crimson-sun/tracelens/cmd/tracelens/root"
)

func main() {
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
