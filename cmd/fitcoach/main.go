package main

import (
	"os"

	"github.com/2beens/fitcoach/internal/render"
)

func main() {
	if err := Execute(); err != nil {
		render.Error(os.Stderr, err)
		os.Exit(1)
	}
}
