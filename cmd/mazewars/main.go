package main

import (
	"github.com/mazewars/mazewars-go/internal/cli"
)

func main() {
	cli.Execute()
}
