package main

import (
	"os"

	"inkwell/manage"
)

func main() {
	os.Exit(manage.New().HandleCommand(os.Args[1:]))
}
