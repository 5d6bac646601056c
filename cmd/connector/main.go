// file: cmd/connector/main.go

package main

import (
	"errors"
	"fmt"
	"os"
)

const version = "v0.1.0"

// cliError 携带进程退出码
type cliError struct {
	code int
	err  error
}

func (e cliError) Error() string { return e.err.Error() }

func main() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		var ce cliError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.err)
			os.Exit(ce.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
