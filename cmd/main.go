// cmd/main.go
package main

import cmd "github.com/benchkite/benchkite/cmd/benchkite"

// main starts the benchkite CLI application by delegating to the
// cobra root command defined in the benchkite package.
func main() {
	cmd.Execute()
}
