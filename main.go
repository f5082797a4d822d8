// The main package for the winecrawler executable.
package main

import (
	"github.com/JakeFAU/wine-searcher-crawler/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
