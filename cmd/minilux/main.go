// Command minilux runs and formats minilux scripts: `minilux PATH` runs
// a program, `minilux fmt PATH` (optionally with -w) reformats one.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
