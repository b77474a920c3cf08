package main

import "github.com/arb-intel/engine/cmd"

func main() {
	cmd.Execute()
}
