package main

import "github.com/mcoot/stakeledger/internal/cli"

func main() {
	cli.Execute()
}
