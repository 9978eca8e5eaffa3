package main

import "github.com/mcoot/cybersnake/internal/cli"

func main() {
	cli.Execute()
}
