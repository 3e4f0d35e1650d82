package main

import "github.com/mcoot/pokernotes/internal/cli"

func main() {
	cli.Execute()
}
