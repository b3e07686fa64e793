package main

import "sitless/internal/cli"

func main() {
	cli.Execute()
}
