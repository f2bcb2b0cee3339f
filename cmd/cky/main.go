package main

import "cky/internal/cli"

func main() {
	cli.Execute()
}
