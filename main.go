package main

import "labbatch/internal/cli"

func main() {
	cli.Execute()
}
