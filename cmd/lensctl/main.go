package main

import "Sagitta/internal/cli"

func main() {
	cli.Execute()
}
