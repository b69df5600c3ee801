package main

import "github.com/mvp-joe/commentcov-typescript/internal/cli"

func main() {
	cli.Execute()
}
