package main

import "github.com/mvp-joe/pdbcat/internal/cli"

func main() {
	cli.Execute()
}
