package main

import "github.com/muliwe/go-triangle-classifier/internal/cli"

func main() {
	cli.Execute()
}
