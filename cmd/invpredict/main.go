package main

import "inventory-predict/internal/cli"

func main() {
	cli.Execute()
}
