package main

import "github.com/rickpr/data-covid19-sfbayarea/internal/cli"

func main() {
	cli.Execute()
}
