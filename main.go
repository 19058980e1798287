package main

import "github.com/stockroom-app/variantd/cmd"

func main() {
	cmd.Execute()
}
