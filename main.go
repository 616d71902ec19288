package main

import "github.com/duckola/adolfo-portfolio/cmd"

func main() {
	cmd.Execute()
}
