package main

import "github.com/radiofrance/dagspec/cmd"

func main() {
	cmd.Execute()
}
