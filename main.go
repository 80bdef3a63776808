package main

import "github.com/hoergewohnheiten/hoergewohnheiten/cmd"

func main() {
	cmd.Execute()
}
