package main

import "github.com/m-cat/over/cmd"

func main() {
	cmd.Execute()
}
