package main

import "github.com/vaxhacker/aineko/internal/cmd"

func main() {
	cmd.Execute()
}
