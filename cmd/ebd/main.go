package main

import "github.com/evolbioinfo/ebd/cmd"

func main() {
	cmd.Execute()
}
