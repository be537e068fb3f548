package main

import "github.com/hydrabus-tools/picsp/cmd"

func main() {
	cmd.Execute()
}
