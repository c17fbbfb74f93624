package main

import "github.com/Mechazawa/wave-function-collapse/cmd"

func main() {
	cmd.Execute()
}
