package main

import "github.com/fitlog/fitctl/cmd/fitctl/cmd"

func main() {
	cmd.Execute()
}
