package main

import "github.com/cmt-technologies/otrmtv/cmd"

func main() {
	cmd.Execute()
}
