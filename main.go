package main

import "github.com/iksnae/tubechat/cmd"

func main() {
	cmd.Execute()
}
