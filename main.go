package main

import "github.com/tikomo/redmine-punch/cmd"

func main() {
	cmd.Execute()
}
