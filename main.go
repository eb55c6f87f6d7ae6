package main

import "github.com/frahmantamala/payroll-bridge/cmd"

func main() {
	cmd.Execute()
}
