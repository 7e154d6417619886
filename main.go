package main

import (
	"api_ledger/cmd"
)

func main() {
	cmd.Execute()
}
