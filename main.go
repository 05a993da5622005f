package main

import "github.com/rheminthsimeon/melodistiq/cmd"

func main() {
	cmd.Execute()
}
