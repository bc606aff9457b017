package main

import "github.com/giantswarm/dynamolocal/cmd/dynamolocal/cmd"

func main() {
	cmd.Execute()
}
