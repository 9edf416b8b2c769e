package main

import "github.com/dbsmedya/dqprofile/cmd/dqprofile/cmd"

func main() {
	cmd.Execute()
}
