// Package main runs the kinematics HTTP server.
package main

import (
	"go.viam.com/utils"

	"go.viam.com/rx160/logging"
	"go.viam.com/rx160/web/server"
)

var logger = logging.NewLogger("rx160")

func main() {
	utils.ContextualMain(server.RunServer, logger)
}
