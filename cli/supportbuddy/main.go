package main

import (
	"os"

	supportbuddycmder "github.com/supportbuddyx/supportbuddy/cmd/supportbuddy"
	"github.com/supportbuddyx/supportbuddy/pkg/logger"
)

func main() {
	cmd := supportbuddycmder.NewSupportBuddyCmd()
	if err := cmd.Execute(); err != nil {
		logger.NewPretty(false).Error("command failed", "err", err)
		os.Exit(1)
	}
}
