// Command gradepoint evaluates student projects from the command line.
package main

import (
	"github.com/huangsam/gradepoint/cmd"
	"github.com/huangsam/gradepoint/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Error running command", err)
	}
	if err := cmd.StopProfiling(); err != nil {
		contract.LogWarn("Error stopping profiling", err)
	}
}
