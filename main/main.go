// Dev/test entry point: runs the stub PipeTrack backend locally so the
// client packages have something to talk to.
package main

import (
	"flag"

	"github.com/apex/log"

	"pipetrack/config"
	"pipetrack/stubserver"
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	if err := stubserver.StartService(cfg); err != nil {
		log.Fatalf("Stub backend exited: %v", err)
	}
}
