package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-raymarcher/pkg/config"
	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/publish"
	"github.com/df07/go-raymarcher/web/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Parse command line flags
	port := flag.Int("port", cfg.Port, "Port to serve on")
	scenesDir := flag.String("scenes", cfg.ScenesDir, "Directory of JSON scene files")
	flag.Parse()

	cfg.Port = *port
	cfg.ScenesDir = *scenesDir

	var publisher server.Publisher
	if cfg.S3.Enabled() {
		p, err := publish.NewS3Publisher(cfg.S3, core.NewDefaultLogger())
		if err != nil {
			log.Fatalf("Failed to configure publishing: %v", err)
		}
		publisher = p
		log.Printf("Publishing renders to s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix)
	}

	webServer := server.NewServer(cfg, publisher)

	log.Printf("Ray Marcher Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
