package main

import (
	"log"

	"github.com/bedirhantong/renart-vendor-panel/internal/vendorapi"
)

func main() {
	cfg, err := vendorapi.LoadServerConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	server, err := vendorapi.NewServer(cfg)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}

	if err := server.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
