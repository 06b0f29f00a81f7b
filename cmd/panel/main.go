package main

import (
	"context"
	"os"

	"github.com/bedirhantong/renart-vendor-panel/internal/panel/app"
)

func main() {
	if err := app.Execute(context.Background(), app.LoadConfig); err != nil {
		os.Exit(1)
	}
}
