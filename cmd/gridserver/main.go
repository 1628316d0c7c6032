package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"fortio.org/log"
	"github.com/gin-gonic/gin"

	"formulagrid/internal/api"
	"formulagrid/internal/config"
	"formulagrid/internal/storage"
)

const ExitCodeMainError = 1

func main() {
	configPath := flag.String("config", "grid.yaml", "path to the YAML config file")
	flag.Parse()

	os.Exit(HandleExitError(os.Stderr, RunApp(*configPath)))
}

// RunApp serves the sheet API until the listener fails.
func RunApp(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	closeLog, err := cfg.ApplyLogging()
	if err != nil {
		return err
	}
	defer closeLog()

	gin.SetMode(gin.ReleaseMode)

	store, err := storage.OpenBolt(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	router := api.SetupRouter(api.NewController(api.NewStoreService(store)))

	log.Infof("serving %s on %s", store.Path(), cfg.Listen)
	return http.ListenAndServe(cfg.Listen, router)
}

func HandleExitError(errStream io.Writer, err error) int {
	if err != nil {
		_, _ = fmt.Fprintln(errStream, err)
		return ExitCodeMainError
	}
	return 0
}
