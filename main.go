package main

import (
	"flag"
	"fmt"
	"os"

	"fortio.org/log"
	"github.com/gdamore/tcell/v2"

	"formulagrid/internal/app"
	"formulagrid/internal/config"
)

func main() {
	configPath := flag.String("config", "grid.yaml", "path to the YAML config file")
	open := flag.String("open", "", "file to open at start (csv, xlsx or grid document)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.LogFile == "" {
		// the screen owns the terminal
		cfg.LogFile = os.DevNull
	}
	closeLog, err := cfg.ApplyLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	a := app.NewApp(cfg)
	if *open != "" {
		if err := a.Open(*open, ""); err != nil {
			log.Errf("open %s: %v", *open, err)
			a.Message = "error: " + err.Error()
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create screen: %v\n", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "cannot init screen: %v\n", err)
		os.Exit(1)
	}
	defer s.Fini()

	s.EnableMouse()
	s.Clear()

	for !a.Quit {
		a.EnsureCursorVisible(s)
		a.Draw(s)
		switch ev := s.PollEvent().(type) {
		case *tcell.EventKey:
			a.HandleKeyEvent(s, ev)
		case *tcell.EventResize:
			s.Sync()
		}
	}
}
