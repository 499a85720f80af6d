// Package main starts the go-pugtodo web server
package main

import (
	"log"
	"os"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-pugtodo/internal/config"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var Prof *prof.Profiler

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion
	// .env fills variables the environment does not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG]: Warning: failed to load .env: %v", err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pugtodo-web",
		Usage:   "Just a TODO List",
		Version: appVersion,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "YAML config file (missing file means defaults)",
				Value: "config.yaml",
			},
			&cli.StringFlag{
				Name:    "db-connect",
				Usage:   "store connection string: mongodb://... or a SQLite path",
				EnvVars: []string{config.EnvConnectString},
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "web server port",
				EnvVars: []string{"PORT"},
			},
			&cli.BoolFlag{Name: "ssl", Usage: "enable TLS"},
			&cli.StringFlag{Name: "cert", Usage: "TLS certificate file (/path/to/fullchain.pem)"},
			&cli.StringFlag{Name: "key", Usage: "TLS key file (/path/to/privkey.pem)"},
			&cli.BoolFlag{Name: "no-minify", Usage: "serve rendered HTML unminified"},
			&cli.BoolFlag{Name: "no-access-log", Usage: "disable the Apache style request log"},
			&cli.BoolFlag{Name: "debug", Usage: "gin debug mode"},
			&cli.StringFlag{Name: "pprof", Usage: "serve pprof on this address (e.g. :51111)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if addr := c.String("pprof"); addr != "" {
				Prof = prof.NewProf()
				go Prof.PprofWeb(addr)
			}
			return serve(cfg)
		},
	}
}
