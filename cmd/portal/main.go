package main

import (
	"flag"

	"github.com/go-portal/portal/internal/bootstrap"
	"github.com/go-portal/portal/internal/portal/conf"
)

/**
 * @file: main.go
 * @description: portal server entrypoint
 */

var configFile string

func init() {
	flag.StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. -conf conf.d/config.toml")
}

func main() {
	flag.Parse()

	appConf := conf.NewConf(configFile)

	shutdown, err := bootstrap.Run(appConf)
	if err != nil {
		panic(err)
	}

	shutdown()
}
