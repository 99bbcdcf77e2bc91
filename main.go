package main

import (
	"flag"

	"github.com/buzzoola/hbrtb/config"
	"github.com/buzzoola/hbrtb/router"
	"github.com/buzzoola/hbrtb/server"

	"github.com/golang/glog"
	"github.com/spf13/viper"
)

// Rev holds binary revision string
// Set manually at build time using:
//
//	go build -ldflags "-X main.Rev=`git rev-parse --short HEAD` -X main.Version=`git describe --tags`"
var (
	Rev     string
	Version string
)

func main() {
	flag.Parse() // required for glog flags and testing package flags

	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Configuration could not be loaded or did not pass validation: %v", err)
	}

	err = serve(Version, Rev, cfg)
	if err != nil {
		glog.Exitf("hbrtb failed: %v", err)
	}
}

const configFileName = "hbrtb"

func loadConfig() (*config.Configuration, error) {
	v := viper.New()
	config.SetupViper(v, configFileName)
	return config.New(v)
}

func serve(version, revision string, cfg *config.Configuration) error {
	r, err := router.New(cfg)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	corsRouter := router.SupportCORS(r, cfg.CORS.AllowedOrigins)
	return server.Listen(cfg, router.NoCache{Handler: corsRouter}, router.Admin(version, revision), r.MetricsEngine)
}
