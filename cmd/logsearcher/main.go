package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common"
	"github.com/princess-entrapta/logsearcher/internal/common/app"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher"
	"github.com/princess-entrapta/logsearcher/internal/logsearcher/configuration"
)

const CustomConfigLocation = "config"

func init() {
	pflag.StringSlice(
		CustomConfigLocation,
		[]string{},
		"Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)",
	)
	pflag.Parse()
}

func main() {
	common.ConfigureLogging()

	var config configuration.ServerConfiguration
	userSpecifiedConfigs := viper.GetStringSlice(CustomConfigLocation)
	common.LoadConfig(&config, "./config/logsearcher", userSpecifiedConfigs)

	log.Info("Log Searcher Starting")
	if err := logsearcher.Serve(app.CreateContextWithShutdown(), &config); err != nil {
		log.WithError(err).Fatal("Log searcher failed")
	}
}
