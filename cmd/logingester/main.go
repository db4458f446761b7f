package main

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	log "github.com/sirupsen/logrus"

	"github.com/princess-entrapta/logsearcher/internal/common"
	"github.com/princess-entrapta/logsearcher/internal/common/app"
	"github.com/princess-entrapta/logsearcher/internal/logingester"
	"github.com/princess-entrapta/logsearcher/internal/logingester/configuration"
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

	var config configuration.IngesterConfiguration
	userSpecifiedConfigs := viper.GetStringSlice(CustomConfigLocation)
	common.LoadConfig(&config, "./config/logingester", userSpecifiedConfigs)

	log.Info("Log Ingester Starting")
	if err := logingester.Run(app.CreateContextWithShutdown(), &config); err != nil {
		log.WithError(err).Fatal("Log ingester failed")
	}
}
