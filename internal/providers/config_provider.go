package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"consentd/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("study.variants", 6)
	viper.SetDefault("persistence.sweepInterval", "1h")

	viper.BindEnv("logger.level", "CONSENTD_LOG_LEVEL")
	viper.BindEnv("persistence.filePath", "CONSENTD_DATA_FILE")
	viper.BindEnv("admin.apiKey", "CONSENTD_ADMIN_API_KEY")
	viper.BindEnv("cache.enabled", "CONSENTD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CONSENTD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ConsentStudyDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
