package config

type Config struct {
	EnvConfig *EnvConfig
}

var configInstance *Config

func NewConfig() *Config {
	if configInstance != nil {
		return configInstance
	}

	configInstance = &Config{
		EnvConfig: LoadEnvConfig(),
	}
	return configInstance
}

func GetConfig() *Config {
	if configInstance == nil {
		panic("config not initialized. Call NewConfig() first.")
	}
	return configInstance
}
