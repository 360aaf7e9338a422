package configs

import (
	_ "embed"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ApplicationYAML is the bundled copy of application.yml, used when no file is found on disk.
//
//go:embed application.yml
var ApplicationYAML []byte

// MessagesYAML is the bundled copy of messages.yml.
//
//go:embed messages.yml
var MessagesYAML []byte

type EnvConfig struct {
	ApplicationName    string
	PropertiesFilePath string
	MessagesFilePath   string
}

var Env *EnvConfig

func init() {
	_ = godotenv.Load()

	env := viper.New()
	env.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName:    getStringOrDefault(env, "APPLICATION_NAME", "go-todo"),
		PropertiesFilePath: getStringOrDefault(env, "PROPERTIES_FILE_PATH", "configs/application.yml"),
		MessagesFilePath:   getStringOrDefault(env, "MESSAGES_FILE_PATH", "configs/messages.yml"),
	}
}

func getStringOrDefault(env *viper.Viper, key, defaultValue string) string {
	value := env.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
