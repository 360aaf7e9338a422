package resource

import (
	"bytes"
	"log"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"

	"go-todo/configs"
)

var properties = viper.New()
var envPattern = regexp.MustCompile(`^\$\{([^:}]+)(?::([^}]*))?}$`)

// init loads application properties from YAML, falling back to the bundled defaults
func init() {
	if err := Init(configs.Env.PropertiesFilePath); err != nil {
		if err := InitFromBytes(configs.ApplicationYAML); err != nil {
			log.Fatalf("Fail to read properties: %v", err)
		}
	}
}

// Init replaces the loaded properties with the content of the YAML file at filepath
func Init(filepath string) error {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}
	return InitFromBytes(content)
}

// InitFromBytes replaces the loaded properties with the given YAML content
func InitFromBytes(content []byte) error {
	reader := viper.New()
	reader.SetConfigType("yml")
	if err := reader.ReadConfig(bytes.NewReader(content)); err != nil {
		return err
	}

	resolved := viper.New()
	parsePropertiesMap("", reader.AllSettings(), resolved)
	properties = resolved
	return nil
}

// parsePropertiesMap reads recursively the YAML tree
func parsePropertiesMap(prefix string, data map[string]any, result *viper.Viper) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result.Set(fullKey, resolveEnvVariable(v))
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result.Set(fullKey, v)
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable resolves ${ENV:default} values, other strings are kept as they are
func resolveEnvVariable(value string) string {
	matches := envPattern.FindStringSubmatch(value)
	if len(matches) == 0 {
		return value
	}

	if envValue, exists := os.LookupEnv(matches[1]); exists {
		return envValue
	}
	return matches[2]
}

// Set overrides a property at runtime
func Set(key string, value any) {
	properties.Set(key, value)
}

func Get(key string) any {
	return properties.Get(key)
}

func GetString(key string) string {
	return properties.GetString(key)
}

func GetBool(key string) bool {
	return properties.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return properties.GetDuration(key)
}

func GetInt(key string) int {
	return properties.GetInt(key)
}

func GetInt64(key string) int64 {
	return properties.GetInt64(key)
}

func GetStringSlice(key string) []string {
	return properties.GetStringSlice(key)
}
