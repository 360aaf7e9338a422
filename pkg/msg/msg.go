package msg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"go-todo/configs"
)

// Catalog maps dotted keys such as todo.notify.create-success to message templates
// with {0}, {1}... placeholders.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]string
}

var catalog = &Catalog{messages: map[string]string{}}

// init loads messages from YAML, falling back to the bundled catalog
func init() {
	if err := Init(configs.Env.MessagesFilePath); err != nil {
		if err := InitFromBytes(configs.MessagesYAML); err != nil {
			log.Fatalf("Fail to read messages: %v", err)
		}
	}
}

func Init(filepath string) error {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return err
	}
	return InitFromBytes(content)
}

// InitFromBytes replaces the global catalog with the YAML content
func InitFromBytes(content []byte) error {
	return catalog.Load(content)
}

// Load replaces the catalog's messages with the YAML content
func (c *Catalog) Load(content []byte) error {
	reader := viper.New()
	reader.SetConfigType("yml")
	if err := reader.ReadConfig(bytes.NewReader(content)); err != nil {
		return err
	}

	loaded := make(map[string]string)
	flatten("", reader.AllSettings(), loaded)

	c.mu.Lock()
	c.messages = loaded
	c.mu.Unlock()
	return nil
}

func flatten(prefix string, data map[string]any, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			flatten(fullKey, v, result)
		default:
			log.Printf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// Get formats the message under key, or a "Message not found" marker
func (c *Catalog) Get(key string, args ...any) string {
	c.mu.RLock()
	message, exists := c.messages[key]
	c.mu.RUnlock()
	if !exists {
		return "Message not found: " + key
	}

	for i, arg := range args {
		message = strings.ReplaceAll(message, "{"+strconv.Itoa(i)+"}", format(arg))
	}
	return message
}

// Has reports whether key is in the catalog
func (c *Catalog) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.messages[key]
	return exists
}

// GetMessage formats a message from the global catalog
func GetMessage(key string, args ...any) string {
	return catalog.Get(key, args...)
}

// HasMessage reports whether the global catalog has key
func HasMessage(key string) bool {
	return catalog.Has(key)
}

// format renders scalars, errors and Stringers as text and anything else as JSON
func format(arg any) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case string:
		return v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int8, int16, int32, uint, uint8, uint16, uint32, uint64, float32:
		return fmt.Sprint(v)
	}

	encoded, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(encoded)
}
