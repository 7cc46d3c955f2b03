package configs

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"timebank-smoke/pkg/msg"
	"timebank-smoke/pkg/resource"
)

//go:embed application.yml
var applicationYAML []byte

//go:embed messages.yml
var messagesYAML []byte

type EnvConfig struct {
	ApplicationName string
	LogLevel        string
}

var Env *EnvConfig

func init() {
	viper.AutomaticEnv()

	Env = &EnvConfig{
		ApplicationName: getStringOrDefault("APPLICATION_NAME", "timebank-smoke"),
		LogLevel:        getStringOrDefault("LOG_LEVEL", "info"),
	}
}

// Load installs the embedded properties and messages, then merges the files
// named by PROPERTIES_FILE_PATH and MESSAGES_FILE_PATH on top of them.
func Load() error {
	if err := resource.Load(bytes.NewReader(applicationYAML)); err != nil {
		return fmt.Errorf("load embedded properties: %w", err)
	}
	if err := msg.Load(bytes.NewReader(messagesYAML)); err != nil {
		return fmt.Errorf("load embedded messages: %w", err)
	}

	if path, ok := os.LookupEnv("PROPERTIES_FILE_PATH"); ok {
		if err := resource.Init(path); err != nil {
			return err
		}
	}
	if path, ok := os.LookupEnv("MESSAGES_FILE_PATH"); ok {
		if err := msg.Init(path); err != nil {
			return err
		}
	}
	return nil
}

func getStringOrDefault(key, defaultValue string) string {
	value := viper.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}
