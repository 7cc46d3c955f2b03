package resource

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	v          = newViper()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

func newViper() *viper.Viper {
	instance := viper.New()
	instance.SetConfigType("yml")
	instance.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	instance.AutomaticEnv()
	return instance
}

// Init merges the YAML properties file at filepath into the current properties.
func Init(filepath string) error {
	f, err := os.Open(filepath)
	if err != nil {
		return fmt.Errorf("read properties %s: %w", filepath, err)
	}
	defer func() { _ = f.Close() }()

	if err := Load(f); err != nil {
		return fmt.Errorf("read properties %s: %w", filepath, err)
	}
	return nil
}

// Load merges the YAML properties read from r, resolving ${ENV:default} placeholders.
func Load(r io.Reader) error {
	raw := viper.New()
	raw.SetConfigType("yml")
	if err := raw.ReadConfig(r); err != nil {
		return err
	}

	properties := make(map[string]any)
	parsePropertiesMap("", raw.AllSettings(), properties)

	return v.MergeConfigMap(expand(properties))
}

// Reset drops every loaded property, default and flag binding.
func Reset() {
	v = newViper()
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch val := value.(type) {
		case string:
			result[fullKey] = resolveEnvVariable(val)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = val
		case []any:
			result[fullKey] = val
		case map[string]any:
			parsePropertiesMap(fullKey, val, result)
		default:
			fmt.Fprintf(os.Stderr, "Ignoring key '%s' with unsupported type.\n", fullKey)
		}
	}
}

// expand turns flat dotted keys back into nested maps, as MergeConfigMap expects.
func expand(flat map[string]any) map[string]any {
	nested := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := nested
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = value
	}
	return nested
}

// resolveEnvVariable replaces ${ENV} and ${ENV:default} placeholders in value.
// Unset variables without a default resolve to an empty string.
func resolveEnvVariable(value string) string {
	return envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if envValue, exists := os.LookupEnv(groups[1]); exists {
			return envValue
		}
		return groups[2]
	})
}

// BindPFlag makes flag override key once it has been set on the command line.
func BindPFlag(key string, flag *pflag.Flag) error {
	return v.BindPFlag(key, flag)
}

// SetDefault sets the value used when key is not configured anywhere else.
func SetDefault(key string, value any) {
	v.SetDefault(key, value)
}

// Set overrides key for the rest of the process.
func Set(key string, value any) {
	v.Set(key, value)
}

func Get(key string) any {
	return v.Get(key)
}

func GetString(key string) string {
	return v.GetString(key)
}

func GetBool(key string) bool {
	return v.GetBool(key)
}

func GetDuration(key string) time.Duration {
	return v.GetDuration(key)
}

func GetTime(key string) time.Time {
	return v.GetTime(key)
}

func GetInt(key string) int {
	return v.GetInt(key)
}

func GetInt32(key string) int32 {
	return v.GetInt32(key)
}

func GetInt64(key string) int64 {
	return v.GetInt64(key)
}

func GetIntSlice(key string) []int {
	return v.GetIntSlice(key)
}

func GetFloat64(key string) float64 {
	return v.GetFloat64(key)
}

func GetSizeInBytes(key string) uint {
	return v.GetSizeInBytes(key)
}

func GetStringSlice(key string) []string {
	return v.GetStringSlice(key)
}
