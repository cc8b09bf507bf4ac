package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Commands for managing touchline configuration.`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the effective configuration",
	Long: `Dump the effective configuration values in YAML format.

Redirect the output to a file to create a configuration template:

  touchline config dump > config.yaml

Configuration can be set via:
  - Config file (./config.yaml, /etc/touchline, $HOME/.touchline)
  - Environment variables (TOUCHLINE_SERVER_PORT, TOUCHLINE_DATABASE_DSN, ...)
  - Command-line flags (for some options)

Environment variables use the TOUCHLINE_ prefix and underscores for
nesting. Example: server.port -> TOUCHLINE_SERVER_PORT`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

// toMap converts a config struct to a map keyed by mapstructure tags,
// rendering durations in human-readable form.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		key := fieldType.Tag.Get("mapstructure")
		if key == "" {
			key = fieldType.Name
		}

		switch v := field.Interface().(type) {
		case time.Duration:
			result[key] = v.String()
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(field.Interface())
			} else {
				result[key] = field.Interface()
			}
		}
	}
	return result
}

func runConfigDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	yamlData, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	fmt.Println("# touchline configuration")
	fmt.Println("#")
	fmt.Println("# All values shown reflect the effective configuration.")
	fmt.Println("# Duration format: 30s, 5m, 1h")
	fmt.Println("#")
	fmt.Println("# Environment variable overrides:")
	fmt.Println("#   TOUCHLINE_SERVER_HOST, TOUCHLINE_SERVER_PORT")
	fmt.Println("#   TOUCHLINE_DATABASE_DRIVER, TOUCHLINE_DATABASE_DSN")
	fmt.Println("#   TOUCHLINE_HIGHLIGHTS_FOOTBALL_DATA_TOKEN")
	fmt.Println("#   TOUCHLINE_LOGGING_LEVEL, TOUCHLINE_LOGGING_FORMAT")
	fmt.Println("#")
	fmt.Println("")
	fmt.Print(string(yamlData))

	return nil
}
