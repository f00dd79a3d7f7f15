package dotenv

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load читает .env и применяет флаги командной строки поверх окружения.
func Load() error {
	err := godotenv.Load()
	if err != nil {
		return err
	}

	return ApplyFlags()
}

// ApplyFlags флаги -port и -courier переопределяют PORT и COURIER_ID.
func ApplyFlags() error {
	var portFlag, courierFlag string
	flag.StringVar(&portFlag, "port", "", "Server port (overrides PORT environment variable)")
	flag.StringVar(&courierFlag, "courier", "", "Courier id (overrides COURIER_ID environment variable)")
	flag.Parse()

	overrides := map[string]string{
		"PORT":       portFlag,
		"COURIER_ID": courierFlag,
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("failed to set %s environment variable: %w", key, err)
		}
	}
	return nil
}
