package obs

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// SetupLogging configures the global logrus logger from a level name
// (trace, debug, info, warn, error).
func SetupLogging(level string) error {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}
