package config

import (
	"io"

	"github.com/op/go-logging"
)

// other flags: %{shortfile} %{color} %{color:reset}
const LogFormat = `%{time:15:04:05.000000} %{shortfunc}() ▶ %{message}`

// SetupLogging installs a formatted backend on w and sets level for every
// named module. Modules not named keep the go-logging default.
func SetupLogging(w io.Writer, level logging.Level, modules ...string) {
	logFormat := logging.MustStringFormatter(LogFormat)
	formattedBackend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat)
	leveled := logging.AddModuleLevel(formattedBackend)
	leveled.SetLevel(level, "")
	for _, module := range modules {
		leveled.SetLevel(level, module)
	}
	logging.SetBackend(leveled)
}
