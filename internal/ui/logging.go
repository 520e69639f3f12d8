package ui

import (
	"fmt"
	"log/syslog"

	"github.com/pterm/pterm"
)

const syslogTag = "fan2pwm"

func SetDebugEnabled(enabled bool) {
	pterm.PrintDebugMessages = enabled
}

// priorityWriter writes every message with the severity of the given syslog method
type priorityWriter struct {
	log func(m string) error
}

func newPriorityWriter(log func(m string) error) *priorityWriter {
	return &priorityWriter{log: log}
}

func (w *priorityWriter) Write(p []byte) (int, error) {
	if err := w.log(string(p)); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EnableSyslog redirects all output to the system log using the daemon facility.
// Warnings and errors are logged with their own severity.
// Styling is disabled, since the log has no use for terminal escape sequences.
func EnableSyslog() error {
	writer, err := syslog.New(syslog.LOG_DAEMON|syslog.LOG_INFO, syslogTag)
	if err != nil {
		return fmt.Errorf("could not connect to syslog: %w", err)
	}
	pterm.DisableStyling()
	pterm.SetDefaultOutput(writer)
	pterm.Debug.Writer = newPriorityWriter(writer.Debug)
	pterm.Warning.Writer = newPriorityWriter(writer.Warning)
	pterm.Error.Writer = newPriorityWriter(writer.Err)
	return nil
}

func Printfln(format string, a ...interface{}) {
	pterm.Printfln(format, a...)
}

func Debug(format string, a ...interface{}) {
	pterm.Debug.Printfln(format, a...)
}

func Info(format string, a ...interface{}) {
	pterm.Info.Printfln(format, a...)
}

func Success(format string, a ...interface{}) {
	pterm.Success.Printfln(format, a...)
}

func Warning(format string, a ...interface{}) {
	pterm.Warning.Printfln(format, a...)
}

func Error(format string, a ...interface{}) {
	pterm.Error.Printfln(format, a...)
}
