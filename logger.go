package main

import (
	"io"
	"log"
	"os"
)

// For log management under systemd:
//   - View logs: journalctl -u namshi-bot
//   - Follow logs: journalctl -u namshi-bot -f
//   - View errors: journalctl -u namshi-bot -p err

var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
)

// initLoggers points InfoLogger at stdout and ErrorLogger at stderr.
func initLoggers() {
	initLoggersTo(os.Stdout, os.Stderr)
}

func initLoggersTo(info, errs io.Writer) {
	InfoLogger = log.New(info, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errs, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}
