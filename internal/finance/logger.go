package finance

import (
	"log"
	"os"
)

type Logger interface {
	Printf(format string, v ...any)
}

var defaultLogger Logger = log.New(os.Stderr, "", log.LstdFlags)
