package mylog

import (
	"io"
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
)

var (
	outputLock sync.RWMutex
	output     io.Writer = os.Stderr
)

// UseLogFile duplicates all log output into a size-rotated file.
func UseLogFile(filename string) {
	if filename == "" {
		return
	}

	outputLock.Lock()
	defer outputLock.Unlock()

	output = io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50, // megabytes
		MaxBackups: 3,
		Compress:   true,
	})
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	outputLock.Lock()
	defer outputLock.Unlock()

	output = w
}

type sharedWriter struct{}

func (sharedWriter) Write(p []byte) (int, error) {
	outputLock.RLock()
	defer outputLock.RUnlock()

	return output.Write(p)
}
