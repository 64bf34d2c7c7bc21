/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package nlog

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
)

// Logger is something that can print, using Logf, a format string
type Logger interface {
	Logf(format string, v ...any)
}

// subsystemLogger is a logger that handles only one file out of all that are opened by its logger
type subsystemLogger struct {
	filename string
	logger   *AppLogger
}

// Logf for a subsystem logger is just a wrap for the Logs of its internal logger, giving its only filename
func (s *subsystemLogger) Logf(format string, v ...any) {
	s.logger.Logf(s.filename, format, v...)
}

// logEntry is an helper struct that can be used to send a couple (filename, formatted string) onto the log channel
type logEntry struct {
	filename  string
	formatted string
}

// AppLogger is an (almost) powerful logger that can write to multiple log files from one single struct.
// Each subsystem of the server (roster, forms, feed, http) gets its own file.
// It's safe to share amongst goroutines since it has an internal lock
type AppLogger struct {
	name string // Name of the process, used for the log directory and prefix string

	fileMapper map[string]*os.File    // Maps a filename to an OS file (used only to be able to deallocate it later)
	logMapper  map[string]*log.Logger // Maps a filename to the corresponding logger

	lock           sync.RWMutex
	currentLogFunc func(*log.Logger, string, ...any) // Current logging function (alternating between defaultLogf and nilLogf)

	inbox chan logEntry // Log channel, formatted strings are sent here instead of directly writing to files
}

// NewAppLogger Creates and returns an AppLogger using the given process name and logging flag
// When successful, error is nil
func NewAppLogger(name string, logging bool) (*AppLogger, error) {
	if err := os.MkdirAll(fmt.Sprintf("LOG_%s", name), 0755); err != nil {
		return nil, err
	}
	a := &AppLogger{
		name:           name,
		fileMapper:     make(map[string]*os.File),
		logMapper:      make(map[string]*log.Logger),
		currentLogFunc: nilLogf,
		inbox:          make(chan logEntry, 600),
	}

	if logging {
		a.currentLogFunc = defaultLogf
	}

	return a, nil
}

// RegisterSubsystem registers a new subsystem, returning a Logger that can write to the file filename.
// If successful, error is nil
func (a *AppLogger) RegisterSubsystem(filename string) (Logger, error) {
	file, err := os.OpenFile(fmt.Sprintf("LOG_%s/%s.log", a.name, filename), os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return nil, err
	}

	a.lock.Lock()
	defer a.lock.Unlock()
	a.logMapper[filename] = log.New(file, fmt.Sprintf("[[%s] %s]: ", a.name, filename), log.Ldate|log.Ltime)
	a.fileMapper[filename] = file
	return &subsystemLogger{filename, a}, nil
}

// GetSubsystemLogger retrieves a subsystem logger, if previously registerd.
// If successful, error is nil
func (a *AppLogger) GetSubsystemLogger(filename string) (Logger, error) {
	a.lock.RLock()
	defer a.lock.RUnlock()

	if _, ok := a.logMapper[filename]; !ok {
		return nil, fmt.Errorf("The subsystem was not registered")
	}
	return &subsystemLogger{filename, a}, nil
}

// EnableLogging enables the logging done by this logger
func (a *AppLogger) EnableLogging() {
	a.lock.Lock()
	a.currentLogFunc = defaultLogf
	a.lock.Unlock()
}

// DisableLogging disables the logging done by this logger
func (a *AppLogger) DisableLogging() {
	a.lock.Lock()
	a.currentLogFunc = nilLogf
	a.lock.Unlock()
}

// Logf formats a string using format and v, and appends it to a logging channel, alongside the file, filename, it will be written to
func (a *AppLogger) Logf(filename, format string, v ...any) {
	a.inbox <- logEntry{filename, fmt.Sprintf(format, v...)}
}

// Run waits either on the log channel or ctx.Done()
// When ctx.Done(), the caller has shut down and we deallocate resources
// When a message arrives on the log channel, we write it accordingly
func (a *AppLogger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			a.CloseAll()
			return
		case msg := <-a.inbox:
			a.actualWrite(msg.filename, msg.formatted)
		}
	}
}

// actualWrite is the function that writes the string formatted in the file filename
// When successful, error is nil
func (a *AppLogger) actualWrite(filename, formatted string) error {
	a.lock.Lock()
	logFunc := a.currentLogFunc
	logger, ok := a.logMapper[filename]
	a.lock.Unlock()

	if !ok {
		return fmt.Errorf("Logger is not setup for this filename")
	}
	if logFunc != nil {
		logFunc(logger, formatted)
	}
	return nil
}

// CloseAll closes all the open files that the loggers are using
func (a *AppLogger) CloseAll() {
	a.lock.Lock()
	defer a.lock.Unlock()

	for _, file := range a.fileMapper {
		file.Sync()
		file.Close()
	}
	clear(a.fileMapper)
	clear(a.logMapper)
}

// Discard returns a Logger that drops everything.
// Handy default so components never have to nil-check their logger.
func Discard() Logger {
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Logf(string, ...any) {}

// defaultLogf is a log function that writes to a logger l
func defaultLogf(l *log.Logger, format string, a ...any) {
	l.Printf(format, a...)
}

// nilLogf is a log function that does nothing, which gets called when logging is disabled
func nilLogf(*log.Logger, string, ...any) {}
