package main

import (
	"fmt"
	"log"
	"os"
)

const LOG_OUTPUT_BUFFER = 1024

const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

type logMesg struct {
	Level int
	Mesg  string
}

type LoggerHandler interface {
	Write(mesg *logMesg)
}

// SuffixdLogger fans log records out to its handlers from a single goroutine,
// so handlers never need their own locking.
type SuffixdLogger struct {
	level   int
	mesgs   chan *logMesg
	outputs []LoggerHandler
}

func NewLogger(level int) *SuffixdLogger {
	logger := &SuffixdLogger{
		level: level,
		mesgs: make(chan *logMesg, LOG_OUTPUT_BUFFER),
	}
	go logger.Run()
	return logger
}

// AddConsole attaches a stdout handler.
func (l *SuffixdLogger) AddConsole() {
	l.outputs = append(l.outputs, &consoleHandler{
		logger: log.New(os.Stdout, "", log.Ldate|log.Ltime),
	})
}

// AddFile attaches an append-mode file handler.
func (l *SuffixdLogger) AddFile(file string) error {
	output, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.outputs = append(l.outputs, &fileHandler{
		logger: log.New(output, "", log.Ldate|log.Ltime),
	})
	return nil
}

func (l *SuffixdLogger) Run() {
	for mesg := range l.mesgs {
		for _, handler := range l.outputs {
			handler.Write(mesg)
		}
	}
}

func (l *SuffixdLogger) writeMesg(mesg string, level int) {
	if l.level > level {
		return
	}

	l.mesgs <- &logMesg{
		Level: level,
		Mesg:  mesg,
	}
}

func (l *SuffixdLogger) Debug(format string, v ...interface{}) {
	l.writeMesg(fmt.Sprintf("[DEBUG] "+format, v...), LevelDebug)
}

func (l *SuffixdLogger) Info(format string, v ...interface{}) {
	l.writeMesg(fmt.Sprintf("[INFO] "+format, v...), LevelInfo)
}

func (l *SuffixdLogger) Warn(format string, v ...interface{}) {
	l.writeMesg(fmt.Sprintf("[WARN] "+format, v...), LevelWarn)
}

func (l *SuffixdLogger) Error(format string, v ...interface{}) {
	l.writeMesg(fmt.Sprintf("[ERROR] "+format, v...), LevelError)
}

type consoleHandler struct {
	logger *log.Logger
}

func (h *consoleHandler) Write(lm *logMesg) {
	h.logger.Println(lm.Mesg)
}

type fileHandler struct {
	logger *log.Logger
}

func (h *fileHandler) Write(lm *logMesg) {
	h.logger.Println(lm.Mesg)
}
