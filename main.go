package main

import (
	"os"
	"os/signal"
	"time"
)

var (
	logger *SuffixdLogger
)

func main() {

	loadSettings()
	initLogger()

	corpus := NewCorpus(settings.Corpus, settings.Redis)

	timeout := settings.Server.Timeout
	if timeout <= 0 {
		timeout = 5
	}
	server := &Server{
		host:     settings.Server.Host,
		port:     settings.Server.Port,
		rTimeout: time.Duration(timeout) * time.Second,
		wTimeout: time.Duration(timeout) * time.Second,
	}

	server.Run(corpus)

	logger.Info("suffixd %s start", settings.Version)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	logger.Info("signal received, stopping")
}

func initLogger() {
	logger = NewLogger(settings.Log.LogLevel())

	if settings.Log.Stdout {
		logger.AddConsole()
	}

	if settings.Log.File != "" {
		if err := logger.AddFile(settings.Log.File); err != nil {
			logger.Error("Can't open log file: %v", err)
		}
	}
}
