package logger

import (
	"log"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
	"os"
)

var Log = Logger{ }

type Logger struct {
	isEnabled bool
	file   *lumberjack.Logger
	stream chan string
	logger *log.Logger
	layout string
}

// Start enables logging if RUNT_LOG names a file. Writes go through a
// channel so callers never wait on disk, and the file rotates at 10mb.
func (this *Logger) Start() {
	logfilename, exists := os.LookupEnv("RUNT_LOG")
	if !exists { this.isEnabled = false; return }

	this.isEnabled = true

	this.file = &lumberjack.Logger{
		Filename:   logfilename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}

	this.logger = log.New(this.file, "", 0)
	this.layout = "2006-01-02 15:04:05.000"

	this.stream = make(chan string)

	go func() {
		for message := range this.stream {
			this.log(message)
		}
	}()
}

func (this *Logger) log(message string) {
	if !this.isEnabled { return }
	now := time.Now().Format(this.layout)
	this.logger.Printf("%s %s", now, message)
}

func (this *Logger) Info(args ...string) {
	if !this.isEnabled { return }
	message := strings.Join(args, " ")
	this.stream <- message
}

func (this *Logger) Error(args ...string) {
	if !this.isEnabled { return }
	message := "[error] " + strings.Join(args, " ")
	this.stream <- message
}

func (this *Logger) Stop() {
	if !this.isEnabled { return }
	close(this.stream)
	err := this.file.Close()
	if err != nil { return }
}
