package logger

import (
    "time"

    "github.com/natefinch/lumberjack"
    logrus "github.com/sirupsen/logrus"
)

// Setup initializes Logrus with a rotating file sink.
func Setup() {
    rotator := &lumberjack.Logger{
        Filename:   "./logs/app.log",
        MaxSize:    10, // megabytes
        MaxBackups: 7,  // keep up to 7 old files
        MaxAge:     7,  // days
        Compress:   true,
    }

    logrus.SetOutput(rotator)
    logrus.SetFormatter(&logrus.TextFormatter{
        FullTimestamp:   true,
        TimestampFormat: time.RFC3339,
    })
    logrus.SetLevel(logrus.DebugLevel)
}
