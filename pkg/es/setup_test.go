package es

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	gock "gopkg.in/h2non/gock.v1"
)

// setup sets up zap test logging and gock HTTP interception. It returns a
// suitable URL for mock endpoints and a teardown function.
func setup(t *testing.T) (string, func()) {
	logger := zaptest.NewLogger(t)
	f1 := zap.ReplaceGlobals(logger)
	f2 := zap.RedirectStdLog(logger)
	gock.Intercept()
	teardown := func() {
		gock.OffAll()
		f2()
		f1()
		_ = logger.Sync()
	}
	return "http://127.0.0.1:9200", teardown
}
