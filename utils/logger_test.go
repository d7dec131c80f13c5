package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetLoggerConcurrentFirstUse(t *testing.T) {
	const callers = 16

	loggers := make([]*zap.Logger, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			loggers[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	assert.NotNil(t, loggers[0])
	for _, l := range loggers {
		assert.Same(t, loggers[0], l)
	}

	InitializeLogger()
	assert.Same(t, loggers[0], GetLogger())
}
