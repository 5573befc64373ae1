package logging

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDefaultLogger(t *testing.T) {
	repeat := 5
	var wait sync.WaitGroup
	loggerChan := make(chan *zap.Logger, repeat)

	for i := 0; i < repeat; i++ {
		wait.Add(1)
		go func() {
			defer wait.Done()
			loggerChan <- DefaultLogger()
		}()
	}
	wait.Wait()

	l := DefaultLogger()
	for i := 0; i < repeat; i++ {
		assert.Equal(t, <-loggerChan, l)
	}
}

func TestFromContext(t *testing.T) {
	l1 := FromContext(context.Background())
	assert.NotNil(t, l1)

	ctx := WithLogger(context.Background(), l1)
	l2 := FromContext(ctx)
	assert.Equal(t, l1, l2)

	assert.NotNil(t, FromContext(nil))
}
