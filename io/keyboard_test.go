package io

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyboard(t *testing.T) {
	assert := assert.New(t)

	ctx := context.Background()
	kb := NewKeyboard(ctx, strings.NewReader("hi\x7f"))

	assert.Eventually(kb.Ready, time.Second, time.Millisecond)

	for _, expected := range []byte{'h', 'i', 0x08} {
		key, err := kb.ReadKey(ctx)
		assert.NoError(err)
		assert.Equal(expected, key)
	}

	_, err := kb.ReadKey(ctx)
	assert.True(errors.Is(err, io.EOF))
	assert.False(kb.Ready())
}

func TestKeyboardCancel(t *testing.T) {
	assert := assert.New(t)

	reader, writer := io.Pipe()
	defer writer.Close()

	kb := NewKeyboard(context.Background(), reader)
	assert.False(kb.Ready())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := kb.ReadKey(ctx)
	assert.True(errors.Is(err, context.Canceled))
}

func TestConsole(t *testing.T) {
	assert := assert.New(t)

	file, err := os.CreateTemp(t.TempDir(), "console")
	assert.NoError(err)
	defer file.Close()

	_, err = OpenConsole(file)
	assert.Equal(ErrNotTerminal, err)

	var buff bytes.Buffer
	con := &Console{Output: &buff}
	n, err := con.Write([]byte("a\nb"))
	assert.NoError(err)
	assert.Equal(3, n)
	assert.Equal("a\r\nb", buff.String())
	assert.NoError(con.Close())
}
