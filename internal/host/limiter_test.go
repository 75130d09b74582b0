package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_RefillsAfterPeriod(t *testing.T) {
	w := newWindow("t", 2, 40*time.Millisecond, false)
	defer w.Close()

	require.NoError(t, w.Take(context.Background()))
	require.NoError(t, w.Take(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Take(ctx), context.DeadlineExceeded)

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	assert.NoError(t, w.Take(ctx2))
}

func TestWindow_Applies(t *testing.T) {
	w := newWindow("t", 1, time.Second, true)
	defer w.Close()

	assert.False(t, w.applies("https://cdn.mgeko.cc/ch1/001.JPG"))
	assert.False(t, w.applies("https://cdn.mgeko.cc/ch1/001.webp?v=2"))
	assert.True(t, w.applies("https://www.mgeko.cc/manga/solo-leveling"))

	all := newWindow("u", 1, time.Second, false)
	defer all.Close()
	assert.True(t, all.applies("https://cdn.mgeko.cc/ch1/001.jpg"))
}

func TestWindow_CloseIsIdempotent(t *testing.T) {
	w := newWindow("t", 1, time.Millisecond, false)
	w.Close()
	w.Close()
}
