package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/healthintel/healthintel/internal/platform/cache"
	"github.com/healthintel/healthintel/internal/platform/inference"
)

type fakeBackend struct {
	calls  int
	result inference.Result[string]
}

func (f *fakeBackend) Translate(_ context.Context, text, source, target string) inference.Result[string] {
	f.calls++
	return f.result
}

func TestService_SameLanguageSkipsBackend(t *testing.T) {
	b := &fakeBackend{result: inference.OK("x")}
	s := NewService(b, nil, time.Minute, zerolog.Nop())

	assert.Equal(t, "fever", s.Translate(context.Background(), "fever", "EN", ""))
	assert.Equal(t, 0, b.calls)
}

func TestService_TranslatesAndCaches(t *testing.T) {
	b := &fakeBackend{result: inference.OK("fever")}
	s := NewService(b, cache.NewMemory(), time.Minute, zerolog.Nop())
	ctx := context.Background()

	assert.Equal(t, "fever", ToEnglish(ctx, s, "bukhar", "hi"))
	assert.Equal(t, "fever", ToEnglish(ctx, s, "bukhar", "hi"))
	assert.Equal(t, 1, b.calls)
}

func TestService_PassThroughOnFailure(t *testing.T) {
	for _, r := range []inference.Result[string]{
		inference.Unavailable[string](),
		inference.Transient[string](errors.New("timeout")),
	} {
		b := &fakeBackend{result: r}
		s := NewService(b, cache.NewMemory(), time.Minute, zerolog.Nop())
		assert.Equal(t, "sir dard", s.Translate(context.Background(), "sir dard", "hi", "en"), r.Status.String())
	}
}

func TestService_BlankText(t *testing.T) {
	b := &fakeBackend{result: inference.OK("x")}
	s := NewService(b, nil, time.Minute, zerolog.Nop())
	assert.Equal(t, "  ", FromEnglish(context.Background(), s, "  ", "hi"))
	assert.Equal(t, 0, b.calls)
}

func TestPassthrough(t *testing.T) {
	assert.Equal(t, "abc", Passthrough{}.Translate(context.Background(), "abc", "hi", "en"))
}
