package input

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Entry
		ok   bool
	}{
		{
			name: "blank",
			line: "   ",
			ok:   false,
		},
		{
			name: "plain text",
			line: "Build finished",
			want: Entry{Title: "Build finished", Source: "stdin"},
			ok:   true,
		},
		{
			name: "json",
			line: `{"title":"Deploy","message":"prod is live","delay":"5s","app_name":"ci"}`,
			want: Entry{Title: "Deploy", Message: "prod is live", Delay: 5 * time.Second, Source: "ci"},
			ok:   true,
		},
		{
			name: "notify-send aliases",
			line: `{"summary":"Mail","body":"2 new","silent":true}`,
			want: Entry{Title: "Mail", Message: "2 new", Source: "stdin", Silent: true},
			ok:   true,
		},
		{
			name: "bad delay ignored",
			line: `{"title":"x","delay":"soon"}`,
			want: Entry{Title: "x", Source: "stdin"},
			ok:   true,
		},
		{
			name: "json without title",
			line: `{"message":"orphan"}`,
			ok:   false,
		},
		{
			name: "broken json shown verbatim",
			line: `{not json`,
			want: Entry{Title: "{not json", Source: "stdin"},
			ok:   true,
		},
		{
			name: "control characters stripped",
			line: "bell\x07 here",
			want: Entry{Title: "bell here", Source: "stdin"},
			ok:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStdinAdapter_Stream(t *testing.T) {
	in := strings.NewReader("first\n\n{\"title\":\"second\",\"message\":\"m\"}\n{\"body\":\"skip\"}\nthird")
	a := NewStdinAdapterWithReader(in)
	assert.Equal(t, "stdin", a.Name())

	var titles []string
	err := a.Stream(context.Background(), func(e Entry) {
		titles = append(titles, e.Title)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, titles)
}

func TestStdinAdapter_StreamCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStdinAdapterWithReader(strings.NewReader("a\nb\n")).Stream(ctx, func(Entry) {
		called = true
	})
	require.NoError(t, err)
	assert.False(t, called)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestStdinAdapter_StreamError(t *testing.T) {
	err := NewStdinAdapterWithReader(failingReader{}).Stream(context.Background(), func(Entry) {})
	require.Error(t, err)

	var ae *AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "stdin", ae.Source)
	assert.Contains(t, err.Error(), "boom")
}

func TestNewAdapter(t *testing.T) {
	a, err := NewAdapter("stdin")
	require.NoError(t, err)
	assert.Equal(t, "stdin", a.Name())

	a, err = NewAdapter("-")
	require.NoError(t, err)
	assert.Equal(t, "stdin", a.Name())

	_, err = NewAdapter("dunst")
	var ae *AdapterError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "dunst", ae.Source)
}
