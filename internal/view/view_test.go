package view

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/strongcode/gymbook/internal/session"
	"github.com/strongcode/gymbook/pkg/client"
	"github.com/strongcode/gymbook/pkg/domain"
)

// fakeAPI serves canned collections; block, when set, holds ListClasses
// until it is closed.
type fakeAPI struct {
	mu       sync.Mutex
	classes  []domain.Class
	gyms     []domain.Gym
	bookings []domain.Booking
	err      error
	block    chan struct{}
	booked   []int
}

func (f *fakeAPI) ListClasses(context.Context) ([]domain.Class, error) {
	if f.block != nil {
		<-f.block
	}
	return f.classes, f.err
}

func (f *fakeAPI) ListGyms(context.Context) ([]domain.Gym, error) {
	return f.gyms, f.err
}

func (f *fakeAPI) ListBookings(context.Context) ([]domain.Booking, error) {
	return f.bookings, f.err
}

func (f *fakeAPI) CreateBooking(_ context.Context, classID int) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.booked = append(f.booked, classID)
	return &domain.Booking{ID: 5, Status: "confirmed"}, nil
}

func TestLoadClassesAgainstAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classes" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"id":1,"name":"Yoga","description":"Morning flow"}]`)) //nolint:errcheck
	}))
	defer srv.Close()

	var pane Container
	l := NewLoader(client.New(srv.URL, session.NewMemoryStore("tok")), &pane, nil)
	require.NoError(t, l.LoadClasses(context.Background()))

	frags := pane.Fragments()
	require.Len(t, frags, 1)
	assert.Equal(t, SourceClasses, pane.Source())

	var buf bytes.Buffer
	require.NoError(t, TerminalEncoder{}.Encode(&buf, frags))
	assert.Contains(t, buf.String(), "Yoga")
	assert.Contains(t, buf.String(), "Morning flow")

	require.NotNil(t, frags[0].Action)
	assert.Equal(t, ActionBook, frags[0].Action.Kind)
	assert.Equal(t, 1, frags[0].Action.ClassID)
}

func TestLoadGymsAndBookings(t *testing.T) {
	api := &fakeAPI{
		gyms:     []domain.Gym{{ID: 1, Name: "Downtown", Address: "1 Main St"}, {ID: 2, Name: "Harbor", Address: "9 Pier Rd"}},
		bookings: []domain.Booking{{ID: 5, Status: "confirmed"}},
	}
	var pane Container
	l := NewLoader(api, &pane, nil)

	require.NoError(t, l.LoadGyms(context.Background()))
	frags := pane.Fragments()
	require.Len(t, frags, 2)
	assert.Equal(t, Fragment{Title: "Harbor", Body: "9 Pier Rd"}, frags[1])
	assert.Nil(t, frags[0].Action, "gyms carry no action")

	require.NoError(t, l.LoadBookings(context.Background()))
	frags = pane.Fragments()
	require.Len(t, frags, 1, "bookings replace gyms entirely")
	assert.Equal(t, Fragment{Title: "Booking #5", Body: "confirmed"}, frags[0])
	assert.Equal(t, SourceBookings, pane.Source())
}

func TestLoadErrorKeepsPreviousContent(t *testing.T) {
	api := &fakeAPI{gyms: []domain.Gym{{ID: 1, Name: "Downtown", Address: "1 Main St"}}}
	var pane Container
	l := NewLoader(api, &pane, nil)
	require.NoError(t, l.LoadGyms(context.Background()))

	api.err = client.ErrAPI
	err := l.LoadClasses(context.Background())
	assert.ErrorIs(t, err, client.ErrAPI)

	assert.Equal(t, SourceGyms, pane.Source())
	assert.Len(t, pane.Fragments(), 1)
}

func TestCanceledLoadIsNotReportedAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	var pane Container
	l := NewLoader(client.New(srv.URL, session.NewMemoryStore("tok")), &pane, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.LoadClasses(ctx)

	assert.ErrorIs(t, err, client.ErrAPI)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, logs.FilterMessage("load failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("load canceled").Len())
	assert.Equal(t, SourceNone, pane.Source())
}

func TestLoadEmptyCollection(t *testing.T) {
	api := &fakeAPI{gyms: []domain.Gym{{ID: 1, Name: "Downtown"}}}
	var pane Container
	l := NewLoader(api, &pane, nil)
	require.NoError(t, l.LoadGyms(context.Background()))

	api.gyms = nil
	require.NoError(t, l.LoadGyms(context.Background()))
	assert.Empty(t, pane.Fragments())
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	api := &fakeAPI{
		classes: []domain.Class{{ID: 1, Name: "Yoga"}},
		gyms:    []domain.Gym{{ID: 2, Name: "Downtown"}},
		block:   make(chan struct{}),
	}
	var pane Container
	l := NewLoader(api, &pane, nil)

	done := make(chan error, 1)
	go func() { done <- l.LoadClasses(context.Background()) }()

	// Wait until the class load has taken its generation.
	require.Eventually(t, func() bool { return !pane.Current(0) }, time.Second, time.Millisecond)

	require.NoError(t, l.LoadGyms(context.Background()))
	close(api.block)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, SourceGyms, pane.Source())
	assert.Equal(t, "Downtown", pane.Fragments()[0].Title)
}

func TestLoadAtTriggerOrderWins(t *testing.T) {
	api := &fakeAPI{
		classes: []domain.Class{{ID: 1, Name: "Yoga"}},
		gyms:    []domain.Gym{{ID: 2, Name: "Downtown"}},
	}
	var pane Container
	l := NewLoader(api, &pane, nil)

	first := pane.Begin()
	second := pane.Begin()

	// The later trigger finishes first.
	require.NoError(t, l.LoadAt(context.Background(), second, SourceGyms))
	assert.ErrorIs(t, l.LoadAt(context.Background(), first, SourceClasses), ErrSuperseded)
	assert.Equal(t, SourceGyms, pane.Source())
}

func TestBookClassDoesNotTouchContainer(t *testing.T) {
	api := &fakeAPI{classes: []domain.Class{{ID: 1, Name: "Yoga", Description: "Morning flow"}}}
	var pane Container
	l := NewLoader(api, &pane, nil)
	require.NoError(t, l.LoadClasses(context.Background()))
	before := pane.Fragments()

	b, err := l.BookClass(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, &domain.Booking{ID: 5, Status: "confirmed"}, b)
	assert.Equal(t, []int{1}, api.booked)
	assert.Equal(t, before, pane.Fragments())
}

func TestBookClassAgainstAPI(t *testing.T) {
	var got domain.BookingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":5,"status":"confirmed"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	l := NewLoader(client.New(srv.URL, session.NewMemoryStore("tok")), &Container{}, nil)
	b, err := l.BookClass(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ClassID)
	assert.Equal(t, "confirmed", b.Status)
}

func TestBookClassError(t *testing.T) {
	l := NewLoader(&fakeAPI{err: client.ErrAPI}, &Container{}, nil)
	_, err := l.BookClass(context.Background(), 1)
	assert.True(t, errors.Is(err, client.ErrAPI))
}

func TestContainerResetInvalidatesPending(t *testing.T) {
	var pane Container
	gen := pane.Begin()
	pane.Reset()
	assert.False(t, pane.Commit(gen, SourceGyms, []Fragment{{Title: "x"}}))
	assert.Empty(t, pane.Fragments())
	assert.Equal(t, SourceNone, pane.Source())
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Morning flow", "Morning flow"},
		{"color escape", "\x1b[31mRed\x1b[0m Yoga", "Red Yoga"},
		{"title change", "\x1b]0;pwned\x07Yoga", "Yoga"},
		{"newlines", "line1\nline2\r\tx", "line1 line2  x"},
		{"bell", "ding\x07", "ding "},
		{"unicode kept", "Пилатес ✦", "Пилатес ✦"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestTerminalEncoderStripsEscapes(t *testing.T) {
	var buf bytes.Buffer
	frags := []Fragment{{Title: "\x1b[2JYoga", Body: "\x1b]8;;http://evil\x07click\x1b]8;;\x07"}}
	require.NoError(t, TerminalEncoder{}.Encode(&buf, frags))
	assert.NotContains(t, buf.String(), "\x1b[2J")
	assert.NotContains(t, buf.String(), "evil")
	assert.Contains(t, buf.String(), "click")
}

func TestTerminalCardMarksSelectionAndAction(t *testing.T) {
	f := Fragment{Title: "Yoga", Action: &Action{Kind: ActionBook, ClassID: 1}}
	card := TerminalEncoder{}.Card(f, true)
	assert.Contains(t, card, "▸")
	assert.Contains(t, card, "[b] Book")

	plain := TerminalEncoder{}.Card(Fragment{Title: "Downtown"}, false)
	assert.NotContains(t, plain, "▸")
	assert.NotContains(t, plain, "Book")
}

func TestHTMLEncoderEscapes(t *testing.T) {
	frags := []Fragment{
		{Title: "<script>alert(1)</script>", Body: `"quoted" & <b>bold</b>`, Action: &Action{Kind: ActionBook, ClassID: 7}},
		{Title: "Downtown", Body: "1 Main St"},
	}
	var buf bytes.Buffer
	require.NoError(t, HTMLEncoder{}.Encode(&buf, frags))
	out := buf.String()

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, out, "&lt;b&gt;bold&lt;/b&gt;")
	assert.Contains(t, out, `data-class-id="7"`)
	assert.Equal(t, 2, strings.Count(out, `<div class="card">`))
	assert.Equal(t, 1, strings.Count(out, "<button"), "only class cards get a button")
}

func TestHTMLEncoderYogaExample(t *testing.T) {
	frags := ClassFragments([]domain.Class{{ID: 1, Name: "Yoga", Description: "Morning flow"}})
	var buf bytes.Buffer
	require.NoError(t, HTMLEncoder{}.Encode(&buf, frags))
	assert.Contains(t, buf.String(), "<h3>Yoga</h3>")
	assert.Contains(t, buf.String(), "<p>Morning flow</p>")
	assert.Contains(t, buf.String(), `data-class-id="1"`)
}
