package scanner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sistem-Reward-Venue/reward"
)

type fakeHandle struct {
	mu     sync.Mutex
	live   bool
	tracks int
}

func (h *fakeHandle) Live() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live
}

func (h *fakeHandle) ActiveTracks() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tracks
}

func (h *fakeHandle) kill() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.live = false
	h.tracks = 0
}

// fakeDecoder mengembalikan hasil yang sudah di-script per panggilan Start:
// error, atau handle dengan kondisi live tertentu.
type fakeDecoder struct {
	mu sync.Mutex
	// startErrs dikonsumsi lebih dulu; setelah habis, Start sukses.
	startErrs []error
	// deadStreams: berapa kali Start mengembalikan handle yang tidak
	// pernah hidup sebelum mengembalikan yang hidup.
	deadStreams int

	startCalls int
	stopCalls  int
	handles    []*fakeHandle
	onDecode   func(text string)

	blockStart chan struct{}
}

func (d *fakeDecoder) Start(_ DecoderConfig, onDecode func(text string), _ func(err error)) (Handle, error) {
	d.mu.Lock()
	d.startCalls++
	block := d.blockStart
	var err error
	if len(d.startErrs) > 0 {
		err = d.startErrs[0]
		d.startErrs = d.startErrs[1:]
	}
	d.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	h := &fakeHandle{live: true, tracks: 1}
	if d.deadStreams > 0 {
		d.deadStreams--
		h.live = false
	}
	d.handles = append(d.handles, h)
	d.onDecode = onDecode
	return h, nil
}

func (d *fakeDecoder) Stop(h Handle) error {
	d.mu.Lock()
	d.stopCalls++
	d.mu.Unlock()
	h.(*fakeHandle).kill()
	return nil
}

func (d *fakeDecoder) decode(text string) {
	d.mu.Lock()
	cb := d.onDecode
	d.mu.Unlock()
	cb(text)
}

func fastConfig() Config {
	return Config{
		MaxStartAttempts: 3,
		StartRetryDelay:  5 * time.Millisecond,
		VerifyWindow:     50 * time.Millisecond,
		VerifyInterval:   5 * time.Millisecond,
		StopWindow:       200 * time.Millisecond,
		Cooldown:         30 * time.Millisecond,
	}
}

func staticOutcome(o reward.Outcome) ProcessFunc {
	return func(context.Context, string) reward.Outcome { return o }
}

func TestSessionStart(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, StateActive, session.State())
	assert.Equal(t, 1, session.StartAttempts())

	// Start ulang saat sudah Active dan live adalah no-op.
	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, 1, decoder.startCalls)
}

func TestSessionStartRetriesTransientFailure(t *testing.T) {
	decoder := &fakeDecoder{startErrs: []error{errors.New("busy"), errors.New("busy")}}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, StateActive, session.State())
	assert.Equal(t, 3, session.StartAttempts())
}

func TestSessionStartExhaustsRetries(t *testing.T) {
	decoder := &fakeDecoder{startErrs: []error{errors.New("busy"), errors.New("busy"), errors.New("busy")}}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	err := session.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateError, session.State())
	assert.Equal(t, 3, session.StartAttempts())
}

func TestSessionPermissionErrorNotRetried(t *testing.T) {
	decoder := &fakeDecoder{startErrs: []error{ErrCameraPermission}}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	err := session.Start(context.Background())
	require.ErrorIs(t, err, ErrCameraPermission)
	assert.Equal(t, StateError, session.State())
	assert.Equal(t, 1, session.StartAttempts())
}

func TestSessionDeadStreamForcesStopAndRetry(t *testing.T) {
	// Start pertama melapor sukses tapi stream tidak pernah menghasilkan
	// frame; handle mati harus dilepas paksa sebelum percobaan berikutnya.
	decoder := &fakeDecoder{deadStreams: 1}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	require.NoError(t, session.Start(context.Background()))
	assert.Equal(t, StateActive, session.State())
	assert.Equal(t, 2, session.StartAttempts())
	assert.Equal(t, 1, decoder.stopCalls)
	assert.Equal(t, 0, decoder.handles[0].ActiveTracks())
}

func TestSessionDeadStreamExhaustsRetries(t *testing.T) {
	decoder := &fakeDecoder{deadStreams: 3}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	err := session.Start(context.Background())
	require.ErrorIs(t, err, ErrStreamNotLive)
	assert.Equal(t, StateError, session.State())
	// Setiap handle mati dilepas.
	assert.Equal(t, 3, decoder.stopCalls)
}

func TestSessionConcurrentStartCoalesced(t *testing.T) {
	decoder := &fakeDecoder{blockStart: make(chan struct{})}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())

	done := make(chan error, 1)
	go func() { done <- session.Start(context.Background()) }()

	// Tunggu sampai start pertama benar-benar masuk ke decoder.
	require.Eventually(t, func() bool {
		decoder.mu.Lock()
		defer decoder.mu.Unlock()
		return decoder.startCalls == 1
	}, time.Second, time.Millisecond)

	// Start kedua di-coalesce: return nil tanpa memicu decoder lagi.
	require.NoError(t, session.Start(context.Background()))
	decoder.mu.Lock()
	assert.Equal(t, 1, decoder.startCalls)
	decoder.mu.Unlock()

	close(decoder.blockStart)
	require.NoError(t, <-done)
	assert.Equal(t, StateActive, session.State())
}

func TestSessionStopReleasesTracks(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())
	require.NoError(t, session.Start(context.Background()))

	require.NoError(t, session.Stop())
	assert.Equal(t, StateTerminated, session.State())
	assert.Equal(t, 0, decoder.handles[0].ActiveTracks())

	// Stop kedua idempoten.
	require.NoError(t, session.Stop())
	assert.Equal(t, 1, decoder.stopCalls)
}

func TestSessionConcurrentStop(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())
	require.NoError(t, session.Start(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, session.Stop())
		}()
	}
	wg.Wait()

	assert.Equal(t, StateTerminated, session.State())
	assert.Equal(t, 1, decoder.stopCalls)
}

func TestSessionStartAfterStop(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess}), fastConfig())
	require.NoError(t, session.Start(context.Background()))
	require.NoError(t, session.Stop())

	assert.ErrorIs(t, session.Start(context.Background()), ErrSessionTerminated)
}

func TestSessionSuccessTerminates(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeSuccess, Points: 15}), fastConfig())
	require.NoError(t, session.Start(context.Background()))

	decoder.decode(`{"venue_id":"aaaaaaaaaaaaaaaaaaaaaaaa"}`)

	assert.Equal(t, StateTerminated, session.State())
	require.NotNil(t, session.LastOutcome())
	assert.Equal(t, 15, session.LastOutcome().Points)
}

func TestSessionAlreadyRedeemedNeedsAcknowledge(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeAlreadyRedeemed}), fastConfig())
	require.NoError(t, session.Start(context.Background()))

	decoder.decode("payload-a")
	assert.Equal(t, StateCooldown, session.State())

	// Cooldown ber-ack tidak pernah resume sendiri.
	time.Sleep(3 * fastConfig().Cooldown)
	assert.Equal(t, StateCooldown, session.State())

	session.Acknowledge()
	assert.Equal(t, StateActive, session.State())

	// Setelah ack, payload yang sama boleh diproses lagi.
	decoder.decode("payload-a")
	assert.Equal(t, StateCooldown, session.State())
}

func TestSessionInputErrorCooldownResumes(t *testing.T) {
	decoder := &fakeDecoder{}
	session := NewSession(decoder, staticOutcome(reward.Outcome{Kind: reward.OutcomeInvalidPayload}), fastConfig())
	require.NoError(t, session.Start(context.Background()))

	decoder.decode("bukan-qr-venue")
	assert.Equal(t, StateCooldown, session.State())

	// Scanner resume sendiri setelah cooldown, tanpa ack.
	require.Eventually(t, func() bool {
		return session.State() == StateActive
	}, time.Second, 5*time.Millisecond)
}

func TestSessionIgnoresDecodeOutsideActive(t *testing.T) {
	var calls int
	var mu sync.Mutex
	process := func(context.Context, string) reward.Outcome {
		mu.Lock()
		calls++
		mu.Unlock()
		return reward.Outcome{Kind: reward.OutcomeAlreadyRedeemed}
	}

	decoder := &fakeDecoder{}
	session := NewSession(decoder, process, fastConfig())
	require.NoError(t, session.Start(context.Background()))

	decoder.decode("payload-a")
	assert.Equal(t, StateCooldown, session.State())

	// Frame yang datang saat Cooldown diabaikan.
	decoder.decode("payload-b")

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestSessionDeduplicatesRepeatedPayload(t *testing.T) {
	// Outcome transient mengembalikan scanner ke Active lewat cooldown;
	// payload dicatat supaya frame yang sama tidak diproses dua kali
	// sebelum cooldown membersihkannya.
	var calls int
	var mu sync.Mutex
	process := func(context.Context, string) reward.Outcome {
		mu.Lock()
		calls++
		mu.Unlock()
		return reward.Outcome{Kind: reward.OutcomeTransientFailure, Err: errors.New("timeout")}
	}

	cfg := fastConfig()
	cfg.Cooldown = 500 * time.Millisecond
	decoder := &fakeDecoder{}
	session := NewSession(decoder, process, cfg)
	require.NoError(t, session.Start(context.Background()))

	decoder.decode("payload-a")
	assert.Equal(t, StateCooldown, session.State())

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestSessionTeardownWinsOverLatePipeline(t *testing.T) {
	release := make(chan struct{})
	process := func(ctx context.Context, _ string) reward.Outcome {
		<-release
		return reward.Outcome{Kind: reward.OutcomeSuccess}
	}

	decoder := &fakeDecoder{}
	session := NewSession(decoder, process, fastConfig())
	require.NoError(t, session.Start(context.Background()))

	done := make(chan struct{})
	go func() {
		decoder.decode("payload-a")
		close(done)
	}()

	require.Eventually(t, func() bool {
		return session.State() == StateProcessing
	}, time.Second, time.Millisecond)

	require.NoError(t, session.Stop())
	assert.Equal(t, StateTerminated, session.State())

	// Pipeline selesai setelah teardown; hasilnya tidak mengubah state.
	close(release)
	<-done
	assert.Equal(t, StateTerminated, session.State())
}
