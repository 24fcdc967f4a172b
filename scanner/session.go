package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"Sistem-Reward-Venue/reward"
)

type State int

const (
	StateIdle State = iota
	StateStarting
	StateActive
	StateProcessing
	StateCooldown
	StateTerminated
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateActive:
		return "active"
	case StateProcessing:
		return "processing"
	case StateCooldown:
		return "cooldown"
	case StateTerminated:
		return "terminated"
	case StateError:
		return "error"
	}
	return "unknown"
}

// transitions adalah satu-satunya tabel perpindahan state yang sah.
// Terminated bisa dicapai dari mana saja karena teardown (navigasi,
// unmount, unload) harus selalu menang.
var transitions = map[State][]State{
	StateIdle:       {StateStarting, StateTerminated},
	StateStarting:   {StateActive, StateError, StateTerminated},
	StateActive:     {StateProcessing, StateStarting, StateError, StateTerminated},
	StateProcessing: {StateActive, StateCooldown, StateError, StateTerminated},
	StateCooldown:   {StateActive, StateTerminated},
	StateError:      {StateStarting, StateTerminated},
	StateTerminated: {},
}

func canTransition(from, to State) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

var (
	ErrSessionTerminated = errors.New("scan session sudah di-terminate")
	ErrStreamNotLive     = errors.New("kamera melapor start tapi stream tidak pernah menghasilkan frame")
	ErrTracksStillLive   = errors.New("track kamera masih hidup setelah stop")
)

// ProcessFunc menjalankan pipeline redemption untuk satu payload dan
// mengembalikan outcome terminalnya.
type ProcessFunc func(ctx context.Context, payload string) reward.Outcome

type Config struct {
	Decoder DecoderConfig
	// Kegagalan start transient di-retry dengan delay tetap sampai batas
	// ini; tidak ada retry loop tanpa batas di mana pun.
	MaxStartAttempts int
	StartRetryDelay  time.Duration
	// Jendela verifikasi stream hidup setelah kapabilitas melapor start.
	VerifyWindow   time.Duration
	VerifyInterval time.Duration
	// Batas tunggu konfirmasi semua track berhenti saat Stop.
	StopWindow time.Duration
	// Cooldown sebelum scanner resume setelah input error.
	Cooldown time.Duration
}

func (c *Config) applyDefaults() {
	if c.MaxStartAttempts <= 0 {
		c.MaxStartAttempts = 3
	}
	if c.StartRetryDelay <= 0 {
		c.StartRetryDelay = 200 * time.Millisecond
	}
	if c.VerifyWindow <= 0 {
		c.VerifyWindow = 1500 * time.Millisecond
	}
	if c.VerifyInterval <= 0 {
		c.VerifyInterval = 50 * time.Millisecond
	}
	if c.StopWindow <= 0 {
		c.StopWindow = 2 * time.Second
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 1200 * time.Millisecond
	}
}

// Session memiliki resource kamera secara eksklusif selama satu kunjungan
// layar scan. Semua guard in-flight (starting, stopping, state Processing)
// adalah field instance, bukan flag global, supaya beberapa sesi (mis. di
// tes) tidak saling mengganggu.
type Session struct {
	mu sync.Mutex

	decoder Decoder
	process ProcessFunc
	cfg     Config

	state  State
	handle Handle

	ctx    context.Context
	cancel context.CancelFunc

	// lastPayload menahan decode berulang dari payload yang sama dalam
	// satu jendela Active; frame QR yang sama terbaca berkali-kali per detik.
	lastPayload   string
	startAttempts int

	starting bool
	stopping bool
	stopDone chan struct{}

	ackRequired bool
	cooldownGen int

	lastOutcome *reward.Outcome
	lastErr     error
}

func NewSession(decoder Decoder, process ProcessFunc, cfg Config) *Session {
	cfg.applyDefaults()
	return &Session{
		decoder: decoder,
		process: process,
		cfg:     cfg,
		state:   StateIdle,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) StartAttempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startAttempts
}

// LastOutcome mengembalikan outcome terminal terakhir dari pipeline,
// nil bila belum ada decode yang diproses.
func (s *Session) LastOutcome() *reward.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

func (s *Session) setState(to State) {
	if s.state == to {
		return
	}
	if !canTransition(s.state, to) {
		panic(fmt.Sprintf("scanner: transisi state ilegal %s -> %s", s.state, to))
	}
	s.state = to
}

// Start mengakuisisi kamera. No-op kalau sudah Active dengan stream yang
// terverifikasi hidup; kalau kapabilitas melapor Active tapi stream mati,
// handle lama dilepas paksa lalu start diulang. Panggilan Start yang
// bersamaan di-coalesce lewat guard starting, tidak di-queue.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.starting {
		s.mu.Unlock()
		return nil
	}
	switch s.state {
	case StateTerminated:
		s.mu.Unlock()
		return ErrSessionTerminated
	case StateProcessing, StateCooldown:
		s.mu.Unlock()
		return nil
	case StateActive:
		if s.handle != nil && s.handle.Live() {
			s.mu.Unlock()
			return nil
		}
	}
	s.starting = true
	staleHandle := s.handle
	s.handle = nil
	if s.ctx == nil {
		s.ctx, s.cancel = context.WithCancel(ctx)
	}
	s.setState(StateStarting)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.starting = false
		s.mu.Unlock()
	}()

	if staleHandle != nil {
		_ = s.stopHandle(staleHandle)
	}

	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxStartAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.cfg.StartRetryDelay):
			case <-ctx.Done():
				return s.fail(ctx.Err())
			}
		}

		s.mu.Lock()
		if s.state == StateTerminated {
			s.mu.Unlock()
			return ErrSessionTerminated
		}
		s.startAttempts++
		s.mu.Unlock()

		handle, err := s.decoder.Start(s.cfg.Decoder, s.handleDecode, s.handleDecoderError)
		if err != nil {
			if IsPermissionError(err) {
				// Izin ditolak bukan kondisi transient; surface langsung.
				return s.fail(err)
			}
			lastErr = err
			continue
		}

		if s.verifyLive(ctx, handle) {
			s.mu.Lock()
			if s.state == StateTerminated {
				s.mu.Unlock()
				_ = s.stopHandle(handle)
				return ErrSessionTerminated
			}
			s.handle = handle
			s.setState(StateActive)
			s.mu.Unlock()
			return nil
		}

		// Start dilaporkan sukses tapi tidak ada frame: lepas paksa, coba lagi.
		_ = s.stopHandle(handle)
		lastErr = ErrStreamNotLive
	}

	if lastErr == nil {
		lastErr = ErrStreamNotLive
	}
	return s.fail(fmt.Errorf("kamera gagal start setelah %d percobaan: %w", s.cfg.MaxStartAttempts, lastErr))
}

func (s *Session) verifyLive(ctx context.Context, handle Handle) bool {
	deadline := time.Now().Add(s.cfg.VerifyWindow)
	for time.Now().Before(deadline) {
		if handle.Live() {
			return true
		}
		select {
		case <-time.After(s.cfg.VerifyInterval):
		case <-ctx.Done():
			return false
		}
	}
	return handle.Live()
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	if s.state != StateTerminated {
		s.setState(StateError)
	}
	s.lastErr = err
	s.mu.Unlock()
	return err
}

// Stop melepas kamera dan men-terminate sesi. Idempoten dan aman dipanggil
// dari beberapa pemicu teardown sekaligus; tidak return sebelum semua
// track hardware terkonfirmasi berhenti. Pipeline yang masih jalan
// dibatalkan lewat context sesi dan hasilnya diabaikan.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.stopping {
		done := s.stopDone
		s.mu.Unlock()
		<-done
		return nil
	}
	if s.state == StateTerminated && s.handle == nil {
		s.mu.Unlock()
		return nil
	}

	s.stopping = true
	s.stopDone = make(chan struct{})
	done := s.stopDone
	handle := s.handle
	s.handle = nil
	if s.cancel != nil {
		s.cancel()
	}
	if s.state != StateTerminated {
		s.setState(StateTerminated)
	}
	s.mu.Unlock()

	var err error
	if handle != nil {
		err = s.stopHandle(handle)
	}

	s.mu.Lock()
	s.stopping = false
	s.mu.Unlock()
	close(done)
	return err
}

// stopHandle menghentikan satu handle dan menunggu track-nya nol.
func (s *Session) stopHandle(handle Handle) error {
	if err := s.decoder.Stop(handle); err != nil {
		return fmt.Errorf("gagal stop decoder: %w", err)
	}

	deadline := time.Now().Add(s.cfg.StopWindow)
	for handle.ActiveTracks() > 0 {
		if time.Now().After(deadline) {
			return ErrTracksStillLive
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// Acknowledge membuka kembali scanner setelah outcome AlreadyRedeemed.
// Outcome itu terminal-informasional: tanpa dismissal eksplisit, kode yang
// masih terlihat kamera akan langsung memicu outcome yang sama lagi.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCooldown || !s.ackRequired {
		return
	}
	s.ackRequired = false
	s.lastPayload = ""
	s.setState(StateActive)
}

// handleDecode adalah callback per frame dari decoder. Frame diproses satu
// per satu sampai outcome terminal; frame yang datang saat bukan Active
// diabaikan, termasuk decode berulang payload yang sama.
func (s *Session) handleDecode(text string) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	if text == s.lastPayload {
		s.mu.Unlock()
		return
	}
	s.lastPayload = text
	s.setState(StateProcessing)
	ctx := s.ctx
	s.mu.Unlock()

	outcome := s.process(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOutcome = &outcome

	if s.state != StateProcessing {
		// Teardown menang atas hasil pipeline yang terlambat.
		return
	}

	switch {
	case outcome.Kind == reward.OutcomeSuccess:
		// Caller dipastikan navigasi pergi setelah sukses; sesi selesai.
		s.setState(StateTerminated)
	case outcome.NeedsAck():
		s.ackRequired = true
		s.setState(StateCooldown)
	case outcome.InputError() || outcome.Transient():
		s.enterCooldownLocked()
	default:
		s.setState(StateError)
	}
}

// enterCooldownLocked dipanggil dengan s.mu tergenggam.
func (s *Session) enterCooldownLocked() {
	s.ackRequired = false
	s.setState(StateCooldown)
	s.cooldownGen++
	gen := s.cooldownGen

	time.AfterFunc(s.cfg.Cooldown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.state != StateCooldown || s.ackRequired || gen != s.cooldownGen {
			return
		}
		s.lastPayload = ""
		s.setState(StateActive)
	})
}

// handleDecoderError menerima noise transient dari decoder ("tidak ada
// kode di frame ini"). Itu sinyal steady-state yang diharapkan, bukan
// kegagalan; tidak ada yang perlu dilakukan.
func (s *Session) handleDecoderError(err error) {
	_ = err
}
