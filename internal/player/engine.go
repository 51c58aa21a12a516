// Package player owns playback state: the current track, play/pause, elapsed
// time, shuffle mode and the active queue. The state is deliberately not
// persisted; a restart always comes back idle.
package player

import (
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"musicbox/internal/catalog"
)

// fallback when a track carries no parseable "mm:ss" duration
const defaultDurationSeconds = 180

// previousTrack restarts the current track instead of moving back when more
// than this many seconds have elapsed.
const restartThresholdSeconds = 5

// State is a snapshot of the playback machine. currentTrackIndex always
// indexes into shuffledPlaylist when shuffle is on, currentPlaylist
// otherwise.
type State struct {
	CurrentTrack      *catalog.Track  `json:"currentTrack"`
	IsPlaying         bool            `json:"isPlaying"`
	CurrentTime       int             `json:"currentTime"`
	Duration          int             `json:"duration"`
	Shuffle           bool            `json:"shuffle"`
	Repeat            bool            `json:"repeat"`
	CurrentPlaylist   []catalog.Track `json:"currentPlaylist"`
	ShuffledPlaylist  []catalog.Track `json:"shuffledPlaylist"`
	CurrentTrackIndex int             `json:"currentTrackIndex"`
}

type Engine struct {
	mu  sync.Mutex
	st  State
	rnd *rand.Rand

	onChange   func(State)
	transition func(playing, hasTrack bool)
}

// NewEngine builds an idle engine. rnd may be nil, in which case a
// time-seeded source is used; tests inject a fixed seed.
func NewEngine(rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rnd: rnd}
}

// SetOnChange registers a callback invoked with a state snapshot after every
// mutation. Used to broadcast progress to clients.
func (e *Engine) SetOnChange(fn func(State)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// SetTransitionHook registers the timer owner's hook; it fires after every
// operation with the flags that decide whether the clock should run.
func (e *Engine) SetTransitionHook(fn func(playing, hasTrack bool)) {
	e.mu.Lock()
	e.transition = fn
	e.mu.Unlock()
}

// SetCurrentTrack loads a track within a playlist and starts playing it.
// When shuffle is on the queue is rebuilt with the new track pinned first.
func (e *Engine) SetCurrentTrack(track catalog.Track, pl []catalog.Track) {
	e.mu.Lock()
	e.st.CurrentTrack = &track
	e.st.CurrentPlaylist = append([]catalog.Track{}, pl...)

	idx := indexOfTrack(e.st.CurrentPlaylist, track.ID)
	if idx == -1 {
		log.Printf("player: track %q not in supplied playlist", track.ID)
		idx = 0
	}
	e.st.CurrentTrackIndex = idx

	if e.st.Shuffle && len(e.st.CurrentPlaylist) > 0 {
		e.st.ShuffledPlaylist = e.buildShuffled(track.ID)
		e.st.CurrentTrackIndex = 0
	} else {
		e.st.ShuffledPlaylist = nil
	}

	e.loadLocked(track)
	e.finish()
}

func (e *Engine) Play() {
	e.mu.Lock()
	e.st.IsPlaying = true
	e.finish()
}

func (e *Engine) Pause() {
	e.mu.Lock()
	e.st.IsPlaying = false
	e.finish()
}

func (e *Engine) TogglePlay() {
	e.mu.Lock()
	e.st.IsPlaying = !e.st.IsPlaying
	e.finish()
}

// SetCurrentTime seeks, clamped to [0, duration].
func (e *Engine) SetCurrentTime(t int) {
	e.mu.Lock()
	if t < 0 {
		t = 0
	}
	if t > e.st.Duration {
		t = e.st.Duration
	}
	e.st.CurrentTime = t
	e.finish()
}

// Tick advances elapsed time by one second. Reaching duration-1 advances to
// the next track (or restarts the current one under repeat) instead of
// running past the end.
func (e *Engine) Tick() {
	e.mu.Lock()
	if e.st.CurrentTrack == nil || !e.st.IsPlaying {
		e.mu.Unlock()
		return
	}

	next := e.st.CurrentTime + 1
	if next >= e.st.Duration-1 {
		if e.st.Repeat {
			e.st.CurrentTime = 0
			e.finish()
			return
		}
		e.nextLocked()
		e.finish()
		return
	}
	e.st.CurrentTime = next
	e.finish()
}

// NextTrack moves to the next queue entry, wrapping around; the playlist is
// circular. No-op on an empty queue.
func (e *Engine) NextTrack() {
	e.mu.Lock()
	e.nextLocked()
	e.finish()
}

// PreviousTrack restarts the current track when more than five seconds in,
// otherwise steps back circularly.
func (e *Engine) PreviousTrack() {
	e.mu.Lock()
	queue := e.activeQueueLocked()
	if len(queue) == 0 {
		e.mu.Unlock()
		return
	}

	if e.st.CurrentTime > restartThresholdSeconds {
		e.st.CurrentTime = 0
		e.finish()
		return
	}

	idx := e.st.CurrentTrackIndex - 1
	if idx < 0 {
		idx = len(queue) - 1
	}
	e.st.CurrentTrackIndex = idx
	e.loadLocked(queue[idx])
	e.finish()
}

// ToggleShuffle flips shuffle mode. Turning it on builds the shuffled queue
// with the current track first; turning it off resumes from the current
// track's position in the sequential playlist.
func (e *Engine) ToggleShuffle() {
	e.mu.Lock()
	turningOn := !e.st.Shuffle

	if turningOn && len(e.st.CurrentPlaylist) > 0 && e.st.CurrentTrack != nil {
		e.st.ShuffledPlaylist = e.buildShuffled(e.st.CurrentTrack.ID)
		e.st.CurrentTrackIndex = 0
	} else if !turningOn {
		if e.st.CurrentTrack != nil {
			idx := indexOfTrack(e.st.CurrentPlaylist, e.st.CurrentTrack.ID)
			if idx == -1 {
				idx = 0
			}
			e.st.CurrentTrackIndex = idx
		}
		e.st.ShuffledPlaylist = nil
	}

	e.st.Shuffle = turningOn
	e.finish()
}

func (e *Engine) ToggleRepeat() {
	e.mu.Lock()
	e.st.Repeat = !e.st.Repeat
	e.finish()
}

// SetPlaylist replaces the active playlist. Under shuffle the queue is
// rebuilt keeping the current track first when it is still present,
// otherwise the whole new list is reshuffled and playback jumps to its
// first entry. In sequential mode the index is re-located against the new
// list so a shorter replacement never leaves it pointing past the end.
func (e *Engine) SetPlaylist(tracks []catalog.Track) {
	e.mu.Lock()
	e.st.CurrentPlaylist = append([]catalog.Track{}, tracks...)

	if e.st.Shuffle {
		if len(e.st.CurrentPlaylist) > 0 {
			if e.st.CurrentTrack != nil && indexOfTrack(e.st.CurrentPlaylist, e.st.CurrentTrack.ID) != -1 {
				e.st.ShuffledPlaylist = e.buildShuffled(e.st.CurrentTrack.ID)
			} else {
				e.st.ShuffledPlaylist = e.shuffleTracks(e.st.CurrentPlaylist)
				first := e.st.ShuffledPlaylist[0]
				e.st.CurrentTrack = &first
			}
		} else {
			e.st.ShuffledPlaylist = nil
		}
		e.st.CurrentTrackIndex = 0
	} else {
		idx := 0
		if e.st.CurrentTrack != nil {
			if i := indexOfTrack(e.st.CurrentPlaylist, e.st.CurrentTrack.ID); i != -1 {
				idx = i
			}
		}
		e.st.CurrentTrackIndex = idx
	}
	e.finish()
}

// Clear resets the engine to Idle.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.st = State{}
	e.finish()
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) nextLocked() {
	queue := e.activeQueueLocked()
	if len(queue) == 0 {
		return
	}
	idx := (e.st.CurrentTrackIndex + 1) % len(queue)
	e.st.CurrentTrackIndex = idx
	e.loadLocked(queue[idx])
}

// loadLocked makes the track current: recompute duration, rewind, autoplay.
func (e *Engine) loadLocked(track catalog.Track) {
	e.st.CurrentTrack = &track
	e.st.Duration = parseDuration(track.Duration)
	e.st.CurrentTime = 0
	e.st.IsPlaying = true
}

func (e *Engine) activeQueueLocked() []catalog.Track {
	if e.st.Shuffle {
		return e.st.ShuffledPlaylist
	}
	return e.st.CurrentPlaylist
}

// buildShuffled returns [current] ++ shuffle(rest of currentPlaylist).
func (e *Engine) buildShuffled(currentID string) []catalog.Track {
	idx := indexOfTrack(e.st.CurrentPlaylist, currentID)
	if idx == -1 {
		return e.shuffleTracks(e.st.CurrentPlaylist)
	}

	rest := make([]catalog.Track, 0, len(e.st.CurrentPlaylist)-1)
	rest = append(rest, e.st.CurrentPlaylist[:idx]...)
	rest = append(rest, e.st.CurrentPlaylist[idx+1:]...)

	out := make([]catalog.Track, 0, len(e.st.CurrentPlaylist))
	out = append(out, e.st.CurrentPlaylist[idx])
	out = append(out, e.shuffleTracks(rest)...)
	return out
}

// shuffleTracks is a Fisher-Yates shuffle over a copy.
func (e *Engine) shuffleTracks(in []catalog.Track) []catalog.Track {
	out := append([]catalog.Track{}, in...)
	for i := len(out) - 1; i > 0; i-- {
		j := e.rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// finish snapshots, unlocks and fires the hooks. Callers hold the mutex.
func (e *Engine) finish() {
	snap := e.snapshotLocked()
	onChange := e.onChange
	transition := e.transition
	e.mu.Unlock()

	if transition != nil {
		transition(snap.IsPlaying, snap.CurrentTrack != nil)
	}
	if onChange != nil {
		onChange(snap)
	}
}

func (e *Engine) snapshotLocked() State {
	snap := e.st
	if e.st.CurrentTrack != nil {
		t := *e.st.CurrentTrack
		snap.CurrentTrack = &t
	}
	snap.CurrentPlaylist = append([]catalog.Track{}, e.st.CurrentPlaylist...)
	snap.ShuffledPlaylist = append([]catalog.Track{}, e.st.ShuffledPlaylist...)
	return snap
}

// parseDuration converts "mm:ss" to seconds, defaulting to three minutes on
// anything unparseable.
func parseDuration(s string) int {
	if !strings.Contains(s, ":") {
		return defaultDurationSeconds
	}
	parts := strings.SplitN(s, ":", 2)
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return defaultDurationSeconds
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		seconds = 0
	}
	return minutes*60 + seconds
}

func indexOfTrack(tracks []catalog.Track, id string) int {
	for i := range tracks {
		if tracks[i].ID == id {
			return i
		}
	}
	return -1
}
