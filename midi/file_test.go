package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// writeSMF encodes the given tracks at 960 ticks per quarter, 120 bpm
func writeSMF(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	for _, tr := range tracks {
		require.NoError(t, s.Add(tr))
	}
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func drain(src *FileSource) []Event {
	var out []Event
	for {
		ev, ok := src.Poll()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func notesOnly(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.HasNote {
			out = append(out, ev)
		}
	}
	return out
}

func TestFileSourceDelaysInFrames(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, gomidi.NoteOn(0, 60, 100))
	// one quarter at 120 bpm is half a second
	tr.Add(960, gomidi.NoteOff(0, 60))
	tr.Add(480, gomidi.NoteOn(0, 62, 80))
	tr.Close(0)

	src, err := NewFileSource(bytes.NewReader(writeSMF(t, tr)), 60)
	require.NoError(t, err)
	assert.False(t, src.Done())

	events := drain(src)
	assert.True(t, src.Done())
	assert.Equal(t, len(events), src.Len())
	assert.True(t, events[0].IsMeta)

	notes := notesOnly(events)
	require.Len(t, notes, 3)
	assert.Equal(t, KindNoteOn, notes[0].Kind)
	assert.Equal(t, 0, notes[0].Delay)
	assert.Equal(t, KindNoteOff, notes[1].Kind)
	assert.Equal(t, 30, notes[1].Delay)
	assert.Equal(t, uint8(62), notes[2].Note)
	assert.Equal(t, 15, notes[2].Delay)
	assert.Equal(t, 45, src.Duration())
}

func TestFileSourceMergesTracks(t *testing.T) {
	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(120))
	conductor.Close(0)

	var left smf.Track
	left.Add(0, gomidi.NoteOn(0, 40, 50))
	left.Add(960, gomidi.NoteOff(0, 40))
	left.Close(0)

	var right smf.Track
	right.Add(480, gomidi.NoteOn(1, 70, 60))
	right.Add(960, gomidi.NoteOff(1, 70))
	right.Close(0)

	src, err := NewFileSource(bytes.NewReader(writeSMF(t, conductor, left, right)), 60)
	require.NoError(t, err)

	notes := notesOnly(drain(src))
	require.Len(t, notes, 4)
	assert.Equal(t, []uint8{40, 70, 40, 70}, []uint8{notes[0].Note, notes[1].Note, notes[2].Note, notes[3].Note})
	assert.Equal(t, []int{0, 15, 15, 15}, []int{notes[0].Delay, notes[1].Delay, notes[2].Delay, notes[3].Delay})
}

func TestFileSourceReleaseBeforePressAtSameTime(t *testing.T) {
	var first smf.Track
	first.Add(0, smf.MetaTempo(120))
	first.Add(0, gomidi.NoteOn(0, 60, 100))
	first.Add(960, gomidi.NoteOff(0, 60))
	first.Close(0)

	// the restrike lives on a track that sorts before the release
	var restrike smf.Track
	restrike.Add(960, gomidi.NoteOn(0, 60, 90))
	restrike.Close(0)

	src, err := NewFileSource(bytes.NewReader(writeSMF(t, restrike, first)), 30)
	require.NoError(t, err)

	notes := notesOnly(drain(src))
	require.Len(t, notes, 3)
	assert.Equal(t, KindNoteOn, notes[0].Kind)
	assert.Equal(t, KindNoteOff, notes[1].Kind)
	assert.Equal(t, KindNoteOn, notes[2].Kind)
	assert.Equal(t, 90, notes[2].Velocity)
	assert.Equal(t, 0, notes[2].Delay)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFileSource(strings.NewReader("definitely not midi"), 60)
	assert.Error(t, err)

	_, err = NewFileSource(strings.NewReader(""), 0)
	assert.Error(t, err)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.mid"), 60)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadFile(t *testing.T) {
	var tr smf.Track
	tr.Add(0, gomidi.NoteOn(0, 21, 1))
	tr.Close(0)

	path := filepath.Join(t.TempDir(), "one.mid")
	require.NoError(t, os.WriteFile(path, writeSMF(t, tr), 0644))

	src, err := ReadFile(path, 60)
	require.NoError(t, err)
	notes := notesOnly(drain(src))
	require.Len(t, notes, 1)
	assert.Equal(t, uint8(21), notes[0].Note)
}
