package engine_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattjoyce/ucikit/internal/dispatch"
	"github.com/mattjoyce/ucikit/internal/engine"
	"github.com/mattjoyce/ucikit/internal/engine/mocks"
	"github.com/mattjoyce/ucikit/internal/fault"
	"github.com/mattjoyce/ucikit/internal/protocol"
	"github.com/mattjoyce/ucikit/internal/session"
	"github.com/mattjoyce/ucikit/internal/worker"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type script []string

func (s *script) ReadLine() (string, error) {
	if len(*s) == 0 {
		return "", io.EOF
	}
	line := (*s)[0]
	*s = (*s)[1:]
	return line, nil
}

type fixture struct {
	sess    *session.Session
	eng     *engine.Engine
	applier *mocks.MockApplier
	thinker *mocks.MockThinker
	bencher *mocks.MockBencher
	out     *syncBuffer
	diag    *syncBuffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	f := &fixture{
		applier: mocks.NewMockApplier(ctrl),
		thinker: mocks.NewMockThinker(ctrl),
		bencher: mocks.NewMockBencher(ctrl),
		out:     &syncBuffer{},
		diag:    &syncBuffer{},
	}
	f.sess = session.New(session.Config{Out: f.out, Err: f.diag, Exit: func(int) {}})
	t.Cleanup(f.sess.Close)

	eng, err := engine.New(f.sess, engine.Identity{Name: "Test Engine", Author: "Tester"}, f.applier, f.thinker, f.bencher)
	require.NoError(t, err)
	f.eng = eng
	return f
}

func (f *fixture) run(t *testing.T, lines ...string) {
	t.Helper()
	s := script(lines)
	require.NoError(t, f.sess.Run(context.Background(), &s))
}

func TestUCIAdvertisesStandardOptions(t *testing.T) {
	f := newFixture(t)
	f.run(t, "uci")

	want := "id name Test Engine\n" +
		"id author Tester\n" +
		"option name Threads type spin default 1 min 1 max 1\n" +
		"option name Hash type spin default 32 min 1 max 1048576\n" +
		"uciok\n"
	assert.Equal(t, want, f.out.String())
}

func TestPositionThenGoReportsBestMove(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	pos := mocks.NewMockPosition(ctrl)
	pos.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()

	f.applier.EXPECT().Apply(dispatch.StartPosFEN, []string{"e2e4"}).Return(pos, nil)
	f.thinker.EXPECT().
		Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ engine.Position, limits dispatch.GoArgs, _ worker.StopSignal, report engine.Reporter) (string, string) {
			if assert.NotNil(t, limits.Depth) {
				assert.EqualValues(t, 3, *limits.Depth)
			}
			assert.NoError(t, report.Info(protocol.Depth(3), protocol.PV("e7e5")))
			return "e7e5", "g1f3"
		})

	f.run(t, "position startpos moves e2e4", "go depth 3")
	f.sess.Worker.WaitIdle()

	assert.Equal(t, "info depth 3 pv e7e5\nbestmove e7e5 ponder g1f3\n", f.out.String())
	assert.Empty(t, f.diag.String())
}

func TestGoWithoutPositionUsesStartPos(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	pos := mocks.NewMockPosition(ctrl)
	pos.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()

	f.applier.EXPECT().Apply(dispatch.StartPosFEN, nil).Return(pos, nil)
	f.thinker.EXPECT().Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).Return("", "")

	f.run(t, "go")
	f.sess.Worker.WaitIdle()
	assert.Equal(t, "bestmove 0000\n", f.out.String())
}

func TestIllegalPositionIsInputFault(t *testing.T) {
	f := newFixture(t)
	f.applier.EXPECT().
		Apply("bad fen", nil).
		Return(nil, fault.Inputf("Invalid FEN: bad fen"))

	f.run(t, "position fen bad fen")
	assert.Equal(t, "Error: Invalid FEN: bad fen\n", f.diag.String())
}

func TestSecondGoStopsFirstSearch(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	pos := mocks.NewMockPosition(ctrl)
	pos.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()
	f.applier.EXPECT().Apply(dispatch.StartPosFEN, nil).Return(pos, nil)

	started := make(chan struct{})
	gomock.InOrder(
		f.thinker.EXPECT().Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ engine.Position, _ dispatch.GoArgs, stop worker.StopSignal, _ engine.Reporter) (string, string) {
				close(started)
				for !stop() {
					time.Sleep(time.Millisecond)
				}
				return "a2a3", ""
			}),
		f.thinker.EXPECT().Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).Return("b2b3", ""),
	)

	f.run(t, "go infinite")
	<-started
	f.run(t, "go depth 1")
	f.sess.Worker.WaitIdle()

	assert.Equal(t, "bestmove a2a3\nbestmove b2b3\n", f.out.String())
}

func TestStopCommandEndsInfiniteSearch(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	pos := mocks.NewMockPosition(ctrl)
	pos.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()
	f.applier.EXPECT().Apply(dispatch.StartPosFEN, nil).Return(pos, nil)

	started := make(chan struct{})
	f.thinker.EXPECT().Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ engine.Position, limits dispatch.GoArgs, stop worker.StopSignal, _ engine.Reporter) (string, string) {
			assert.True(t, limits.Infinite)
			close(started)
			for !stop() {
				time.Sleep(time.Millisecond)
			}
			return "e2e4", ""
		})

	f.run(t, "go infinite")
	<-started
	f.run(t, "stop")
	f.sess.Worker.WaitIdle()
	assert.Equal(t, "bestmove e2e4\n", f.out.String())
}

func TestNewGameResetsPosition(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	first := mocks.NewMockPosition(ctrl)
	fresh := mocks.NewMockPosition(ctrl)
	fresh.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()

	gomock.InOrder(
		f.applier.EXPECT().Apply("8/8/8/8/8/8/8/8 w - - 0 1", nil).Return(first, nil),
		f.applier.EXPECT().Apply(dispatch.StartPosFEN, nil).Return(fresh, nil),
	)
	f.thinker.EXPECT().Think(fresh, gomock.Any(), gomock.Any(), gomock.Any()).Return("e2e4", "")

	f.run(t, "position fen 8/8/8/8/8/8/8/8 w - - 0 1", "ucinewgame", "go")
	f.sess.Worker.WaitIdle()
	assert.Equal(t, "bestmove e2e4\n", f.out.String())
}

func TestBenchCommand(t *testing.T) {
	f := newFixture(t)
	f.bencher.EXPECT().Bench().Return(uint64(2000), time.Second, nil)
	f.run(t, "bench")
	assert.Equal(t, "2000 nodes 2000 nps\n", f.out.String())
}

func TestBenchFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	var faults []error
	f.sess.SetFaultHandler(func(err error) { faults = append(faults, err) })
	f.bencher.EXPECT().Bench().Return(uint64(0), time.Duration(0), errors.New("no positions"))

	f.run(t, "bench")
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0].Error(), "no positions")
}

func TestApplyOverrides(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.eng.ApplyOverrides(map[string]string{"Hash": "256", "Threads": "1"}))
	assert.EqualValues(t, 256, f.eng.HashMB())

	err := f.eng.ApplyOverrides(map[string]string{"Hash": "0"})
	require.Error(t, err)
	assert.True(t, fault.IsInput(err))
	assert.True(t, strings.HasPrefix(err.Error(), "config option Hash:"))
	assert.EqualValues(t, 256, f.eng.HashMB())
}

func TestThrottledReporter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	out := &syncBuffer{}
	sess := session.New(session.Config{Out: out, Err: io.Discard, Exit: func(int) {}})
	defer sess.Close()

	applier := mocks.NewMockApplier(ctrl)
	thinker := mocks.NewMockThinker(ctrl)
	pos := mocks.NewMockPosition(ctrl)
	pos.EXPECT().FEN().Return(dispatch.StartPosFEN).AnyTimes()
	applier.EXPECT().Apply(dispatch.StartPosFEN, nil).Return(pos, nil)
	thinker.EXPECT().Think(pos, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ engine.Position, _ dispatch.GoArgs, _ worker.StopSignal, report engine.Reporter) (string, string) {
			for i := 0; i < 10; i++ {
				assert.NoError(t, report.Info(protocol.Depth(i+1)))
			}
			return "e2e4", ""
		})

	_, err := engine.New(sess, engine.Identity{Name: "T", InfoPerSecond: 0.001}, applier, thinker, mocks.NewMockBencher(ctrl))
	require.NoError(t, err)

	s := script{"go"}
	require.NoError(t, sess.Run(context.Background(), &s))
	sess.Worker.WaitIdle()
	assert.Equal(t, "info depth 1\nbestmove e2e4\n", out.String())
}
