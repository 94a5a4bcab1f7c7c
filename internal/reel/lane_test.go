package reel_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/trace"
)

var _ = Describe("Lane", func() {
	var (
		cfg  reel.Config
		lane *reel.Lane
	)

	newLane := func(events ...trace.Event) *reel.Lane {
		l, err := reel.NewLane(trace.Sequential, &trace.Trace{ExecutionTime: 10, Events: events}, testMaze(), cfg)
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	markAt := func(l *reel.Lane, col, row int) (trace.Kind, bool) {
		return l.Mark(col, row)
	}

	BeforeEach(func() {
		cfg = unitConfig()
	})

	Describe("advancing", func() {
		BeforeEach(func() {
			lane = newLane(
				at(3, trace.Visited, 0, 0),
				at(1, trace.Successor, 1, 0),
				at(2, trace.Goal, 2, 0),
				end(4),
			)
		})

		It("consumes events in timestamp order regardless of input order", func() {
			Expect(lane.Advance(1.5)).To(Equal(1))
			_, ok := markAt(lane, 1, 0)
			Expect(ok).To(BeTrue())
			_, ok = markAt(lane, 0, 0)
			Expect(ok).To(BeFalse())

			Expect(lane.Advance(3)).To(Equal(2))
			kind, ok := markAt(lane, 0, 0)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(trace.Visited))
		})

		It("applies an event whose time equals the target", func() {
			Expect(lane.Advance(2)).To(Equal(2))
			kind, ok := markAt(lane, 2, 0)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(trace.Goal))
			Expect(lane.Cursor()).To(Equal(2))
		})

		It("keeps a future event pending", func() {
			lane.Advance(0.5)
			Expect(lane.Cursor()).To(Equal(0))
			Expect(lane.Finished()).To(BeFalse())
		})

		It("scales timestamps by time scale over speed", func() {
			cfg.TimeScale = 10
			cfg.Speed = 2
			lane = newLane(at(1, trace.Visited, 0, 0), end(2))

			Expect(lane.Duration()).To(Equal(50.0))
			Expect(lane.Advance(4.9)).To(Equal(0))
			Expect(lane.Advance(5)).To(Equal(1))
		})

		It("counts markers by kind", func() {
			lane.Advance(10)
			stats := lane.Stats()
			Expect(stats.Visited).To(Equal(1))
			Expect(stats.Successors).To(Equal(1))
			Expect(stats.Goals).To(Equal(1))
			Expect(stats.Markers()).To(Equal(3))
			Expect(stats.Events).To(Equal(4))
		})
	})

	Describe("finishing", func() {
		It("stops permanently at an end event", func() {
			lane = newLane(at(0, trace.Visited, 0, 0), end(1), at(2, trace.Goal, 2, 2))

			lane.Advance(1)
			Expect(lane.Finished()).To(BeTrue())
			Expect(lane.Stats().FinishedAt).To(Equal(1.0))

			before := append([]byte(nil), lane.Canvas().Pix...)
			Expect(lane.Advance(100)).To(Equal(0))
			Expect(lane.Canvas().Pix).To(Equal(before))
			_, ok := markAt(lane, 2, 2)
			Expect(ok).To(BeFalse())
		})

		It("finishes when the trace is exhausted and keeps the last path", func() {
			path := []trace.Pos{{Col: 0, Row: 0}, {Col: 1, Row: 0}}
			lane = newLane(at(0.5, trace.Goal, 1, 0, path...))

			Expect(lane.Advance(1)).To(Equal(1))
			Expect(lane.Finished()).To(BeTrue())
			Expect(lane.Path()).To(Equal(path))
			Expect(lane.Stats().FinishedAt).To(Equal(0.5))
		})

		It("finishes an empty trace immediately", func() {
			lane = newLane()
			Expect(lane.Advance(0)).To(Equal(0))
			Expect(lane.Finished()).To(BeTrue())
		})
	})

	Describe("current path", func() {
		It("replaces rather than extends the previous path", func() {
			lane = newLane(
				at(1, trace.Successor, 0, 0, trace.Pos{Col: 0, Row: 0}, trace.Pos{Col: 1, Row: 0}),
				at(2, trace.Successor, 2, 2, trace.Pos{Col: 2, Row: 2}),
				end(3),
			)

			lane.Advance(1)
			Expect(lane.Path()).To(HaveLen(2))
			Expect(lane.Overlay().RGBAAt(5, 5)).To(Equal(reel.PathColor))

			lane.Advance(2)
			Expect(lane.Path()).To(Equal([]trace.Pos{{Col: 2, Row: 2}}))
			Expect(lane.Overlay().RGBAAt(5, 5).A).To(BeZero())
			Expect(lane.Overlay().RGBAAt(25, 25)).To(Equal(reel.PathColor))
			Expect(lane.Stats().PathLength).To(Equal(1))
		})

		It("keeps the previous path when an event carries none", func() {
			lane = newLane(
				at(1, trace.Successor, 0, 0, trace.Pos{Col: 0, Row: 0}),
				at(2, trace.Visited, 1, 1),
			)
			lane.Advance(2)
			Expect(lane.Path()).To(Equal([]trace.Pos{{Col: 0, Row: 0}}))
		})

		It("does not bake the path into the cumulative canvas", func() {
			lane = newLane(at(1, trace.Visited, 0, 0, trace.Pos{Col: 2, Row: 2}))
			lane.Advance(1)
			Expect(lane.Canvas().RGBAAt(25, 25).A).To(BeZero())
			Expect(lane.Canvas().RGBAAt(5, 5)).To(Equal(reel.VisitedColor))
		})
	})

	Describe("validation", func() {
		DescribeTable("rejects malformed events with lane and index",
			func(bad trace.Event, want error) {
				tr := &trace.Trace{Events: []trace.Event{at(0, trace.Visited, 0, 0), bad}}
				_, err := reel.NewLane(trace.ParallelFirst, tr, testMaze(), cfg)

				var evErr *reel.EventError
				Expect(errors.As(err, &evErr)).To(BeTrue())
				Expect(evErr.Lane).To(Equal(trace.ParallelFirst))
				Expect(evErr.Index).To(Equal(1))
				Expect(err).To(MatchError(want))
				Expect(err.Error()).To(ContainSubstring("Par-P"))
			},
			Entry("unknown kind", trace.Event{Time: 1, Kind: trace.Kind(42), HasPos: true}, reel.ErrUnknownKind),
			Entry("missing position", trace.Event{Time: 1, Kind: trace.Goal}, reel.ErrMissingPosition),
			Entry("outside the maze", at(1, trace.Visited, 3, 0), reel.ErrPositionOutside),
			Entry("path outside the maze", at(1, trace.Visited, 0, 0, trace.Pos{Col: -1, Row: 0}), reel.ErrPositionOutside),
		)
	})
})
