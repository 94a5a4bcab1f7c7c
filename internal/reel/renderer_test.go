package reel_test

import (
	"context"
	"errors"
	"image"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/reel"
	"github.com/san-kum/astarviz/internal/trace"
)

var _ = Describe("Renderer", func() {
	var (
		cfg    reel.Config
		traces trace.Set
	)

	BeforeEach(func() {
		cfg = unitConfig()
		cfg.FrameRate = 10
		cfg.EndDelay = 0.5

		traces = trace.Set{}
		traces[trace.Sequential] = &trace.Trace{
			ExecutionTime: 1.0,
			Events:        []trace.Event{at(0.0, trace.Visited, 0, 0), end(1.0)},
		}
		traces[trace.ParallelExhaustive] = &trace.Trace{
			ExecutionTime: 2.0,
			Events:        []trace.Event{at(0.5, trace.Goal, 1, 1), end(2.0)},
		}
	})

	newRenderer := func() *reel.Renderer {
		r, err := reel.New(cfg, testMaze(), traces)
		Expect(err).NotTo(HaveOccurred())
		return r
	}

	Describe("frame clock", func() {
		It("runs for the longest lane plus the trailing hold", func() {
			r := newRenderer()
			Expect(r.Duration()).To(Equal(2.0))
			Expect(r.FrameCount()).To(Equal(25))

			sink := &memorySink{}
			result, err := r.Run(context.Background(), sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Frames).To(Equal(25))
			Expect(sink.frames).To(HaveLen(25))
			Expect(result.Duration).To(Equal(2.0))
		})

		It("compresses the duration when playback is faster", func() {
			cfg.Speed = 2
			r := newRenderer()
			Expect(r.Duration()).To(Equal(1.0))
			Expect(r.FrameCount()).To(Equal(15))
		})

		It("notifies observers once per frame in order", func() {
			r := newRenderer()
			var indexes []int
			var times []float64
			r.AddObserver(reel.ObserverFunc(func(f reel.FrameInfo) {
				indexes = append(indexes, f.Index)
				times = append(times, f.Time)
				Expect(f.Lanes).To(HaveLen(2))
			}))

			_, err := r.Run(context.Background(), &memorySink{})
			Expect(err).NotTo(HaveOccurred())
			Expect(indexes).To(HaveLen(25))
			for i := range indexes {
				Expect(indexes[i]).To(Equal(i))
				if i > 0 {
					Expect(times[i]).To(BeNumerically(">", times[i-1]))
				}
			}
		})

		It("holds finished lanes until the end", func() {
			r := newRenderer()
			result, err := r.Run(context.Background(), &memorySink{})
			Expect(err).NotTo(HaveOccurred())

			for _, s := range result.Lanes {
				Expect(s.Finished).To(BeTrue())
			}
			Expect(result.Lanes[0].FinishedAt).To(Equal(1.0))
			Expect(result.Lanes[0].Visited).To(Equal(1))
			Expect(result.Lanes[1].Goals).To(Equal(1))
		})

		It("refuses to run backwards", func() {
			r := newRenderer()
			_, err := r.Frame(1)
			Expect(err).NotTo(HaveOccurred())
			_, err = r.Frame(0.5)
			Expect(err).To(MatchError(reel.ErrClockBackwards))
		})

		It("rewinds on Reset", func() {
			r := newRenderer()
			Expect(r.Step(5)).To(Succeed())
			Expect(r.Lanes()[0].Finished()).To(BeTrue())

			Expect(r.Reset()).To(Succeed())
			Expect(r.Lanes()[0].Finished()).To(BeFalse())
			Expect(r.Step(0)).To(Succeed())
		})

		It("rewinds before running again", func() {
			r := newRenderer()
			Expect(r.Step(1.2)).To(Succeed())

			sink := &memorySink{}
			result, err := r.Run(context.Background(), sink)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Frames).To(Equal(r.FrameCount()))
			Expect(result.Lanes[0].Finished).To(BeTrue())
		})

		It("stops when the context is cancelled", func() {
			r := newRenderer()
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := r.Run(ctx, &memorySink{})
			Expect(err).To(MatchError(context.Canceled))
			Expect(result.Frames).To(BeZero())
		})

		It("wraps sink failures", func() {
			r := newRenderer()
			boom := errors.New("disk full")
			_, err := r.Run(context.Background(), &memorySink{fail: boom})
			Expect(err).To(MatchError(boom))
			Expect(err.Error()).To(ContainSubstring("frame 0"))
		})
	})

	Describe("compositing", func() {
		It("shows markers from both lanes at t=0.6", func() {
			r := newRenderer()
			frame, err := r.Frame(0.6)
			Expect(err).NotTo(HaveOccurred())

			lanes := r.Lanes()
			kind, ok := lanes[0].Mark(0, 0)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(trace.Visited))
			kind, ok = lanes[1].Mark(1, 1)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(trace.Goal))

			layout := r.Layout()
			seq := layout.Origin(0).Add(image.Pt(5, 5))
			par := layout.Origin(1).Add(image.Pt(15, 15))
			Expect(frame.RGBAAt(seq.X, seq.Y)).To(Equal(reel.VisitedColor))
			Expect(frame.RGBAAt(par.X, par.Y)).To(Equal(reel.GoalColor))
		})

		It("draws path overlays above markers", func() {
			traces[trace.Sequential].Events = []trace.Event{
				at(0, trace.Visited, 0, 0),
				at(0.1, trace.Successor, 1, 0, trace.Pos{Col: 0, Row: 0}),
			}
			r := newRenderer()
			frame, err := r.Frame(0.1)
			Expect(err).NotTo(HaveOccurred())

			p := r.Layout().Origin(0).Add(image.Pt(5, 5))
			Expect(frame.RGBAAt(p.X, p.Y)).To(Equal(reel.PathColor))
		})

		It("leaves the base untouched outside markers", func() {
			r := newRenderer()
			frame, err := r.Frame(0)
			Expect(err).NotTo(HaveOccurred())

			Expect(frame.RGBAAt(0, r.Size().Y-1)).To(Equal(reel.FrameBackground))
			drawn := r.Layout().Origin(0).Add(image.Pt(5, 5))
			Expect(frame.RGBAAt(drawn.X, drawn.Y)).To(Equal(reel.VisitedColor))
			pending := r.Layout().Origin(1).Add(image.Pt(5, 5))
			Expect(frame.RGBAAt(pending.X, pending.Y)).To(Equal(maze.Background))
		})

		It("sizes frames from the participating lanes", func() {
			r := newRenderer()
			Expect(r.Size()).To(Equal(image.Pt(2*30+3*20, 30+2*20)))
		})

		It("shrinks by one board and one spacing when a lane is omitted", func() {
			full := newRenderer().Size()
			traces[trace.ParallelExhaustive] = nil
			one := newRenderer().Size()

			Expect(full.X - one.X).To(Equal(30 + 20))
			Expect(one.Y).To(Equal(full.Y))
		})

		It("lays lanes out in registration order", func() {
			traces[trace.ParallelFirst] = traces[trace.Sequential]
			traces[trace.Sequential] = nil
			r := newRenderer()

			Expect(r.Lanes()).To(HaveLen(2))
			Expect(r.Lanes()[0].Algorithm()).To(Equal(trace.ParallelExhaustive))
			Expect(r.Lanes()[1].Algorithm()).To(Equal(trace.ParallelFirst))
		})
	})

	Describe("determinism", func() {
		It("produces byte-identical frames for identical input", func() {
			traces[trace.ParallelFirst] = &trace.Trace{
				ExecutionTime: 1.5,
				Events: []trace.Event{
					at(0.3, trace.Successor, 2, 2, trace.Pos{Col: 2, Row: 2}, trace.Pos{Col: 2, Row: 1}),
					at(0.2, trace.Visited, 2, 1),
					end(1.5),
				},
			}

			a, b := &memorySink{}, &memorySink{}
			_, err := newRenderer().Run(context.Background(), a)
			Expect(err).NotTo(HaveOccurred())
			_, err = newRenderer().Run(context.Background(), b)
			Expect(err).NotTo(HaveOccurred())

			Expect(a.frames).To(HaveLen(len(b.frames)))
			for i := range a.frames {
				Expect(a.frames[i]).To(Equal(b.frames[i]), "frame %d differs", i)
			}
		})
	})

	Describe("construction", func() {
		It("requires at least one lane", func() {
			_, err := reel.New(cfg, testMaze(), trace.Set{})
			Expect(err).To(MatchError(reel.ErrNoLanes))
		})

		DescribeTable("rejects invalid configs",
			func(mutate func(*reel.Config)) {
				mutate(&cfg)
				_, err := reel.New(cfg, testMaze(), traces)
				Expect(err).To(MatchError(reel.ErrInvalidConfig))
			},
			Entry("zero frame rate", func(c *reel.Config) { c.FrameRate = 0 }),
			Entry("zero cell size", func(c *reel.Config) { c.CellSize = 0 }),
			Entry("negative spacing", func(c *reel.Config) { c.Spacing = -1 }),
			Entry("zero time scale", func(c *reel.Config) { c.TimeScale = 0 }),
			Entry("negative speed", func(c *reel.Config) { c.Speed = -1 }),
			Entry("negative end delay", func(c *reel.Config) { c.EndDelay = -0.1 }),
		)

		It("reports malformed events before rendering", func() {
			traces[trace.ParallelExhaustive].Events = append(traces[trace.ParallelExhaustive].Events,
				trace.Event{Time: 1, Kind: trace.Visited})
			_, err := reel.New(cfg, testMaze(), traces)

			var evErr *reel.EventError
			Expect(errors.As(err, &evErr)).To(BeTrue())
			Expect(evErr.Lane).To(Equal(trace.ParallelExhaustive))
			Expect(evErr.Index).To(Equal(2))
		})
	})
})
