// Package reel synthesizes the frames of a side-by-side search animation.
//
// Each participating algorithm gets a lane that replays its trace against a
// shared maze board:
//
//   - [Lane]: cursor into one sorted trace plus the markers drawn so far
//   - [Compositor]: pastes boards, lane canvases and path overlays into a frame
//   - [Renderer]: the frame clock, stepping simulated time at a fixed rate
//
// # Timing
//
// Event timestamps are scaled by TimeScale/Speed before they are compared
// with the simulated clock. An event whose scaled time equals the frame time
// is applied in that frame. Frame i is rendered at i/FrameRate and the clock
// stops after ceil((duration+EndDelay)*FrameRate) frames.
//
// # Example
//
//	r, _ := reel.New(reel.DefaultConfig(), m, traces)
//	result, _ := r.Run(ctx, sink)
//
// # Thread Safety
//
// A Renderer and its lanes are NOT thread-safe. Frames are produced
// sequentially and the same inputs always yield the same pixels.
package reel
