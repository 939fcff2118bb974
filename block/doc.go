package block

// Wildcopy discipline.
//
// The reference decoder advances through output faster than strictly
// necessary by copying in fixed-size chunks (8, 16, or 32 bytes) and
// letting the write cursor overshoot the exact byte count, trusting a
// safety margin in the output buffer to absorb the overshoot. Go slices
// panic on an out-of-bounds write, so the copy primitives in this
// package (copyLiterals, copyMatchWide, copyMatchNarrow and
// copyMatchOverlapping) copy exactly the length their caller passes.
// runFastLoop and runSafeLoop's general path pass the exact literal or
// match length. The one overshooting copy is runSafeLoop's two-stage
// shortcut: it copies a fixed 16 (endOnInput) or 8 (endOnOutput)
// literal bytes whatever the literal length, and its shortIEnd/shortOEnd
// window is what keeps that copy inside both buffers.
//
// fastloopSafeDistance is what lets runFastLoop check headroom once per
// sequence instead of bounding every literal and match copy
// individually, and the shortcut windows are what let runSafeLoop's
// shortcut skip the general path's length/offset validation for the
// common case.
